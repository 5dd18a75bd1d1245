package model

// CapabilityName identifies an optional tool a work unit may use.
type CapabilityName string

const (
	CapabilitySearch CapabilityName = "search"
	CapabilityScrape CapabilityName = "scrape"
)

// Role describes the persona a work unit adopts when calling the model.
type Role struct {
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}

// WorkUnit is one role-bound step in the pipeline. Units are created once at
// pipeline-build time and never mutated afterwards.
type WorkUnit struct {
	Name           string           `json:"name"`
	Role           Role             `json:"role"`
	PromptTemplate string           `json:"prompt_template"`
	ExpectedOutput string           `json:"expected_output"`
	Context        []string         `json:"context,omitempty"`      // upstream unit names, in declared order
	Capabilities   []CapabilityName `json:"capabilities,omitempty"` // bound subset actually available
}

// ExecutionContext maps completed unit names to their raw text output. It is
// populated by the executor as each unit finishes; units themselves only ever
// read from it through their assembled prompt.
type ExecutionContext map[string]string

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusBuilt     RunStatus = "built"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Inputs are the two required free-text research parameters.
type Inputs struct {
	Industry string `json:"industry"`
	Country  string `json:"country"`
}

// UnitResult records the outcome of a single unit execution, for diagnostics.
type UnitResult struct {
	Unit         string `json:"unit"`
	DurationMS   int64  `json:"duration_ms"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}
