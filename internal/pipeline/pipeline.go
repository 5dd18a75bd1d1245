// Package pipeline builds and executes the dependency-ordered set of
// role-bound work units that produce a raw lead list from a research topic.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/capability"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/cost"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/registry"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

// Pipeline executes work units strictly in topological order, threading each
// unit's output into its downstream units. Execution is single-threaded and
// synchronous: determinism of context assembly is worth more here than
// throughput. The struct holds only immutable build products, so one cached
// instance can serve overlapping runs; all run-scoped state (execution
// context, usage tracker, status) lives inside Run.
type Pipeline struct {
	units []model.WorkUnit // topologically ordered
	final string
	ai    anthropic.Client
	aiCfg config.AnthropicConfig
	caps  capability.Set
	rates cost.Rates
}

// RunResult is the outcome of a successful pipeline run.
type RunResult struct {
	RunID   string                 `json:"run_id"`
	Status  model.RunStatus        `json:"status"`
	Raw     string                 `json:"raw"` // final unit's output, input to extraction
	Context model.ExecutionContext `json:"context"`
	Units   []model.UnitResult     `json:"units"`
	Usage   cost.Summary           `json:"usage"`
}

// New builds a pipeline from the registry configuration. All structural
// validation (missing roles, unknown references, cycles) happens here, before
// any unit can execute; on error no pipeline is returned.
func New(aiCfg config.AnthropicConfig, rates cost.Rates, reg *registry.Registry, caps capability.Set, aiClient anthropic.Client) (*Pipeline, error) {
	units, err := BuildUnits(reg, caps)
	if err != nil {
		return nil, err
	}

	ordered, err := Order(units)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		units: ordered,
		final: reg.FinalTask(),
		ai:    aiClient,
		aiCfg: aiCfg,
		caps:  caps,
		rates: rates,
	}, nil
}

// Units returns the execution order, for diagnostics.
func (p *Pipeline) Units() []model.WorkUnit {
	out := make([]model.WorkUnit, len(p.units))
	copy(out, p.units)
	return out
}

// Run executes all units in order. Any unit failure aborts the run
// immediately with an ExecutionError naming the unit; no partial results are
// surfaced. On success the final unit's raw output, the full execution
// context, and the usage summary are returned. Run is safe to call from
// concurrent callers sharing one cached instance: each call gets its own
// execution context and usage tracker.
func (p *Pipeline) Run(ctx context.Context, inputs model.Inputs) (*RunResult, error) {
	log := zap.L().With(
		zap.String("industry", inputs.Industry),
		zap.String("country", inputs.Country),
	)
	runID := uuid.NewString()
	log.Info("pipeline: starting run", zap.String("run_id", runID), zap.Int("units", len(p.units)))

	tracker := cost.NewTracker(p.aiCfg.Model, p.rates)
	execCtx := make(model.ExecutionContext, len(p.units))
	unitResults := make([]model.UnitResult, 0, len(p.units))

	for _, unit := range p.units {
		start := time.Now()

		raw, usage, err := p.executeUnit(ctx, unit, inputs, execCtx)
		if err != nil {
			log.Error("pipeline: unit failed, aborting run",
				zap.String("run_id", runID),
				zap.String("unit", unit.Name),
				zap.String("status", string(model.RunStatusFailed)),
				zap.Error(err),
			)
			return nil, &ExecutionError{Unit: unit.Name, Err: err}
		}

		// The output must be visible to downstream units before the next
		// unit starts.
		execCtx[unit.Name] = raw
		tracker.Track(int(usage.InputTokens), int(usage.OutputTokens))

		unitResults = append(unitResults, model.UnitResult{
			Unit:         unit.Name,
			DurationMS:   time.Since(start).Milliseconds(),
			InputTokens:  int(usage.InputTokens),
			OutputTokens: int(usage.OutputTokens),
		})
		log.Info("pipeline: unit complete",
			zap.String("run_id", runID),
			zap.String("unit", unit.Name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("output_tokens", usage.OutputTokens),
		)
	}

	summary := tracker.Summary()
	log.Info("pipeline: run complete",
		zap.String("run_id", runID),
		zap.Int("total_tokens", summary.TotalTokens),
		zap.Float64("total_cost", summary.TotalCost),
	)

	return &RunResult{
		RunID:   runID,
		Status:  model.RunStatusCompleted,
		Raw:     execCtx[p.final],
		Context: execCtx,
		Units:   unitResults,
		Usage:   summary,
	}, nil
}

// executeUnit assembles the unit's prompt (template + upstream outputs +
// capability pre-pass results) and makes one model call. Capability failures
// degrade: the unit proceeds without the tool output.
func (p *Pipeline) executeUnit(ctx context.Context, unit model.WorkUnit, inputs model.Inputs, execCtx model.ExecutionContext) (string, anthropic.TokenUsage, error) {
	var b strings.Builder
	b.WriteString(interpolate(unit.PromptTemplate, inputs))
	b.WriteString("\n\nExpected output: ")
	b.WriteString(strings.TrimSpace(interpolate(unit.ExpectedOutput, inputs)))

	// Upstream outputs, in declared order.
	for _, dep := range unit.Context {
		out, ok := execCtx[dep]
		if !ok {
			// The topological order guarantees this never happens; a miss
			// means the builder and executor disagree, which is fatal.
			return "", anthropic.TokenUsage{}, fmt.Errorf("upstream output %q missing", dep)
		}
		fmt.Fprintf(&b, "\n\n--- Context from %s ---\n%s", dep, out)
	}

	if toolCtx := p.runCapabilities(ctx, unit, inputs); toolCtx != "" {
		b.WriteString("\n\n--- Tool Results ---\n")
		b.WriteString(toolCtx)
	}

	resp, err := p.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.aiCfg.Model,
		MaxTokens: p.aiCfg.MaxTokens,
		System:    systemPrompt(unit.Role),
		Messages: []anthropic.Message{
			{Role: "user", Content: b.String()},
		},
	})
	if err != nil {
		return "", anthropic.TokenUsage{}, err
	}

	return resp.Text(), resp.Usage, nil
}

// maxScrapedRunes caps how much scraped page content goes into a prompt.
const maxScrapedRunes = 6000

// runCapabilities performs the unit's bound tool calls: a topic web search,
// then a scrape of the first result. Tool errors are logged and skipped; a
// degraded prompt beats a failed unit.
func (p *Pipeline) runCapabilities(ctx context.Context, unit model.WorkUnit, inputs model.Inputs) string {
	var parts []string

	var searchOut string
	if hasCapability(unit, model.CapabilitySearch) {
		query := fmt.Sprintf("%s companies in %s", inputs.Industry, inputs.Country)
		out, err := p.caps.Searcher().Search(ctx, query)
		if err != nil {
			zap.L().Warn("pipeline: search capability failed, continuing without results",
				zap.String("unit", unit.Name),
				zap.Error(err),
			)
		} else if out != "" {
			searchOut = out
			parts = append(parts, "Web search results:\n"+out)
		}
	}

	if hasCapability(unit, model.CapabilityScrape) {
		if url := firstResultURL(searchOut); url != "" {
			page, err := p.caps.Scraper().Scrape(ctx, url)
			if err != nil {
				zap.L().Warn("pipeline: scrape capability failed, continuing without page",
					zap.String("unit", unit.Name),
					zap.String("url", url),
					zap.Error(err),
				)
			} else if page != "" {
				// Rune-boundary cut: a byte slice could split a multi-byte
				// sequence and feed invalid UTF-8 into the prompt.
				if r := []rune(page); len(r) > maxScrapedRunes {
					page = string(r[:maxScrapedRunes])
				}
				parts = append(parts, fmt.Sprintf("Page content (%s):\n%s", url, page))
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

func hasCapability(unit model.WorkUnit, name model.CapabilityName) bool {
	for _, c := range unit.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// firstResultURL pulls the first "URL: ..." line out of formatted search
// results.
func firstResultURL(searchOut string) string {
	for _, line := range strings.Split(searchOut, "\n") {
		if after, ok := strings.CutPrefix(line, "URL: "); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}

// interpolate substitutes {industry} and {country} placeholders.
func interpolate(template string, inputs model.Inputs) string {
	s := strings.ReplaceAll(template, "{industry}", inputs.Industry)
	return strings.ReplaceAll(s, "{country}", inputs.Country)
}

// systemPrompt renders a role persona as the system prompt.
func systemPrompt(role model.Role) string {
	var b strings.Builder
	b.WriteString("You are " + role.Name + ".")
	if role.Goal != "" {
		b.WriteString(" Your goal: " + strings.TrimSpace(role.Goal) + ".")
	}
	if role.Backstory != "" {
		b.WriteString("\n\n" + strings.TrimSpace(role.Backstory))
	}
	return b.String()
}
