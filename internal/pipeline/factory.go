package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/capability"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/registry"
)

// BuildUnits constructs one WorkUnit per configured task, binding the subset
// of requested capabilities that are actually available. Requested but
// unavailable capabilities are dropped with a warning (degraded mode, not an
// error). Structural problems in the configuration are fatal: a ConfigError
// is returned and no partial unit list is ever produced.
func BuildUnits(reg *registry.Registry, caps capability.Set) ([]model.WorkUnit, error) {
	log := zap.L()
	units := make([]model.WorkUnit, 0, len(reg.Tasks))
	seen := make(map[string]bool, len(reg.Tasks))

	for _, task := range reg.Tasks {
		if task.Name == "" {
			return nil, newConfigError("task with empty name")
		}
		if seen[task.Name] {
			return nil, newConfigError("duplicate task %q", task.Name)
		}
		seen[task.Name] = true

		if strings.TrimSpace(task.Description) == "" {
			return nil, newConfigError("task %q: missing description", task.Name)
		}
		if strings.TrimSpace(task.ExpectedOutput) == "" {
			return nil, newConfigError("task %q: missing expected_output", task.Name)
		}

		agent, ok := reg.Agents[task.Agent]
		if !ok {
			return nil, newConfigError("task %q: unknown agent %q", task.Name, task.Agent)
		}
		if strings.TrimSpace(agent.Role) == "" {
			return nil, newConfigError("task %q: agent %q has no role", task.Name, task.Agent)
		}

		var bound []model.CapabilityName
		for _, want := range task.Capabilities {
			name := model.CapabilityName(want)
			if !caps.Has(name) {
				log.Warn("factory: continuing without capability",
					zap.Error(&CapabilityUnavailableError{Unit: task.Name, Capability: want}),
				)
				continue
			}
			bound = append(bound, name)
		}

		units = append(units, model.WorkUnit{
			Name: task.Name,
			Role: model.Role{
				Name:      agent.Role,
				Goal:      agent.Goal,
				Backstory: agent.Backstory,
			},
			PromptTemplate: task.Description,
			ExpectedOutput: task.ExpectedOutput,
			Context:        task.Context,
			Capabilities:   bound,
		})
	}

	return units, nil
}
