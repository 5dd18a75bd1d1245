// Package registry loads the declarative role/task configuration that the
// work unit factory builds the pipeline from. Defaults are embedded; a config
// file path can override them.
package registry

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed roles.yaml
var defaultRoles []byte

// AgentConfig describes one role persona.
type AgentConfig struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// TaskConfig describes one pipeline task bound to an agent. Context lists
// upstream task names whose outputs feed this task, in order.
type TaskConfig struct {
	Name           string   `yaml:"name"`
	Agent          string   `yaml:"agent"`
	Capabilities   []string `yaml:"capabilities"`
	Context        []string `yaml:"context"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expected_output"`
}

// Registry is the parsed role/task configuration. Task order in the file is
// preserved; the last task is the designated final task whose output feeds
// extraction.
type Registry struct {
	Agents map[string]AgentConfig `yaml:"agents"`
	Tasks  []TaskConfig           `yaml:"tasks"`
}

// Load parses the registry from the given path, or from the embedded
// defaults when path is empty.
func Load(path string) (*Registry, error) {
	data := defaultRoles
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "registry: read roles file")
		}
		data = b
	}
	return Parse(data)
}

// Parse parses registry YAML.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, eris.Wrap(err, "registry: parse roles yaml")
	}
	if len(reg.Tasks) == 0 {
		return nil, eris.New("registry: no tasks defined")
	}
	if len(reg.Agents) == 0 {
		return nil, eris.New("registry: no agents defined")
	}
	return &reg, nil
}

// FinalTask returns the name of the designated final task.
func (r *Registry) FinalTask() string {
	return r.Tasks[len(r.Tasks)-1].Name
}
