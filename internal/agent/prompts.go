package agent

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"wanna/internal/data/embedded"
)

// Prompts holds every instruction text the agent sends to the model.
type Prompts struct {
	TaskFraming       string `yaml:"task_framing"`
	SystemInfo        string `yaml:"system_info"`
	LanguageDetection string `yaml:"language_detection"`
	LanguageDirective string `yaml:"language_directive"`
	Rethink           string `yaml:"rethink"`
	Naming            string `yaml:"naming"`
	Summary           string `yaml:"summary"`
}

// LoadPrompts parses a prompt catalog and checks that every prompt is present.
func LoadPrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}
	required := map[string]string{
		"task_framing":       p.TaskFraming,
		"language_detection": p.LanguageDetection,
		"language_directive": p.LanguageDirective,
		"rethink":            p.Rethink,
		"naming":             p.Naming,
		"summary":            p.Summary,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("prompt %q is missing", key)
		}
	}
	return &p, nil
}

// DefaultPrompts returns the catalog compiled into the binary.
func DefaultPrompts() *Prompts {
	p, err := LoadPrompts(embedded.PromptsData)
	if err != nil {
		panic(err)
	}
	return p
}

// fill replaces {key} placeholders in template.
func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
