// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assistant

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convertkit/pkg/types"
)

//go:embed knowledge.yaml
var builtinKnowledge []byte

// ConverterInfo is the canned help for one converter.
type ConverterInfo struct {
	// Aliases are extra phrases that set the conversation topic to this
	// converter without triggering a converter answer.
	Aliases         []string `yaml:"aliases"`
	Description     string   `yaml:"description"`
	Steps           []string `yaml:"steps"`
	Tips            []string `yaml:"tips"`
	Troubleshooting []string `yaml:"troubleshooting"`
}

// General holds the response sets that are not tied to a converter.
type General struct {
	Greeting        []string `yaml:"greeting"`
	Gratitude       []string `yaml:"gratitude"`
	Help            []string `yaml:"help"`
	Privacy         []string `yaml:"privacy"`
	Formats         []string `yaml:"formats"`
	Error           []string `yaml:"error"`
	Troubleshooting []string `yaml:"troubleshooting"`
	Clarify         []string `yaml:"clarify"`
	Fallback        []string `yaml:"fallback"`
}

// ContextualEntry maps a phrase to one of the General response sets.
type ContextualEntry struct {
	Phrase string `yaml:"phrase"`
	Topic  string `yaml:"topic"`
}

// Keywords are the phrase lists used to classify an utterance.
type Keywords struct {
	Greeting  []string `yaml:"greeting"`
	Gratitude []string `yaml:"gratitude"`
	Trouble   []string `yaml:"trouble"`
	FollowUp  []string `yaml:"follow_up"`
	Steps     []string `yaml:"steps"`
	Tips      []string `yaml:"tips"`
	Problems  []string `yaml:"problems"`
}

// Actions are the phrases that set ConversationContext.LastAction.
type Actions struct {
	Upload   []string `yaml:"upload"`
	Download []string `yaml:"download"`
	Convert  []string `yaml:"convert"`
}

// Knowledge is the full response catalogue.
type Knowledge struct {
	Converters map[types.Converter]ConverterInfo `yaml:"converters"`
	General    General                           `yaml:"general"`
	Contextual []ContextualEntry                 `yaml:"contextual"`
	Keywords   Keywords                          `yaml:"keywords"`
	Actions    Actions                           `yaml:"actions"`
}

// DefaultKnowledge parses the knowledge base compiled into the binary.
func DefaultKnowledge() (*Knowledge, error) {
	return ParseKnowledge(builtinKnowledge)
}

// LoadKnowledge reads a knowledge base from a YAML file.
func LoadKnowledge(path string) (*Knowledge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}
	return ParseKnowledge(data)
}

// ParseKnowledge decodes and validates a YAML knowledge base.
func ParseKnowledge(data []byte) (*Knowledge, error) {
	var kb Knowledge
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parsing knowledge base: %w", err)
	}
	if err := kb.validate(); err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	return &kb, nil
}

// responses returns the General set a contextual topic names.
func (kb *Knowledge) responses(topic string) []string {
	switch topic {
	case "help":
		return kb.General.Help
	case "privacy":
		return kb.General.Privacy
	case "formats":
		return kb.General.Formats
	case "error":
		return kb.General.Error
	}
	return nil
}

func (kb *Knowledge) validate() error {
	for _, name := range types.Converters {
		info, ok := kb.Converters[name]
		switch {
		case !ok:
			return fmt.Errorf("converter %q missing", name)
		case info.Description == "":
			return fmt.Errorf("converter %q has no description", name)
		case len(info.Steps) == 0 || len(info.Tips) == 0 || len(info.Troubleshooting) == 0:
			return fmt.Errorf("converter %q needs steps, tips and troubleshooting", name)
		}
	}
	for name := range kb.Converters {
		if !types.IsConverter(name) {
			return fmt.Errorf("unknown converter %q", name)
		}
	}

	sets := map[string][]string{
		"greeting":        kb.General.Greeting,
		"gratitude":       kb.General.Gratitude,
		"help":            kb.General.Help,
		"privacy":         kb.General.Privacy,
		"formats":         kb.General.Formats,
		"error":           kb.General.Error,
		"troubleshooting": kb.General.Troubleshooting,
		"clarify":         kb.General.Clarify,
		"fallback":        kb.General.Fallback,
	}
	for name, set := range sets {
		if len(set) == 0 {
			return fmt.Errorf("general.%s is empty", name)
		}
	}

	for i, e := range kb.Contextual {
		if e.Phrase == "" {
			return fmt.Errorf("contextual entry %d has no phrase", i+1)
		}
		if kb.responses(e.Topic) == nil {
			return fmt.Errorf("contextual entry %q: unknown topic %q", e.Phrase, e.Topic)
		}
	}
	return nil
}
