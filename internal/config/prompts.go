package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed prompts.toml
var defaultPrompts []byte

// Prompts holds the language model prompt templates.
type Prompts struct {
	Intent     string `toml:"intent"`
	Fallback   string `toml:"fallback"`
	MenuFormat string `toml:"menu_format"`
}

// PromptSet is the TOML document holding prompts and keyword synonyms.
type PromptSet struct {
	Prompts  Prompts           `toml:"prompts"`
	Synonyms map[string]string `toml:"synonyms"`
}

// LoadPrompts parses the prompt file at path, or the embedded defaults when
// path is empty. Prompts missing from the file keep their default text.
func LoadPrompts(path string) (*PromptSet, error) {
	var set PromptSet
	if err := toml.Unmarshal(defaultPrompts, &set); err != nil {
		return nil, fmt.Errorf("failed to parse embedded prompts: %w", err)
	}
	if path == "" {
		return &set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file '%s': %w", path, err)
	}

	var override PromptSet
	if err := toml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if override.Prompts.Intent != "" {
		set.Prompts.Intent = override.Prompts.Intent
	}
	if override.Prompts.Fallback != "" {
		set.Prompts.Fallback = override.Prompts.Fallback
	}
	if override.Prompts.MenuFormat != "" {
		set.Prompts.MenuFormat = override.Prompts.MenuFormat
	}
	if override.Synonyms != nil {
		set.Synonyms = override.Synonyms
	}
	return &set, nil
}

// IntentPrompt renders the classification prompt for the given day.
func (p Prompts) IntentPrompt(now time.Time) string {
	return strings.ReplaceAll(p.Intent, "{today}", now.Format("2006-01-02"))
}
