package llm

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"docsmith/internal/domain/models/authoring"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompt operations
const (
	opGenerate = "generate"
	opRefine   = "refine"
	opOutline  = "outline"
)

type promptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type compiledPrompt struct {
	system *template.Template
	user   *template.Template
}

// PromptCatalog renders system/user prompts per operation and document type.
type PromptCatalog struct {
	prompts map[string]map[authoring.DocumentType]compiledPrompt
}

// LoadPromptCatalog parses the embedded catalog
func LoadPromptCatalog() (*PromptCatalog, error) {
	return ParsePromptCatalog(promptsYAML)
}

// ParsePromptCatalog parses a catalog from YAML
func ParsePromptCatalog(data []byte) (*PromptCatalog, error) {
	var raw map[string]map[string]promptPair
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	catalog := &PromptCatalog{prompts: map[string]map[authoring.DocumentType]compiledPrompt{}}
	for op, byType := range raw {
		catalog.prompts[op] = map[authoring.DocumentType]compiledPrompt{}
		for docType, pair := range byType {
			dt := authoring.DocumentType(docType)
			if !dt.Valid() {
				return nil, fmt.Errorf("prompt %s: unknown document type %q", op, docType)
			}
			sys, err := template.New(op + "." + docType + ".system").Option("missingkey=error").Parse(pair.System)
			if err != nil {
				return nil, fmt.Errorf("prompt %s.%s system: %w", op, docType, err)
			}
			usr, err := template.New(op + "." + docType + ".user").Option("missingkey=error").Parse(pair.User)
			if err != nil {
				return nil, fmt.Errorf("prompt %s.%s user: %w", op, docType, err)
			}
			catalog.prompts[op][dt] = compiledPrompt{system: sys, user: usr}
		}
	}

	for _, op := range []string{opGenerate, opRefine, opOutline} {
		for _, dt := range []authoring.DocumentType{authoring.DocumentTypeWord, authoring.DocumentTypePowerPoint} {
			if _, ok := catalog.prompts[op][dt]; !ok {
				return nil, fmt.Errorf("prompt catalog is missing %s.%s", op, dt)
			}
		}
	}
	return catalog, nil
}

// Render returns the system and user prompt for an operation
func (c *PromptCatalog) Render(op string, docType authoring.DocumentType, data any) (system, user string, err error) {
	p, ok := c.prompts[op][docType]
	if !ok {
		return "", "", fmt.Errorf("no prompt for %s.%s", op, docType)
	}

	var sb strings.Builder
	if err := p.system.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s.%s system prompt: %w", op, docType, err)
	}
	system = strings.TrimSpace(sb.String())

	sb.Reset()
	if err := p.user.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("render %s.%s user prompt: %w", op, docType, err)
	}
	user = strings.TrimSpace(sb.String())

	return system, user, nil
}
