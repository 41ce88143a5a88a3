package llm

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<(p|div|br|h[1-6]|ul|ol|li|strong|em|b|i|table|blockquote|pre|code)[\s/>]`)
	fencePattern   = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\\n(.*?)\\n?```$")
)

// Normalizer turns raw model output into the Markdown text stored per section.
// Models sometimes wrap answers in code fences or answer in HTML; both are
// undone here. HTML is sanitized before conversion. Safe for concurrent use.
type Normalizer struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

// NewNormalizer creates a normalizer with a UGC sanitizing policy
func NewNormalizer() *Normalizer {
	return &Normalizer{
		policy:    bluemonday.UGCPolicy(),
		converter: md.NewConverter("", true, nil),
	}
}

// Normalize returns cleaned text, or ErrEmptyOutput if nothing remains
func (n *Normalizer) Normalize(raw string) (string, error) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	text = stripFence(text)

	if htmlTagPattern.MatchString(text) {
		converted, err := n.converter.ConvertString(n.policy.Sanitize(text))
		if err != nil {
			return "", fmt.Errorf("convert html output: %w", err)
		}
		text = strings.TrimSpace(converted)
	}

	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// stripFence removes one surrounding ``` fence, keeping the inner text.
func stripFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}
