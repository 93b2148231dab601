package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed templates/extraction-prompt.md
var defaultTemplate string

// Placeholder is the marker the template must contain; Render substitutes
// the input document for it.
const Placeholder = "{{INPUT_CONTENT}}"

// Load returns the template at path, or the embedded default when path is empty.
func Load(path string) (string, error) {
	if path == "" {
		return defaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	return string(data), nil
}

// Render substitutes the input document into the template.
func Render(template, content string) (string, error) {
	if !strings.Contains(template, Placeholder) {
		return "", fmt.Errorf("template missing %s placeholder", Placeholder)
	}
	return strings.ReplaceAll(template, Placeholder, content), nil
}

// ExtractLispBlock returns the first fenced ```lisp code block from a model
// response, or the whole trimmed response when no fence is present.
func ExtractLispBlock(response string) string {
	const fence = "```lisp"
	if i := strings.Index(response, fence); i != -1 {
		rest := response[i+len(fence):]
		if j := strings.Index(rest, "```"); j != -1 {
			return strings.TrimSpace(rest[:j])
		}
	}
	return strings.TrimSpace(response)
}
