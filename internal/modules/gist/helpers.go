package gist

import (
	"path/filepath"
	"strings"
)

const recentPreviewLen = 100

// deriveTitle names a gist after its source document. Text uploads without a
// usable name fall back to a generic label.
func deriveTitle(fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		return "Text Upload"
	}
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Text Upload"
	}
	return name
}

// previewText clips a summary down for listing views.
func previewText(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
