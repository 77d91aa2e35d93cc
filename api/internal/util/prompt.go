package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadPrompt reads <dir>/<name>.txt. When dir is empty or the file is missing
// or blank, def is returned, so operators can override prompts without a rebuild.
func LoadPrompt(dir, name, def string) string {
	if strings.TrimSpace(dir) == "" {
		return def
	}
	p := filepath.Join(dir, fmt.Sprintf("%s.txt", name))
	if b, err := os.ReadFile(p); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return strings.TrimSpace(string(b))
	}
	return def
}
