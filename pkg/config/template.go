package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every built-in comment token. If false, generates a
	// minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// CommentTokenProvider returns the built-in language to comment token table.
// This allows decoupling from the language package.
type CommentTokenProvider func() map[string]string

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions, tokens CommentTokenProvider) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts, tokens)
	}

	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Log level: debug, info, warn, or error
log_level: info

# Overlapping edits in one fix: reject or merge-deletions
conflicts: reject

# Suppression comments are written as "<indent><token> <marker>"
suppression:
  marker: codiga-disable

# Backup configuration when applying to files
backups:
  enabled: true
  mode: sidecar
`)

	if !opts.Full || tokens == nil {
		buf.WriteString(`
# Comment token overrides, keyed by language
# comment_tokens:
#   sql: "#"
#   haskell: "--"
`)
		return buf.Bytes(), nil
	}

	buf.WriteString("\n# Built-in comment tokens; uncomment to override\n# comment_tokens:\n")
	table := tokens()
	for _, name := range sortedKeys(table) {
		fmt.Fprintf(&buf, "#   %s: %q\n", name, table[name])
	}

	return buf.Bytes(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON(opts TemplateOptions, tokens CommentTokenProvider) ([]byte, error) {
	cfg := map[string]any{
		"log_level": DefaultLogLevel,
		"conflicts": DefaultConflicts,
		"suppression": map[string]any{
			"marker": DefaultMarker,
		},
		"backups": map[string]any{
			"enabled": true,
			"mode":    DefaultBackupMode,
		},
	}

	if opts.Full && tokens != nil {
		cfg["comment_tokens"] = tokens()
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# quickfix configuration
# See: https://github.com/yaklabco/quickfix`
}
