package configloader

import (
	"fmt"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/language"
)

// normalizeCommentTokens rewrites comment_tokens keys to canonical language
// tags, so "py", "Python" and "python" all configure the same entry.
// When two keys resolve to the same tag, the last one wins and a warning is
// returned.
func normalizeCommentTokens(cfg *config.Config) []string {
	if len(cfg.CommentTokens) == 0 {
		return nil
	}

	var warnings []string
	normalized := make(map[string]string, len(cfg.CommentTokens))
	seen := make(map[string]string, len(cfg.CommentTokens))

	for _, key := range sortedKeys(cfg.CommentTokens) {
		tag := language.ParseTag(key)
		canonical := tag.String()
		if tag == language.TagUnknown {
			canonical = key
		}

		if original, exists := seen[canonical]; exists {
			warnings = append(warnings,
				fmt.Sprintf("duplicate comment token: %q and %q both refer to %s; using %q",
					original, key, canonical, key))
		}

		seen[canonical] = key
		normalized[canonical] = cfg.CommentTokens[key]
	}

	cfg.CommentTokens = normalized
	return warnings
}
