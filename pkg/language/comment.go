package language

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnsupported indicates a language with no known comment token.
var ErrUnsupported = errors.New("unsupported language")

// DefaultTokens returns the built-in language to line comment token table.
func DefaultTokens() map[Tag]string {
	return map[Tag]string{
		TagDockerfile: "#",
		TagPerl:       "#",
		TagPython:     "#",
		TagRuby:       "#",
		TagShell:      "#",
		TagTerraform:  "#",
		TagYAML:       "#",

		TagApex:       "//",
		TagC:          "//",
		TagCPP:        "//",
		TagCSharp:     "//",
		TagDart:       "//",
		TagGo:         "//",
		TagJava:       "//",
		TagJavaScript: "//",
		TagKotlin:     "//",
		TagPHP:        "//",
		TagRust:       "//",
		TagScala:      "//",
		TagSolidity:   "//",
		TagSwift:      "//",
		TagTypeScript: "//",

		TagSQL: "--",
	}
}

// Resolver maps language tags to line comment tokens over a closed table.
type Resolver struct {
	tokens map[Tag]string
}

// NewResolver creates a Resolver from the built-in table with overrides
// applied on top. Override keys are parsed with ParseTag.
func NewResolver(overrides map[string]string) (*Resolver, error) {
	tokens := DefaultTokens()
	for name, token := range overrides {
		tag := ParseTag(name)
		if tag == TagUnknown {
			return nil, fmt.Errorf("comment token override: empty language name")
		}
		if token == "" {
			return nil, fmt.Errorf("comment token override for %s: empty token", tag)
		}
		tokens[tag] = token
	}
	return &Resolver{tokens: tokens}, nil
}

// DefaultResolver returns a Resolver over the built-in table.
func DefaultResolver() *Resolver {
	return &Resolver{tokens: DefaultTokens()}
}

// CommentToken returns the line comment token for a language.
// Languages outside the table return an error wrapping ErrUnsupported.
func (r *Resolver) CommentToken(tag Tag) (string, error) {
	token, ok := r.tokens[tag]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, tag)
	}
	return token, nil
}

// Tags returns the supported tags in sorted order.
func (r *Resolver) Tags() []Tag {
	return slices.Sorted(maps.Keys(r.tokens))
}
