package language

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// enryNames maps go-enry language names that do not lowercase to a tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var enryNames = map[string]Tag{
	"C++":            TagCPP,
	"C#":             TagCSharp,
	"HCL":            TagTerraform,
	"TSX":            TagTypeScript,
	"PLSQL":          TagSQL,
	"PLpgSQL":        TagSQL,
	"TSQL":           TagSQL,
	"SQLPL":          TagSQL,
	"Shell":          TagShell,
	"Docker":         TagDockerfile,
	"JavaScript+ERB": TagJavaScript,
}

// Detect returns the language of a document from its file name and content.
// Returns TagUnknown if go-enry cannot classify it.
func Detect(filename string, content []byte) Tag {
	base := filepath.Base(filename)

	// Strategy 1: shebang is the most reliable signal for scripts.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 2: exact file names (Dockerfile, Makefile...) and extensions.
	if lang, safe := enry.GetLanguageByFilename(base); safe {
		return normalize(lang)
	}
	if lang, safe := enry.GetLanguageByExtension(base); safe {
		return normalize(lang)
	}

	// Strategy 3: full go-enry heuristics, including content classification.
	if lang := enry.GetLanguage(base, content); lang != "" {
		return normalize(lang)
	}

	return TagUnknown
}

// normalize converts go-enry language names to tags.
func normalize(lang string) Tag {
	if tag, ok := enryNames[lang]; ok {
		return tag
	}
	return ParseTag(strings.ReplaceAll(lang, " ", ""))
}
