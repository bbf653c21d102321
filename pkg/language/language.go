// Package language identifies document languages and resolves the line
// comment token used to write suppression comments in them.
package language

import "strings"

// Tag identifies the programming language of a document.
type Tag string

// Supported language tags.
const (
	TagUnknown    Tag = ""
	TagApex       Tag = "apex"
	TagC          Tag = "c"
	TagCPP        Tag = "cpp"
	TagCSharp     Tag = "csharp"
	TagDart       Tag = "dart"
	TagDockerfile Tag = "dockerfile"
	TagGo         Tag = "go"
	TagJava       Tag = "java"
	TagJavaScript Tag = "javascript"
	TagKotlin     Tag = "kotlin"
	TagPerl       Tag = "perl"
	TagPHP        Tag = "php"
	TagPython     Tag = "python"
	TagRuby       Tag = "ruby"
	TagRust       Tag = "rust"
	TagScala      Tag = "scala"
	TagShell      Tag = "shell"
	TagSolidity   Tag = "solidity"
	TagSQL        Tag = "sql"
	TagSwift      Tag = "swift"
	TagTerraform  Tag = "terraform"
	TagTypeScript Tag = "typescript"
	TagYAML       Tag = "yaml"
)

// aliases maps editor language ids, file extensions and display names to tags.
//
//nolint:gochecknoglobals // Read-only lookup table.
var aliases = map[string]Tag{
	"py":              TagPython,
	"python3":         TagPython,
	"js":              TagJavaScript,
	"jsx":             TagJavaScript,
	"javascriptreact": TagJavaScript,
	"ts":              TagTypeScript,
	"tsx":             TagTypeScript,
	"typescriptreact": TagTypeScript,
	"golang":          TagGo,
	"rs":              TagRust,
	"c++":             TagCPP,
	"cc":              TagCPP,
	"cxx":             TagCPP,
	"c#":              TagCSharp,
	"cs":              TagCSharp,
	"kt":              TagKotlin,
	"kts":             TagKotlin,
	"rb":              TagRuby,
	"sh":              TagShell,
	"bash":            TagShell,
	"zsh":             TagShell,
	"shellscript":     TagShell,
	"yml":             TagYAML,
	"docker":          TagDockerfile,
	"hcl":             TagTerraform,
	"tf":              TagTerraform,
	"plsql":           TagSQL,
	"tsql":            TagSQL,
	"pl":              TagPerl,
}

// ParseTag normalises a language name to a Tag. Names are matched case
// insensitively against tag values and known aliases; anything else is
// returned lowercased so that configured languages outside the built-in set
// still round-trip.
func ParseTag(name string) Tag {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return TagUnknown
	}
	if tag, ok := aliases[key]; ok {
		return tag
	}
	return Tag(key)
}

func (t Tag) String() string {
	if t == TagUnknown {
		return "unknown"
	}
	return string(t)
}
