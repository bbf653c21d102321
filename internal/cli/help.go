package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
)

// Command groups shown in root help.
const (
	groupFix   = "fix"
	groupSetup = "setup"
)

// flagGroupAnnotation marks flags listed under their own help heading.
const (
	flagGroupAnnotation = "quickfix_flag_group"
	flagGroupRun        = "run"
)

// commandGroups returns the groups subcommands are registered under.
func commandGroups() []*cobra.Group {
	return []*cobra.Group{
		{ID: groupFix, Title: "Fix Commands:"},
		{ID: groupSetup, Title: "Setup Commands:"},
	}
}

// markFlagGroup annotates the named flags so help lists them under group.
func markFlagGroup(flags *pflag.FlagSet, group string, names ...string) {
	for _, name := range names {
		// Only fails for unknown names, which addRunFlags never passes.
		_ = flags.SetAnnotation(name, flagGroupAnnotation, []string{group})
	}
}

// splitFlags separates flags annotated with group from the rest.
func splitFlags(flags *pflag.FlagSet, group string) (*pflag.FlagSet, *pflag.FlagSet) {
	rest := pflag.NewFlagSet("rest", pflag.ContinueOnError)
	grouped := pflag.NewFlagSet(group, pflag.ContinueOnError)

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden {
			return
		}
		if values := flag.Annotations[flagGroupAnnotation]; len(values) > 0 && values[0] == group {
			grouped.AddFlag(flag)
			return
		}
		rest.AddFlag(flag)
	})

	return rest, grouped
}

// HelpFormatter renders command help with the output styles. Color is
// resolved when help is shown, after --color has been parsed.
type HelpFormatter struct {
	colorMode *string
}

// NewHelpFormatter creates a help formatter reading the color mode from
// colorMode on every render.
func NewHelpFormatter(colorMode *string) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode}
}

func (h *HelpFormatter) styles(cmd *cobra.Command) *pretty.Styles {
	mode := "auto"
	if h.colorMode != nil && *h.colorMode != "" {
		mode = *h.colorMode
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, cmd.OutOrStdout()))
}

func (h *HelpFormatter) funcs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"heading":     styles.SummaryTitle.Render,
		"command":     styles.Bold.Render,
		"subcommand":  styles.Action.Render,
		"dim":         styles.Dim.Render,
		"rpad":        rpad,
		"trimSpace":   trimTrailingWhitespaces,
		"examples":    func(text string) string { return styleExamples(styles, text) },
		"localFlags":  func(cmd *cobra.Command) string { return h.flagUsages(styles, cmd, false) },
		"runFlags":    func(cmd *cobra.Command) string { return h.flagUsages(styles, cmd, true) },
		"globalFlags": func(cmd *cobra.Command) string { return styleFlagUsages(styles, cmd.InheritedFlags()) },
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ examples .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}
{{- $cmds := .Commands}}
{{- range $group := .Groups}}

{{ heading $group.Title }}
{{- range $cmds}}{{if and (eq .GroupID $group.ID) .IsAvailableCommand}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if not .AllChildCommandsHaveGroup}}

{{ heading "Additional Commands:" }}
{{- range $cmds}}{{if and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- end}}

{{- with localFlags .}}

{{ heading "Flags:" }}
{{ . }}
{{- end}}

{{- with runFlags .}}

{{ heading "Run Flags:" }}
{{ . }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ globalFlags . }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimSpace . }}

{{end}}` + usageTemplate

// ApplyToCommand installs the styled help and usage output on cmd, which
// its subcommands inherit.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(command *cobra.Command, name, text string) error {
		tmpl, err := template.New(name).Funcs(h.funcs(h.styles(command))).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) flagUsages(styles *pretty.Styles, cmd *cobra.Command, run bool) string {
	local, grouped := splitFlags(cmd.LocalFlags(), flagGroupRun)
	if run {
		return styleFlagUsages(styles, grouped)
	}
	return styleFlagUsages(styles, local)
}

// styleFlagUsages renders pflag usage lines with flag names highlighted and
// value types dimmed.
func styleFlagUsages(styles *pretty.Styles, flags *pflag.FlagSet) string {
	usages := strings.TrimRight(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for idx, line := range lines {
		lines[idx] = styleFlagLine(styles, line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   description" line.
func styleFlagLine(styles *pretty.Styles, line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	// pflag pads the definition from its description with at least
	// three spaces.
	definition, description, found := strings.Cut(trimmed, "   ")
	if !found {
		return line
	}

	tokens := strings.Fields(definition)
	for idx, token := range tokens {
		if strings.HasPrefix(token, "-") {
			name, comma := strings.CutSuffix(token, ",")
			tokens[idx] = styles.Location.Render(name)
			if comma {
				tokens[idx] += ","
			}
			continue
		}
		tokens[idx] = styles.Dim.Render(token)
	}

	return indent + strings.Join(tokens, " ") + "   " + strings.TrimLeft(description, " ")
}

// styleExamples highlights example invocations and dims trailing comments.
func styleExamples(styles *pretty.Styles, text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for idx, line := range lines {
		invocation, comment, found := strings.Cut(line, "#")
		if !found {
			lines[idx] = styles.Bold.Render(line)
			continue
		}
		lines[idx] = styles.Bold.Render(invocation) + styles.Dim.Render("#"+comment)
	}
	return strings.Join(lines, "\n")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
