package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/language"
)

type languagesFlags struct {
	format string
}

// languageInfo represents a language in JSON output.
type languageInfo struct {
	Path     string `json:"path,omitempty"`
	Language string `json:"language"`
	Token    string `json:"token,omitempty"`
}

func newLanguagesCommand(globals *globalFlags) *cobra.Command {
	flags := &languagesFlags{}

	cmd := &cobra.Command{
		Use:   "languages [files...]",
		Short: "List supported languages and their comment tokens",
		Long: `List the languages suppression comments can be written for, with the
line comment token used for each. Tokens from the comment_tokens config
section are included.

With file arguments, detects the language of each file instead.`,
		Example: `  quickfix languages                    # List all languages
  quickfix languages main.py query.sql  # Detect languages of files
  quickfix languages --format json      # Machine-readable list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLanguages(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runLanguages(cmd *cobra.Command, args []string, globals *globalFlags, flags *languagesFlags) error {
	if flags.format != string(config.FormatText) && flags.format != string(config.FormatJSON) {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, flags.format)
	}

	s, err := loadSettings(cmd, globals, &config.Config{})
	if err != nil {
		return err
	}

	resolver, err := s.resolver()
	if err != nil {
		return err
	}

	var infos []languageInfo
	if len(args) == 0 {
		infos = supportedLanguages(resolver)
	} else {
		infos, err = detectLanguages(cmd, resolver, args)
		if err != nil {
			return err
		}
	}

	if flags.format == string(config.FormatJSON) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding languages: %w", err)
		}
		return nil
	}

	logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
	for _, info := range infos {
		if info.Path == "" {
			logger.Info(info.Language, logging.FieldToken, info.Token)
			continue
		}
		if info.Token == "" {
			logger.Warn(info.Path, logging.FieldLanguage, info.Language, logging.FieldError, "unsupported language")
			continue
		}
		logger.Info(info.Path, logging.FieldLanguage, info.Language, logging.FieldToken, info.Token)
	}

	return nil
}

func supportedLanguages(resolver *language.Resolver) []languageInfo {
	tags := resolver.Tags()
	infos := make([]languageInfo, 0, len(tags))
	for _, tag := range tags {
		token, _ := resolver.CommentToken(tag)
		infos = append(infos, languageInfo{Language: tag.String(), Token: token})
	}
	return infos
}

func detectLanguages(cmd *cobra.Command, resolver *language.Resolver, paths []string) ([]languageInfo, error) {
	ctx := commandContext(cmd)

	infos := make([]languageInfo, 0, len(paths))
	for _, path := range paths {
		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		tag := language.Detect(path, content)
		info := languageInfo{Path: path, Language: tag.String()}

		token, err := resolver.CommentToken(tag)
		switch {
		case err == nil:
			info.Token = token
		case !errors.Is(err, language.ErrUnsupported):
			return nil, err
		}

		infos = append(infos, info)
	}
	return infos, nil
}
