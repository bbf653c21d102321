package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/yaklabco/quickfix/pkg/config"
)

// envVarPrefix is the prefix for all quickfix environment variables.
const envVarPrefix = "QUICKFIX_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"LOG_LEVEL":          {"log_level", envTypeString, "Log level: debug, info, warn, or error"},
	"CONFLICTS":          {"conflicts", envTypeString, "Overlapping edit policy: reject or merge-deletions"},
	"SUPPRESSION_MARKER": {"suppression.marker", envTypeString, "Directive written in suppression comments"},
	"BACKUPS_ENABLED":    {"backups.enabled", envTypeBool, "Enable backups when applying: true or false"},
	"BACKUPS_MODE":       {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"DRY_RUN":            {"dry_run", envTypeBool, "Dry-run mode: true or false"},
	"NO_BACKUPS":         {"no_backups", envTypeBool, "Disable backups: true or false"},
	"FORMAT":             {"format", envTypeString, "Output format: text, table, json, or diff"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with QUICKFIX_ (e.g., QUICKFIX_LOG_LEVEL).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range sortedMappingKeys() {
		mapping := envMappings[envSuffix]
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "conflicts":
		cfg.Conflicts = value
	case "suppression.marker":
		cfg.Suppression.Marker = value
	case "backups.mode":
		cfg.Backups.Mode = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "dry_run":
		cfg.DryRun = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}

func sortedMappingKeys() []string {
	return slices.Sorted(maps.Keys(envMappings))
}
