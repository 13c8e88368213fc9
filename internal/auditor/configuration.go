package auditor

import "strings"

const defaultRepositoryRootConstant = "."

// CommandConfiguration captures configuration values for the audit command.
type CommandConfiguration struct {
	RepositoryRoot string   `mapstructure:"root"`
	OutputPath     string   `mapstructure:"output"`
	StrictMode     bool     `mapstructure:"strict"`
	MinimumScore   float64  `mapstructure:"min_score"`
	WithCommands   bool     `mapstructure:"with_commands"`
	SkipNetwork    bool     `mapstructure:"skip_network"`
	Platforms      []string `mapstructure:"platforms"`
	RequiredFiles  []string `mapstructure:"required_files"`
}

// DefaultCommandConfiguration provides default audit command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryRoot: defaultRepositoryRootConstant,
		MinimumScore:   DefaultThreshold,
	}
}

// DefaultConfigurationValues exposes audit defaults keyed under the provided
// configuration prefix for loader registration.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + ".root":      defaults.RepositoryRoot,
		configurationPrefix + ".min_score": defaults.MinimumScore,
	}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RepositoryRoot = strings.TrimSpace(configuration.RepositoryRoot)
	if len(sanitized.RepositoryRoot) == 0 {
		sanitized.RepositoryRoot = defaultRepositoryRootConstant
	}
	sanitized.OutputPath = strings.TrimSpace(configuration.OutputPath)
	// A zero-valued configuration struct means "no threshold chosen"; an
	// explicit zero threshold is expressed through the --min-score flag.
	if sanitized.MinimumScore == 0 {
		sanitized.MinimumScore = DefaultThreshold
	}
	sanitized.Platforms = sanitizePlatforms(configuration.Platforms)
	sanitized.RequiredFiles = sanitizePathList(configuration.RequiredFiles)
	return sanitized
}

func sanitizePathList(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.TrimSpace(candidate)
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	if len(trimmed) == 0 {
		return nil
	}
	return trimmed
}

func sanitizePlatforms(raw []string) []string {
	trimmed := make([]string, 0, len(raw))
	for _, candidate := range raw {
		value := strings.ToLower(strings.TrimSpace(candidate))
		if len(value) == 0 {
			continue
		}
		trimmed = append(trimmed, value)
	}
	return trimmed
}
