package auditor

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/audix/audix/internal/checks"
	"github.com/audix/audix/internal/docscan"
	"github.com/audix/audix/internal/execshell"
	"github.com/audix/audix/internal/gitmeta"
	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
	"github.com/audix/audix/internal/utils"
	pathutils "github.com/audix/audix/internal/utils/path"
)

const (
	commandUseConstant              = "audit [root]"
	commandShortDescriptionConstant = "Audit a repository's security posture"
	commandLongDescriptionConstant  = "audit runs the security check battery against a repository and reports a weighted 0-100 score."
	outputFlagNameConstant          = "output"
	outputFlagShorthandConstant     = "o"
	outputFlagDescriptionConstant   = "Write the JSON report to this path instead of printing a summary"
	strictFlagNameConstant          = "strict"
	strictFlagDescriptionConstant   = "Fail the audit when any single check fails, regardless of score"
	minScoreFlagNameConstant        = "min-score"
	minScoreFlagDescriptionConstant = "Minimum composite score required to pass"
	withCommandsFlagNameConstant    = "with-commands"
	withCommandsFlagDescription     = "Include a documentation command summary in the report"
	skipNetworkFlagNameConstant     = "skip-network"
	skipNetworkFlagDescription      = "Exclude network-risk commands from the documentation summary"
	platformFlagNameConstant        = "platform"
	platformFlagDescriptionConstant = "Restrict the documentation summary to these platforms"

	unknownPlatformErrorTemplate = "%w: unknown platform %q"
	executorErrorTemplateConst   = "unable to construct tool executor: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the audit cobra command with configurable
// dependencies. Zero-value fields fall back to production implementations.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	CheckRunnerFactory    func(options CommandOptions, logger *zap.Logger) (CheckRunner, error)
	DocumentationScanner  DocumentationScanner
	HeadReader            HeadReader
	Clock                 Clock
}

// Build constructs the cobra command for repository audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().StringP(outputFlagNameConstant, outputFlagShorthandConstant, "", outputFlagDescriptionConstant)
	command.Flags().Bool(strictFlagNameConstant, false, strictFlagDescriptionConstant)
	command.Flags().Float64(minScoreFlagNameConstant, DefaultThreshold, minScoreFlagDescriptionConstant)
	command.Flags().Bool(withCommandsFlagNameConstant, false, withCommandsFlagDescription)
	command.Flags().Bool(skipNetworkFlagNameConstant, false, skipNetworkFlagDescription)
	command.Flags().StringSlice(platformFlagNameConstant, nil, platformFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	checkRunner, runnerError := builder.resolveCheckRunner(options, logger)
	if runnerError != nil {
		return runnerError
	}

	documentationScanner := builder.DocumentationScanner
	if documentationScanner == nil {
		documentationScanner = docscan.NewService(registry.NewDefaultRegistry())
	}

	headReader := builder.HeadReader
	if headReader == nil {
		headReader = gitmeta.ReadHead
	}

	service := NewService(checkRunner, documentationScanner, headReader, utils.NewFlushingWriter(command.OutOrStdout()))
	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()
	configuredMinimumScore := configuration.MinimumScore

	options := CommandOptions{
		RepositoryRoot:  configuration.RepositoryRoot,
		OutputPath:      configuration.OutputPath,
		StrictMode:      configuration.StrictMode,
		MinimumScore:    &configuredMinimumScore,
		IncludeCommands: configuration.WithCommands,
		SkipNetwork:     configuration.SkipNetwork,
		RequiredFiles:   configuration.RequiredFiles,
		Clock:           builder.Clock,
	}

	if len(arguments) > 0 {
		options.RepositoryRoot = arguments[0]
	}
	options.RepositoryRoot = pathutils.NewHomeExpander().Expand(options.RepositoryRoot)

	flags := command.Flags()
	if flags.Changed(outputFlagNameConstant) {
		options.OutputPath, _ = flags.GetString(outputFlagNameConstant)
	}
	if flags.Changed(strictFlagNameConstant) {
		options.StrictMode, _ = flags.GetBool(strictFlagNameConstant)
	}
	if flags.Changed(minScoreFlagNameConstant) {
		flagMinimumScore, _ := flags.GetFloat64(minScoreFlagNameConstant)
		options.MinimumScore = &flagMinimumScore
	}
	if flags.Changed(withCommandsFlagNameConstant) {
		options.IncludeCommands, _ = flags.GetBool(withCommandsFlagNameConstant)
	}
	if flags.Changed(skipNetworkFlagNameConstant) {
		options.SkipNetwork, _ = flags.GetBool(skipNetworkFlagNameConstant)
	}

	platformNames := configuration.Platforms
	if flags.Changed(platformFlagNameConstant) {
		platformNames, _ = flags.GetStringSlice(platformFlagNameConstant)
	}
	platforms, platformsError := resolvePlatforms(platformNames)
	if platformsError != nil {
		return CommandOptions{}, platformsError
	}
	options.Platforms = platforms

	return options, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveCheckRunner(options CommandOptions, logger *zap.Logger) (CheckRunner, error) {
	if builder.CheckRunnerFactory != nil {
		return builder.CheckRunnerFactory(options, logger)
	}

	executor, executorError := execshell.NewShellExecutor(execshell.NewOSCommandRunner(), logger)
	if executorError != nil {
		return nil, fmt.Errorf(executorErrorTemplateConst, executorError)
	}
	patternRegistry := registry.NewRegistry(registry.Options{RequiredFiles: options.RequiredFiles})
	battery := checks.DefaultBattery(options.RepositoryRoot, patternRegistry, executor)
	return checks.NewRunner(battery, logger), nil
}

func resolvePlatforms(platformNames []string) ([]model.Platform, error) {
	if len(platformNames) == 0 {
		return nil, nil
	}
	platforms := make([]model.Platform, 0, len(platformNames))
	for _, platformName := range platformNames {
		platform, recognized := model.ParsePlatform(platformName)
		if !recognized {
			return nil, fmt.Errorf(unknownPlatformErrorTemplate, ErrConfiguration, platformName)
		}
		platforms = append(platforms, platform)
	}
	return platforms, nil
}
