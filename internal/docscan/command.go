package docscan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
	"github.com/audix/audix/internal/utils/flags"
	pathutils "github.com/audix/audix/internal/utils/path"
)

const (
	commandUseConstant              = "commands [root]"
	commandShortDescriptionConstant = "List shell commands found in repository documentation"
	commandLongDescriptionConstant  = "commands extracts fenced shell commands from documentation files and classifies each one by risk category."
	jsonFlagNameConstant            = "json"
	jsonFlagDescriptionConstant     = "Emit the command list as JSON"
	platformFlagNameConstant        = "platform"
	platformFlagDescriptionConstant = "Restrict output to these platforms"
	skipNetworkFlagNameConstant     = "skip-network"
	skipNetworkFlagDescription      = "Exclude network-risk commands"

	rootUnreadableErrorTemplate  = "%w: repository root %s is not readable: %v"
	rootNotDirectoryTemplate     = "%w: repository root %s is not a directory"
	unknownPlatformErrorTemplate = "%w: unknown platform %q"
	defaultRootConstant          = "."

	commandRowTemplateConstant = "%s  %-11s  %s:%d  %s"
	summaryRowTemplateConstant = "  %-14s %-12s %d"
	totalRowTemplateConstant   = "%d command(s)"
)

var riskStyles = map[model.RiskCategory]lipgloss.Style{
	model.RiskNetwork:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	model.RiskDestructive: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	model.RiskSandboxed:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	model.RiskSafe:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
}

// CommandBuilder assembles the commands cobra command.
type CommandBuilder struct {
	ScannerProvider func() *Service
}

// Build constructs the cobra command for documentation command listing.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	platformFlagUsage := flags.FormatChoiceUsage(
		string(model.PlatformPosixShell),
		[]string{string(model.PlatformPosixShell), string(model.PlatformWindowsCmd), string(model.PlatformPowerShell)},
		platformFlagDescriptionConstant,
	)

	command.Flags().Bool(jsonFlagNameConstant, false, jsonFlagDescriptionConstant)
	command.Flags().StringSlice(platformFlagNameConstant, nil, platformFlagUsage)
	command.Flags().Bool(skipNetworkFlagNameConstant, false, skipNetworkFlagDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	repositoryRoot := defaultRootConstant
	if len(arguments) > 0 {
		repositoryRoot = arguments[0]
	}
	repositoryRoot = pathutils.NewHomeExpander().Expand(repositoryRoot)

	rootInformation, statError := os.Stat(repositoryRoot)
	if statError != nil {
		return fmt.Errorf(rootUnreadableErrorTemplate, model.ErrConfiguration, repositoryRoot, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(rootNotDirectoryTemplate, model.ErrConfiguration, repositoryRoot)
	}

	flags := command.Flags()
	emitJSON, _ := flags.GetBool(jsonFlagNameConstant)
	skipNetwork, _ := flags.GetBool(skipNetworkFlagNameConstant)
	platformNames, _ := flags.GetStringSlice(platformFlagNameConstant)

	platforms := make([]model.Platform, 0, len(platformNames))
	for _, platformName := range platformNames {
		platform, recognized := model.ParsePlatform(platformName)
		if !recognized {
			return fmt.Errorf(unknownPlatformErrorTemplate, model.ErrConfiguration, platformName)
		}
		platforms = append(platforms, platform)
	}

	scanner := builder.resolveScanner()
	commands, scanError := scanner.Scan(command.Context(), repositoryRoot, Options{
		Platforms:   platforms,
		SkipNetwork: skipNetwork,
	})
	if scanError != nil {
		return scanError
	}

	output := command.OutOrStdout()
	if emitJSON {
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(commands)
	}

	for _, documentationCommand := range commands {
		riskStyle := riskStyles[documentationCommand.Risk]
		fmt.Fprintf(
			output,
			commandRowTemplateConstant+"\n",
			riskStyle.Render(string(documentationCommand.Risk)),
			documentationCommand.Platform,
			documentationCommand.SourceFile,
			documentationCommand.LineNumber,
			documentationCommand.Text,
		)
	}

	summary := Summarize(commands)
	if summary.Total() > 0 {
		fmt.Fprintln(output)
		for _, platform := range model.Platforms {
			risksForPlatform, found := summary[platform]
			if !found {
				continue
			}
			for _, risk := range model.RiskCategoriesBySeverity {
				if count := risksForPlatform[risk]; count > 0 {
					fmt.Fprintf(output, summaryRowTemplateConstant+"\n", platform, risk, count)
				}
			}
		}
	}
	fmt.Fprintf(output, totalRowTemplateConstant+"\n", len(commands))

	return nil
}

func (builder *CommandBuilder) resolveScanner() *Service {
	if builder.ScannerProvider == nil {
		return NewService(registry.NewDefaultRegistry())
	}
	scanner := builder.ScannerProvider()
	if scanner == nil {
		return NewService(registry.NewDefaultRegistry())
	}
	return scanner
}
