package execshell

import "context"

// ToolName identifies a supported external executable.
type ToolName string

// Supported tool enumerations.
const (
	ToolOSVScanner ToolName = "osv-scanner"
	ToolGosec      ToolName = "gosec"
	ToolGitleaks   ToolName = "gitleaks"
)

// CommandDetails describes a tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a ToolName with specific invocation details.
type ShellCommand struct {
	Name    ToolName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}
