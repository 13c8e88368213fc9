package execshell

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	runnerNotConfiguredMessageConstant = "command runner not configured"
	commandStartedMessageConstant      = "external tool starting"
	commandCompletedMessageConstant    = "external tool completed"
	commandFailedMessageConstant       = "external tool execution failed"
	logFieldToolConstant               = "tool"
	logFieldArgumentsConstant          = "arguments"
	logFieldExitCodeConstant           = "exit_code"
	logFieldWorkingDirectoryConstant   = "working_directory"
	argumentsJoinSeparatorConstant     = " "
)

// ShellExecutor runs external tools through a CommandRunner and logs the
// command lifecycle.
type ShellExecutor struct {
	commandRunner CommandRunner
	logger        *zap.Logger
}

// NewShellExecutor constructs an executor around the provided runner.
func NewShellExecutor(commandRunner CommandRunner, logger *zap.Logger) (*ShellExecutor, error) {
	if commandRunner == nil {
		return nil, errors.New(runnerNotConfiguredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShellExecutor{commandRunner: commandRunner, logger: logger}, nil
}

// Execute runs the supplied command and logs start, completion, and failure.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldToolConstant, string(command.Name)),
		zap.String(logFieldArgumentsConstant, strings.Join(command.Details.Arguments, argumentsJoinSeparatorConstant)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	result, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(
			commandFailedMessageConstant,
			zap.String(logFieldToolConstant, string(command.Name)),
			zap.Error(runError),
		)
		return ExecutionResult{}, runError
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldToolConstant, string(command.Name)),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
	)
	return result, nil
}

// ExecuteOSVScanner runs osv-scanner with the provided details.
func (executor *ShellExecutor) ExecuteOSVScanner(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: ToolOSVScanner, Details: details})
}

// ExecuteGosec runs gosec with the provided details.
func (executor *ShellExecutor) ExecuteGosec(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: ToolGosec, Details: details})
}

// ExecuteGitleaks runs gitleaks with the provided details.
func (executor *ShellExecutor) ExecuteGitleaks(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: ToolGitleaks, Details: details})
}
