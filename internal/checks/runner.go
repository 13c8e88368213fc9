package checks

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// TimeoutEnvironmentVariable bounds each external tool invocation in
	// seconds. Unset or invalid values fall back to the default.
	TimeoutEnvironmentVariable = "AUDIX_CHECK_TIMEOUT_SECONDS"

	defaultCheckTimeoutSeconds = 25

	checkPanicDetailTemplateConstant = "check aborted by internal error: %v"
	checkStartedMessageConstant      = "security check started"
	checkFinishedMessageConstant     = "security check finished"
	logFieldCheckNameConstant        = "check_name"
	logFieldPassedConstant           = "passed"
	logFieldIssueCountConstant       = "issue_count"
)

// Runner executes a fixed battery of checks. Checks are mutually independent
// and run concurrently; a failure or hang in one check never aborts the
// siblings, and results come back in battery order.
type Runner struct {
	battery      []Check
	checkTimeout time.Duration
	logger       *zap.Logger
}

// NewRunner constructs a runner over the supplied battery. The per-check
// timeout is read from TimeoutEnvironmentVariable once at construction.
func NewRunner(battery []Check, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		battery:      battery,
		checkTimeout: checkTimeoutFromEnvironment(),
		logger:       logger,
	}
}

// CheckTimeout returns the per-check timeout in effect.
func (runner *Runner) CheckTimeout() time.Duration {
	return runner.checkTimeout
}

// RunAll executes every check and returns one result per check in battery
// order. Cancellation of executionContext discards partial results and
// returns the context error.
func (runner *Runner) RunAll(executionContext context.Context) ([]CheckResult, error) {
	results := make([]CheckResult, len(runner.battery))

	var waitGroup sync.WaitGroup
	for batteryIndex, batteryCheck := range runner.battery {
		waitGroup.Add(1)
		go func(resultIndex int, currentCheck Check) {
			defer waitGroup.Done()
			results[resultIndex] = runner.runIsolated(executionContext, currentCheck)
		}(batteryIndex, batteryCheck)
	}
	waitGroup.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}
	return results, nil
}

// runIsolated bounds one check with the per-check timeout and converts a
// panic into a failed result.
func (runner *Runner) runIsolated(executionContext context.Context, currentCheck Check) (result CheckResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = CheckResult{
				CheckName:  currentCheck.Name(),
				Weight:     currentCheck.Weight(),
				Passed:     false,
				IssueCount: 1,
				Detail:     fmt.Sprintf(checkPanicDetailTemplateConstant, recovered),
			}
		}
	}()

	checkContext, cancelCheck := context.WithTimeout(executionContext, runner.checkTimeout)
	defer cancelCheck()

	runner.logger.Debug(checkStartedMessageConstant, zap.String(logFieldCheckNameConstant, currentCheck.Name()))
	result = currentCheck.Run(checkContext)
	runner.logger.Debug(
		checkFinishedMessageConstant,
		zap.String(logFieldCheckNameConstant, currentCheck.Name()),
		zap.Bool(logFieldPassedConstant, result.Passed),
		zap.Int(logFieldIssueCountConstant, result.IssueCount),
	)
	return result
}

func checkTimeoutFromEnvironment() time.Duration {
	rawValue := os.Getenv(TimeoutEnvironmentVariable)
	if len(rawValue) == 0 {
		return defaultCheckTimeoutSeconds * time.Second
	}
	parsedSeconds, parseError := strconv.Atoi(rawValue)
	if parseError != nil || parsedSeconds <= 0 {
		return defaultCheckTimeoutSeconds * time.Second
	}
	return time.Duration(parsedSeconds) * time.Second
}

