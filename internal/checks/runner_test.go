package checks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/audix/audix/internal/checks"
)

type scriptedCheck struct {
	name   string
	weight float64
	run    func(executionContext context.Context) checks.CheckResult
}

func (check scriptedCheck) Name() string    { return check.name }
func (check scriptedCheck) Weight() float64 { return check.weight }
func (check scriptedCheck) Run(executionContext context.Context) checks.CheckResult {
	return check.run(executionContext)
}

func passingCheck(name string, weight float64) scriptedCheck {
	return scriptedCheck{
		name:   name,
		weight: weight,
		run: func(executionContext context.Context) checks.CheckResult {
			return checks.CheckResult{CheckName: name, Weight: weight, Passed: true}
		},
	}
}

func TestRunnerPreservesBatteryOrder(t *testing.T) {
	battery := []checks.Check{
		passingCheck("alpha", 40),
		passingCheck("bravo", 35),
		passingCheck("charlie", 25),
	}

	results, runError := checks.NewRunner(battery, zap.NewNop()).RunAll(context.Background())

	require.NoError(t, runError)
	require.Len(t, results, 3)
	require.Equal(t, "alpha", results[0].CheckName)
	require.Equal(t, "bravo", results[1].CheckName)
	require.Equal(t, "charlie", results[2].CheckName)
}

func TestRunnerIsolatesPanickingChecks(t *testing.T) {
	battery := []checks.Check{
		scriptedCheck{
			name:   "panics",
			weight: 50,
			run: func(executionContext context.Context) checks.CheckResult {
				panic("boom")
			},
		},
		passingCheck("survives", 50),
	}

	results, runError := checks.NewRunner(battery, zap.NewNop()).RunAll(context.Background())

	require.NoError(t, runError)
	require.Len(t, results, 2)
	require.False(t, results[0].Passed)
	require.Contains(t, results[0].Detail, "internal error")
	require.True(t, results[1].Passed)
}

func TestRunnerDiscardsResultsOnCancellation(t *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	battery := []checks.Check{passingCheck("alpha", 100)}
	results, runError := checks.NewRunner(battery, zap.NewNop()).RunAll(cancelledContext)

	require.ErrorIs(t, runError, context.Canceled)
	require.Nil(t, results)
}

func TestRunnerTimeoutFromEnvironment(t *testing.T) {
	t.Setenv(checks.TimeoutEnvironmentVariable, "3")
	runner := checks.NewRunner(nil, zap.NewNop())
	require.Equal(t, 3*time.Second, runner.CheckTimeout())
}

func TestRunnerTimeoutDefaultsWhenUnsetOrInvalid(t *testing.T) {
	testCases := []struct {
		name          string
		variableValue string
	}{
		{name: "unset", variableValue: ""},
		{name: "not a number", variableValue: "soon"},
		{name: "negative", variableValue: "-4"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(checks.TimeoutEnvironmentVariable, testCase.variableValue)
			runner := checks.NewRunner(nil, zap.NewNop())
			require.Equal(t, 25*time.Second, runner.CheckTimeout())
		})
	}
}

func TestRunnerAppliesPerCheckDeadline(t *testing.T) {
	t.Setenv(checks.TimeoutEnvironmentVariable, "1")
	battery := []checks.Check{
		scriptedCheck{
			name:   "observes-deadline",
			weight: 100,
			run: func(executionContext context.Context) checks.CheckResult {
				deadline, hasDeadline := executionContext.Deadline()
				return checks.CheckResult{
					CheckName: "observes-deadline",
					Weight:    100,
					Passed:    hasDeadline && time.Until(deadline) <= time.Second,
				}
			},
		},
	}

	results, runError := checks.NewRunner(battery, zap.NewNop()).RunAll(context.Background())

	require.NoError(t, runError)
	require.True(t, results[0].Passed)
}
