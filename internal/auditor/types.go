package auditor

import (
	"context"
	"errors"
	"time"

	"github.com/audix/audix/internal/checks"
	"github.com/audix/audix/internal/docscan"
	"github.com/audix/audix/internal/model"
)

// DefaultThreshold is the minimum composite score required to pass when the
// caller does not override it.
const DefaultThreshold = 85.0

// Sentinel errors distinguishing audit outcomes for exit-code mapping.
var (
	// ErrAuditFailed marks a completed audit whose score fell below the
	// threshold (or, in strict mode, one with any failing check).
	ErrAuditFailed = errors.New("repository audit failed")
	// ErrConfiguration marks an invalid invocation: unreadable root path or
	// out-of-range threshold. No scoring happens after this error. It is the
	// shared model sentinel so every subcommand maps to the same exit code.
	ErrConfiguration = model.ErrConfiguration
)

// CommandOptions captures the configurable parameters for one audit run.
// MinimumScore is nil when the caller did not choose a threshold; an explicit
// zero is a valid threshold and is honored.
type CommandOptions struct {
	RepositoryRoot  string
	OutputPath      string
	StrictMode      bool
	MinimumScore    *float64
	IncludeCommands bool
	SkipNetwork     bool
	Platforms       []model.Platform
	RequiredFiles   []string
	Clock           Clock
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// CheckRunner executes the security check battery.
type CheckRunner interface {
	RunAll(executionContext context.Context) ([]checks.CheckResult, error)
}

// DocumentationScanner extracts and classifies documentation commands.
type DocumentationScanner interface {
	Scan(executionContext context.Context, repositoryRoot string, options docscan.Options) ([]model.Command, error)
}
