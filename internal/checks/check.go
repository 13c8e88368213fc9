package checks

import "context"

// Check names used across the battery, reports, and tests.
const (
	CheckNameSecurityFiles   = "security-files"
	CheckNameSecretScan      = "secret-scan"
	CheckNameDependencyVulns = "dependency-vulnerabilities"
	CheckNameLintSecurity    = "lint-security"
	CheckNameGitHistory      = "git-history-secrets"
	CheckNameTestDataSafety  = "test-data-safety"
)

// Check weights form the 100-point composite score. A passed check
// contributes its full weight, a failed check contributes zero.
const (
	WeightSecurityFiles   = 20.0
	WeightSecretScan      = 25.0
	WeightDependencyVulns = 15.0
	WeightLintSecurity    = 15.0
	WeightGitHistory      = 15.0
	WeightTestDataSafety  = 10.0
)

// CheckResult is the normalized outcome of one security check.
type CheckResult struct {
	CheckName  string  `json:"check_name"`
	Passed     bool    `json:"passed"`
	IssueCount int     `json:"issue_count"`
	Weight     float64 `json:"weight"`
	Detail     string  `json:"detail,omitempty"`
}

// Check is one independently executable security check. Run never panics
// through to the caller and never returns an error: failures are expressed as
// a failed CheckResult with a human-readable detail.
type Check interface {
	Name() string
	Weight() float64
	Run(executionContext context.Context) CheckResult
}
