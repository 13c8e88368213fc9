package checks

import "github.com/audix/audix/internal/registry"

// DefaultBattery assembles the standard six-check battery for repositoryRoot
// in reporting order.
func DefaultBattery(repositoryRoot string, patternRegistry *registry.Registry, executor ToolExecutor) []Check {
	return []Check{
		NewSecurityFilesCheck(repositoryRoot, patternRegistry),
		NewSecretScanCheck(repositoryRoot, patternRegistry),
		NewDependencyVulnerabilityCheck(repositoryRoot, executor),
		NewLintSecurityCheck(repositoryRoot, executor),
		NewGitHistorySecretsCheck(repositoryRoot, executor),
		NewTestDataSafetyCheck(repositoryRoot, patternRegistry),
	}
}
