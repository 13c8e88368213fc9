package checks

import (
	"context"

	"github.com/audix/audix/internal/registry"
)

// TestDataSafetyCheck applies the secret pattern set to files designated as
// test fixtures (testdata trees). Fixtures holding live-looking credentials
// fail the check even when the main source tree is clean.
type TestDataSafetyCheck struct {
	repositoryRoot string
	registry       *registry.Registry
}

// NewTestDataSafetyCheck constructs the test-fixture secret scan.
func NewTestDataSafetyCheck(repositoryRoot string, patternRegistry *registry.Registry) *TestDataSafetyCheck {
	return &TestDataSafetyCheck{repositoryRoot: repositoryRoot, registry: patternRegistry}
}

// Name implements Check.
func (check *TestDataSafetyCheck) Name() string { return CheckNameTestDataSafety }

// Weight implements Check.
func (check *TestDataSafetyCheck) Weight() float64 { return WeightTestDataSafety }

// Run implements Check.
func (check *TestDataSafetyCheck) Run(executionContext context.Context) CheckResult {
	matches, scanError := scanTreeForSecrets(executionContext, check.repositoryRoot, check.registry.SecretPatterns(), true)
	return buildSecretScanResult(check.Name(), check.Weight(), matches, scanError)
}
