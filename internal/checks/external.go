package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/audix/audix/internal/execshell"
	"github.com/audix/audix/internal/gitmeta"
)

const (
	toolUnavailableDetailTemplateConstant = "%s unavailable: %v"
	toolTimeoutDetailTemplateConstant     = "%s timed out before completion"
	toolFindingsDetailTemplateConstant    = "%s reported %d finding(s)"
	toolFailureDetailTemplateConstant     = "%s exited with code %d: %s"
	unparseableOutputDetailTemplate       = "%s produced unparseable output: %v"

	osvScannerFormatFlagConstant    = "--format"
	osvScannerJSONFormatConstant    = "json"
	osvScannerRecursiveFlagConstant = "--recursive"

	gosecFormatFlagConstant      = "-fmt=json"
	gosecQuietFlagConstant       = "-quiet"
	gosecAllPackagesArgConstant  = "./..."
	gitleaksDetectSubcommand     = "detect"
	gitleaksSourceFlagConstant   = "--source"
	gitleaksNoBannerFlagConstant = "--no-banner"
	gitleaksFormatFlagConstant   = "--report-format"
	gitleaksReportFlagConstant   = "--report-path"
	gitleaksReportFilePattern    = "audix-gitleaks-*.json"

	notARepositoryDetailConstant = "no git repository detected; history scan has nothing to inspect"
)

// ToolExecutor is the narrow executor surface external checks depend on.
type ToolExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// osvScannerReport mirrors the subset of osv-scanner JSON output the check reads.
type osvScannerReport struct {
	Results []struct {
		Packages []struct {
			Vulnerabilities []struct {
				ID string `json:"id"`
			} `json:"vulnerabilities"`
		} `json:"packages"`
	} `json:"results"`
}

// gosecReport mirrors the subset of gosec JSON output the check reads.
type gosecReport struct {
	Issues []struct {
		RuleID string `json:"rule_id"`
	} `json:"Issues"`
}

// gitleaksFinding mirrors one entry of the gitleaks JSON report.
type gitleaksFinding struct {
	RuleID string `json:"RuleID"`
	File   string `json:"File"`
}

// DependencyVulnerabilityCheck shells out to osv-scanner and normalizes its
// report into a CheckResult.
type DependencyVulnerabilityCheck struct {
	repositoryRoot string
	executor       ToolExecutor
}

// NewDependencyVulnerabilityCheck constructs the osv-scanner check.
func NewDependencyVulnerabilityCheck(repositoryRoot string, executor ToolExecutor) *DependencyVulnerabilityCheck {
	return &DependencyVulnerabilityCheck{repositoryRoot: repositoryRoot, executor: executor}
}

// Name implements Check.
func (check *DependencyVulnerabilityCheck) Name() string { return CheckNameDependencyVulns }

// Weight implements Check.
func (check *DependencyVulnerabilityCheck) Weight() float64 { return WeightDependencyVulns }

// Run implements Check.
func (check *DependencyVulnerabilityCheck) Run(executionContext context.Context) CheckResult {
	command := execshell.ShellCommand{
		Name: execshell.ToolOSVScanner,
		Details: execshell.CommandDetails{
			Arguments:        []string{osvScannerFormatFlagConstant, osvScannerJSONFormatConstant, osvScannerRecursiveFlagConstant, "."},
			WorkingDirectory: check.repositoryRoot,
		},
	}

	result, executionError := check.executor.Execute(executionContext, command)
	if executionError != nil {
		return failedExternalResult(check.Name(), check.Weight(), execshell.ToolOSVScanner, executionError)
	}

	var report osvScannerReport
	if unmarshalError := json.Unmarshal([]byte(result.StandardOutput), &report); unmarshalError != nil {
		if result.ExitCode == 0 {
			// An empty or non-JSON response with a clean exit means no findings.
			return passedExternalResult(check.Name(), check.Weight())
		}
		return unparseableExternalResult(check.Name(), check.Weight(), execshell.ToolOSVScanner, result, unmarshalError)
	}

	vulnerabilityCount := 0
	for _, scanResult := range report.Results {
		for _, scannedPackage := range scanResult.Packages {
			vulnerabilityCount += len(scannedPackage.Vulnerabilities)
		}
	}
	return externalResultFromCount(check.Name(), check.Weight(), execshell.ToolOSVScanner, vulnerabilityCount)
}

// LintSecurityCheck shells out to gosec and normalizes its report into a CheckResult.
type LintSecurityCheck struct {
	repositoryRoot string
	executor       ToolExecutor
}

// NewLintSecurityCheck constructs the gosec check.
func NewLintSecurityCheck(repositoryRoot string, executor ToolExecutor) *LintSecurityCheck {
	return &LintSecurityCheck{repositoryRoot: repositoryRoot, executor: executor}
}

// Name implements Check.
func (check *LintSecurityCheck) Name() string { return CheckNameLintSecurity }

// Weight implements Check.
func (check *LintSecurityCheck) Weight() float64 { return WeightLintSecurity }

// Run implements Check.
func (check *LintSecurityCheck) Run(executionContext context.Context) CheckResult {
	command := execshell.ShellCommand{
		Name: execshell.ToolGosec,
		Details: execshell.CommandDetails{
			Arguments:        []string{gosecFormatFlagConstant, gosecQuietFlagConstant, gosecAllPackagesArgConstant},
			WorkingDirectory: check.repositoryRoot,
		},
	}

	result, executionError := check.executor.Execute(executionContext, command)
	if executionError != nil {
		return failedExternalResult(check.Name(), check.Weight(), execshell.ToolGosec, executionError)
	}

	var report gosecReport
	if unmarshalError := json.Unmarshal([]byte(result.StandardOutput), &report); unmarshalError != nil {
		if result.ExitCode == 0 {
			return passedExternalResult(check.Name(), check.Weight())
		}
		return unparseableExternalResult(check.Name(), check.Weight(), execshell.ToolGosec, result, unmarshalError)
	}

	return externalResultFromCount(check.Name(), check.Weight(), execshell.ToolGosec, len(report.Issues))
}

// GitHistorySecretsCheck shells out to gitleaks and normalizes its report
// into a CheckResult. The JSON report is exchanged through a temporary file
// because gitleaks does not write reports to stdout.
type GitHistorySecretsCheck struct {
	repositoryRoot     string
	executor           ToolExecutor
	repositoryDetector func(string) bool
}

// NewGitHistorySecretsCheck constructs the gitleaks check.
func NewGitHistorySecretsCheck(repositoryRoot string, executor ToolExecutor) *GitHistorySecretsCheck {
	return &GitHistorySecretsCheck{
		repositoryRoot:     repositoryRoot,
		executor:           executor,
		repositoryDetector: gitmeta.IsRepository,
	}
}

// Name implements Check.
func (check *GitHistorySecretsCheck) Name() string { return CheckNameGitHistory }

// Weight implements Check.
func (check *GitHistorySecretsCheck) Weight() float64 { return WeightGitHistory }

// Run implements Check.
func (check *GitHistorySecretsCheck) Run(executionContext context.Context) CheckResult {
	if !check.repositoryDetector(check.repositoryRoot) {
		return CheckResult{
			CheckName:  check.Name(),
			Weight:     check.Weight(),
			Passed:     false,
			IssueCount: 1,
			Detail:     notARepositoryDetailConstant,
		}
	}

	reportFile, temporaryFileError := os.CreateTemp("", gitleaksReportFilePattern)
	if temporaryFileError != nil {
		return failedExternalResult(check.Name(), check.Weight(), execshell.ToolGitleaks, temporaryFileError)
	}
	reportPath := reportFile.Name()
	_ = reportFile.Close()
	defer func() { _ = os.Remove(reportPath) }()

	command := execshell.ShellCommand{
		Name: execshell.ToolGitleaks,
		Details: execshell.CommandDetails{
			Arguments: []string{
				gitleaksDetectSubcommand,
				gitleaksSourceFlagConstant, ".",
				gitleaksNoBannerFlagConstant,
				gitleaksFormatFlagConstant, osvScannerJSONFormatConstant,
				gitleaksReportFlagConstant, reportPath,
			},
			WorkingDirectory: check.repositoryRoot,
		},
	}

	result, executionError := check.executor.Execute(executionContext, command)
	if executionError != nil {
		return failedExternalResult(check.Name(), check.Weight(), execshell.ToolGitleaks, executionError)
	}

	findingCount, parseError := countGitleaksFindings(reportPath)
	if parseError != nil {
		if result.ExitCode == 0 {
			return passedExternalResult(check.Name(), check.Weight())
		}
		return CheckResult{
			CheckName:  check.Name(),
			Weight:     check.Weight(),
			Passed:     false,
			IssueCount: 1,
			Detail:     fmt.Sprintf(toolFailureDetailTemplateConstant, execshell.ToolGitleaks, result.ExitCode, result.StandardError),
		}
	}
	return externalResultFromCount(check.Name(), check.Weight(), execshell.ToolGitleaks, findingCount)
}

func countGitleaksFindings(reportPath string) (int, error) {
	reportContent, readError := os.ReadFile(filepath.Clean(reportPath))
	if readError != nil {
		return 0, readError
	}
	var findings []gitleaksFinding
	if unmarshalError := json.Unmarshal(reportContent, &findings); unmarshalError != nil {
		return 0, unmarshalError
	}
	return len(findings), nil
}

func failedExternalResult(checkName string, weight float64, tool execshell.ToolName, executionError error) CheckResult {
	detail := fmt.Sprintf(toolUnavailableDetailTemplateConstant, tool, executionError)
	if errors.Is(executionError, context.DeadlineExceeded) {
		detail = fmt.Sprintf(toolTimeoutDetailTemplateConstant, tool)
	}
	return CheckResult{
		CheckName:  checkName,
		Weight:     weight,
		Passed:     false,
		IssueCount: 1,
		Detail:     detail,
	}
}

func passedExternalResult(checkName string, weight float64) CheckResult {
	return CheckResult{CheckName: checkName, Weight: weight, Passed: true}
}

func unparseableExternalResult(checkName string, weight float64, tool execshell.ToolName, result execshell.ExecutionResult, parseError error) CheckResult {
	return CheckResult{
		CheckName:  checkName,
		Weight:     weight,
		Passed:     false,
		IssueCount: 1,
		Detail:     fmt.Sprintf(unparseableOutputDetailTemplate, tool, parseError),
	}
}

func externalResultFromCount(checkName string, weight float64, tool execshell.ToolName, findingCount int) CheckResult {
	result := CheckResult{
		CheckName:  checkName,
		Weight:     weight,
		IssueCount: findingCount,
		Passed:     findingCount == 0,
	}
	if findingCount > 0 {
		result.Detail = fmt.Sprintf(toolFindingsDetailTemplateConstant, tool, findingCount)
	}
	return result
}
