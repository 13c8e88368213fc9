package auditor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/audix/audix/internal/docscan"
	"github.com/audix/audix/internal/gitmeta"
	"github.com/audix/audix/internal/report"
)

const (
	rootUnreadableErrorTemplate     = "%w: repository root %s is not readable: %v"
	rootNotDirectoryErrorTemplate   = "%w: repository root %s is not a directory"
	thresholdOutOfRangeTemplate     = "%w: minimum score %.1f is outside [0, 100]"
	reportOutputErrorTemplate       = "unable to emit audit report: %w"
	auditBelowThresholdTemplate     = "%w: score %.1f below threshold %.1f"
	auditStrictFailureTemplate      = "%w: %d check(s) failed in strict mode"
	documentationScanErrorTemplate  = "documentation scan failed: %w"
	checkExecutionAbortedTemplate   = "check execution aborted: %w"
	minimumThresholdAllowedConstant = 0.0
	maximumThresholdAllowedConstant = 100.0
)

// HeadReader resolves repository metadata for report stamping.
type HeadReader func(repositoryRoot string) (gitmeta.HeadMetadata, error)

// Service runs the audit: checks, optional documentation scan, scoring, and
// report emission.
type Service struct {
	checkRunner  CheckRunner
	docScanner   DocumentationScanner
	headReader   HeadReader
	outputWriter io.Writer
}

// NewService constructs an audit service. A nil headReader disables
// repository stamping; a nil outputWriter suppresses human-readable output.
func NewService(checkRunner CheckRunner, docScanner DocumentationScanner, headReader HeadReader, outputWriter io.Writer) *Service {
	if headReader == nil {
		headReader = func(string) (gitmeta.HeadMetadata, error) {
			return gitmeta.HeadMetadata{}, nil
		}
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		checkRunner:  checkRunner,
		docScanner:   docScanner,
		headReader:   headReader,
		outputWriter: outputWriter,
	}
}

// Run executes the audit and returns the report. The error is ErrAuditFailed
// when the audit completed below threshold, ErrConfiguration for invalid
// invocations, and any other error for internal failures; no report file is
// written for internal failures or cancellation.
func (service *Service) Run(executionContext context.Context, options CommandOptions) (report.AuditReport, error) {
	if validationError := validateOptions(options); validationError != nil {
		return report.AuditReport{}, validationError
	}

	clock := options.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	threshold := DefaultThreshold
	if options.MinimumScore != nil {
		threshold = *options.MinimumScore
	}

	checkResults, checksError := service.checkRunner.RunAll(executionContext)
	if checksError != nil {
		return report.AuditReport{}, fmt.Errorf(checkExecutionAbortedTemplate, checksError)
	}

	auditReport := report.AuditReport{
		Threshold:    threshold,
		StrictMode:   options.StrictMode,
		CheckResults: checkResults,
		Timestamp:    clock.Now(),
	}

	if options.IncludeCommands {
		commands, scanError := service.docScanner.Scan(executionContext, options.RepositoryRoot, docscan.Options{
			Platforms:   options.Platforms,
			SkipNetwork: options.SkipNetwork,
		})
		if scanError != nil {
			return report.AuditReport{}, fmt.Errorf(documentationScanErrorTemplate, scanError)
		}
		auditReport.CommandSummary = docscan.Summarize(commands)
	}

	if metadata, metadataError := service.headReader(options.RepositoryRoot); metadataError == nil {
		auditReport.Repository = report.RepositoryMetadata{
			CommitHash: metadata.CommitHash,
			Branch:     metadata.Branch,
		}
	}

	earnedScore := 0.0
	failedCheckCount := 0
	for _, checkResult := range checkResults {
		if checkResult.Passed {
			earnedScore += checkResult.Weight
		} else {
			failedCheckCount++
		}
	}
	auditReport.OverallScore = report.RoundScore(earnedScore)

	auditReport.Passed = auditReport.OverallScore >= threshold
	if options.StrictMode && failedCheckCount > 0 {
		auditReport.Passed = false
	}

	if emitError := service.emitReport(auditReport, options.OutputPath); emitError != nil {
		return report.AuditReport{}, fmt.Errorf(reportOutputErrorTemplate, emitError)
	}

	if !auditReport.Passed {
		if options.StrictMode && failedCheckCount > 0 {
			return auditReport, fmt.Errorf(auditStrictFailureTemplate, ErrAuditFailed, failedCheckCount)
		}
		return auditReport, fmt.Errorf(auditBelowThresholdTemplate, ErrAuditFailed, auditReport.OverallScore, threshold)
	}
	return auditReport, nil
}

func (service *Service) emitReport(auditReport report.AuditReport, outputPath string) error {
	if len(outputPath) > 0 {
		return auditReport.WriteFile(outputPath)
	}
	_, writeError := io.WriteString(service.outputWriter, report.Render(auditReport))
	return writeError
}

func validateOptions(options CommandOptions) error {
	rootInformation, statError := os.Stat(options.RepositoryRoot)
	if statError != nil {
		return fmt.Errorf(rootUnreadableErrorTemplate, ErrConfiguration, options.RepositoryRoot, statError)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf(rootNotDirectoryErrorTemplate, ErrConfiguration, options.RepositoryRoot)
	}
	if options.MinimumScore != nil && (*options.MinimumScore < minimumThresholdAllowedConstant || *options.MinimumScore > maximumThresholdAllowedConstant) {
		return fmt.Errorf(thresholdOutOfRangeTemplate, ErrConfiguration, *options.MinimumScore)
	}
	return nil
}
