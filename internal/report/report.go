package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/audix/audix/internal/checks"
	"github.com/audix/audix/internal/model"
)

const (
	// scoreDecimalPlaces is the documented precision of OverallScore; the
	// score survives a JSON round trip exactly at this precision.
	scoreDecimalPlaces = 1

	reportFilePermissions         = 0o644
	temporaryReportPatternFormat  = ".%s.tmp-*"
	reportMarshalErrorTemplate    = "unable to encode audit report: %w"
	reportWriteErrorTemplate      = "unable to write audit report: %w"
	jsonIndentationStringConstant = "  "
)

// RepositoryMetadata stamps the audited repository's git state, when known.
type RepositoryMetadata struct {
	CommitHash string `json:"commit_hash,omitempty"`
	Branch     string `json:"branch,omitempty"`
}

// AuditReport is the immutable result of one audit invocation. The JSON form
// is self-contained: every field needed to interpret the outcome is present.
type AuditReport struct {
	OverallScore   float64              `json:"overall_score"`
	Threshold      float64              `json:"threshold"`
	StrictMode     bool                 `json:"strict_mode"`
	Passed         bool                 `json:"passed"`
	CheckResults   []checks.CheckResult `json:"check_results"`
	CommandSummary model.Summary        `json:"command_summary,omitempty"`
	Repository     RepositoryMetadata   `json:"repository,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
}

// RoundScore rounds score to the documented report precision.
func RoundScore(score float64) float64 {
	scale := math.Pow10(scoreDecimalPlaces)
	return math.Round(score*scale) / scale
}

// Encode returns the indented JSON form of the report.
func (auditReport AuditReport) Encode() ([]byte, error) {
	encoded, marshalError := json.MarshalIndent(auditReport, "", jsonIndentationStringConstant)
	if marshalError != nil {
		return nil, fmt.Errorf(reportMarshalErrorTemplate, marshalError)
	}
	return append(encoded, '\n'), nil
}

// Decode parses a report previously produced by Encode.
func Decode(encoded []byte) (AuditReport, error) {
	var decoded AuditReport
	if unmarshalError := json.Unmarshal(encoded, &decoded); unmarshalError != nil {
		return AuditReport{}, unmarshalError
	}
	return decoded, nil
}

// WriteFile writes the report to outputPath atomically: the JSON is staged in
// a temporary file and renamed into place, so a failing run never leaves a
// partial report behind.
func (auditReport AuditReport) WriteFile(outputPath string) error {
	encoded, encodeError := auditReport.Encode()
	if encodeError != nil {
		return encodeError
	}

	outputDirectory := filepath.Dir(outputPath)
	temporaryFile, temporaryError := os.CreateTemp(outputDirectory, fmt.Sprintf(temporaryReportPatternFormat, filepath.Base(outputPath)))
	if temporaryError != nil {
		return fmt.Errorf(reportWriteErrorTemplate, temporaryError)
	}
	temporaryPath := temporaryFile.Name()

	if _, writeError := temporaryFile.Write(encoded); writeError != nil {
		_ = temporaryFile.Close()
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(reportWriteErrorTemplate, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(reportWriteErrorTemplate, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, reportFilePermissions); chmodError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(reportWriteErrorTemplate, chmodError)
	}
	if renameError := os.Rename(temporaryPath, outputPath); renameError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(reportWriteErrorTemplate, renameError)
	}
	return nil
}
