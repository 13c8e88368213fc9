package report_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/audix/audix/internal/checks"
	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/report"
)

func sampleReport() report.AuditReport {
	summary := model.Summary{}
	summary.Add(model.PlatformPosixShell, model.RiskSandboxed)
	summary.Add(model.PlatformWindowsCmd, model.RiskNetwork)

	return report.AuditReport{
		OverallScore: 85.0,
		Threshold:    85,
		Passed:       true,
		CheckResults: []checks.CheckResult{
			{CheckName: checks.CheckNameSecurityFiles, Passed: true, Weight: 20},
			{CheckName: checks.CheckNameSecretScan, Passed: false, IssueCount: 3, Weight: 25, Detail: "3 secret pattern match(es), first in config.env (github-personal-access-token)"},
		},
		CommandSummary: summary,
		Repository:     report.RepositoryMetadata{CommitHash: "a1b2c3d4e5f6a7b8c9d0", Branch: "main"},
		Timestamp:      time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	original := sampleReport()

	encoded, encodeError := original.Encode()
	require.NoError(t, encodeError)

	decoded, decodeError := report.Decode(encoded)
	require.NoError(t, decodeError)

	require.Equal(t, original.OverallScore, decoded.OverallScore)
	require.Equal(t, original.Threshold, decoded.Threshold)
	require.Equal(t, original.Passed, decoded.Passed)
	require.Equal(t, original.CheckResults, decoded.CheckResults)
	require.Equal(t, original.CommandSummary, decoded.CommandSummary)
	require.Equal(t, original.Repository, decoded.Repository)
	require.True(t, original.Timestamp.Equal(decoded.Timestamp))
}

func TestRoundScorePrecision(t *testing.T) {
	require.Equal(t, 33.3, report.RoundScore(33.333333))
	require.Equal(t, 66.7, report.RoundScore(66.66666))
	require.Equal(t, 100.0, report.RoundScore(100.0))
	require.Equal(t, 0.0, report.RoundScore(0.04))
}

func TestWriteFileProducesParseableReport(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "audit.json")

	require.NoError(t, sampleReport().WriteFile(outputPath))

	written, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	decoded, decodeError := report.Decode(written)
	require.NoError(t, decodeError)
	require.Equal(t, sampleReport().OverallScore, decoded.OverallScore)

	// No temporary staging files remain next to the report.
	entries, listError := os.ReadDir(filepath.Dir(outputPath))
	require.NoError(t, listError)
	require.Len(t, entries, 1)
}

func TestRenderListsEveryCheck(t *testing.T) {
	rendered := report.Render(sampleReport())

	require.Contains(t, rendered, checks.CheckNameSecurityFiles)
	require.Contains(t, rendered, checks.CheckNameSecretScan)
	require.Contains(t, rendered, "issues: 3")
	require.Contains(t, rendered, "score 85.0 / 100")
	require.Contains(t, rendered, "posix-shell")
	require.Contains(t, rendered, "network")
}

func TestRenderMarksStrictMode(t *testing.T) {
	strictReport := sampleReport()
	strictReport.StrictMode = true

	require.Contains(t, report.Render(strictReport), "[strict]")
}
