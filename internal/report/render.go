package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/audix/audix/internal/model"
)

const (
	passMarkerConstant        = "PASS"
	failMarkerConstant        = "FAIL"
	renderHeaderConstant      = "Repository audit"
	renderScoreTemplate       = "score %.1f / 100 (threshold %.0f)"
	renderStrictSuffix        = " [strict]"
	renderCheckRowTemplate    = "%s  %-28s issues: %d"
	renderDetailRowTemplate   = "      %s"
	renderSummaryHeader       = "Documentation commands"
	renderSummaryRowTemplate  = "  %-14s %-12s %d"
	renderRepositoryTemplate  = "repository %s @ %s"
	renderTimestampTemplate   = "generated %s"
	renderTimestampTimeFormat = "2006-01-02 15:04:05 MST"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Render returns the human-readable form of the report: the composite score,
// one row per check with pass state and issue count, and the command summary
// when present.
func Render(auditReport AuditReport) string {
	var builder strings.Builder

	scoreLine := fmt.Sprintf(renderScoreTemplate, auditReport.OverallScore, auditReport.Threshold)
	if auditReport.StrictMode {
		scoreLine += renderStrictSuffix
	}

	overallMarker := failStyle.Render(failMarkerConstant)
	if auditReport.Passed {
		overallMarker = passStyle.Render(passMarkerConstant)
	}

	builder.WriteString(headerStyle.Render(renderHeaderConstant))
	builder.WriteString("  ")
	builder.WriteString(overallMarker)
	builder.WriteString("\n")
	builder.WriteString(scoreLine)
	builder.WriteString("\n\n")

	for _, checkResult := range auditReport.CheckResults {
		marker := failStyle.Render(failMarkerConstant)
		if checkResult.Passed {
			marker = passStyle.Render(passMarkerConstant)
		}
		builder.WriteString(fmt.Sprintf(renderCheckRowTemplate, marker, checkResult.CheckName, checkResult.IssueCount))
		builder.WriteString("\n")
		if len(checkResult.Detail) > 0 {
			builder.WriteString(dimStyle.Render(fmt.Sprintf(renderDetailRowTemplate, checkResult.Detail)))
			builder.WriteString("\n")
		}
	}

	if len(auditReport.CommandSummary) > 0 {
		builder.WriteString("\n")
		builder.WriteString(headerStyle.Render(renderSummaryHeader))
		builder.WriteString("\n")
		for _, platform := range model.Platforms {
			risksForPlatform, found := auditReport.CommandSummary[platform]
			if !found {
				continue
			}
			for _, risk := range model.RiskCategoriesBySeverity {
				count, counted := risksForPlatform[risk]
				if !counted || count == 0 {
					continue
				}
				builder.WriteString(fmt.Sprintf(renderSummaryRowTemplate, platform, risk, count))
				builder.WriteString("\n")
			}
		}
	}

	builder.WriteString("\n")
	if len(auditReport.Repository.CommitHash) > 0 {
		branch := auditReport.Repository.Branch
		if len(branch) == 0 {
			branch = "detached"
		}
		builder.WriteString(dimStyle.Render(fmt.Sprintf(renderRepositoryTemplate, branch, shortHash(auditReport.Repository.CommitHash))))
		builder.WriteString("\n")
	}
	builder.WriteString(dimStyle.Render(fmt.Sprintf(renderTimestampTemplate, auditReport.Timestamp.Format(renderTimestampTimeFormat))))
	builder.WriteString("\n")

	return builder.String()
}

func shortHash(commitHash string) string {
	if len(commitHash) > 12 {
		return commitHash[:12]
	}
	return commitHash
}
