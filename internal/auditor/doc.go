// Package auditor aggregates security check results and documentation command
// summaries into a single scored audit report, and exposes the audit cobra
// command.
package auditor
