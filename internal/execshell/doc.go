// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions audix uses to run
// osv-scanner, gosec, and gitleaks in a testable manner.
package execshell
