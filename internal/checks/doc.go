// Package checks implements the fixed battery of repository security checks:
// required-file presence, secret-pattern scanning over sources and test
// fixtures, and the external dependency, lint, and git-history scanners. Each
// check is a value implementing the Check interface so the runner can apply
// uniform timeout, cancellation, and isolation handling.
package checks
