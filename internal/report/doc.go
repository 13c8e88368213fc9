// Package report defines the audit report produced by an audit run, its JSON
// serialization, and the human-readable rendering used when no output path is
// given.
package report
