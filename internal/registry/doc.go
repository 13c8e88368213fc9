// Package registry provides the process-wide read-only tables used by command
// extraction, classification, and secret scanning: secret-detection patterns,
// recognized tool names grouped by behavior, and the required security file list.
package registry
