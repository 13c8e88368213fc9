// Package extraction locates fenced code blocks in documentation files, splits
// them into logical command lines, and discards commentary so the classifier
// only sees command candidates. Malformed input never produces an error; the
// extractor recovers locally and emits what it accumulated.
package extraction
