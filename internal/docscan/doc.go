// Package docscan walks a repository's documentation files and runs command
// extraction and classification over them, one concurrent task per file, with
// deterministic result ordering.
package docscan
