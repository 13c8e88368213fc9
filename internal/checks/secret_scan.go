package checks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/audix/audix/internal/registry"
)

const (
	maximumScannedFileSizeBytes = 1 << 20

	secretMatchesDetailTemplateConstant = "%d secret pattern match(es), first in %s (%s)"
	scanFailureDetailTemplateConstant   = "scan aborted: %v"
	testdataDirectoryNameConstant       = "testdata"
	gitDirectoryNameConstant            = ".git"
)

// Directories whose contents never reach the secret scanner.
var skippedDirectoryNames = map[string]struct{}{
	gitDirectoryNameConstant: {},
	"node_modules":           {},
	"vendor":                 {},
	".idea":                  {},
	".vscode":                {},
}

// Extensions treated as binary and skipped.
var skippedFileExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {},
	".pdf": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".jar": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".bin": {},
	".woff": {}, ".woff2": {}, ".ttf": {},
}

// secretMatch records one pattern hit with provenance.
type secretMatch struct {
	PatternID  string
	SourceFile string
}

// SecretScanCheck applies every registered secret pattern across repository
// source and documentation text. Test fixture trees are excluded here; the
// test-data-safety check owns them.
type SecretScanCheck struct {
	repositoryRoot string
	registry       *registry.Registry
}

// NewSecretScanCheck constructs the repository-wide secret scan.
func NewSecretScanCheck(repositoryRoot string, patternRegistry *registry.Registry) *SecretScanCheck {
	return &SecretScanCheck{repositoryRoot: repositoryRoot, registry: patternRegistry}
}

// Name implements Check.
func (check *SecretScanCheck) Name() string { return CheckNameSecretScan }

// Weight implements Check.
func (check *SecretScanCheck) Weight() float64 { return WeightSecretScan }

// Run implements Check.
func (check *SecretScanCheck) Run(executionContext context.Context) CheckResult {
	matches, scanError := scanTreeForSecrets(executionContext, check.repositoryRoot, check.registry.SecretPatterns(), false)
	return buildSecretScanResult(check.Name(), check.Weight(), matches, scanError)
}

// ScanText applies every registered pattern to the provided text and returns
// the number of matches. Used for scanning strings that never touch disk.
func (check *SecretScanCheck) ScanText(text string) int {
	matchCount := 0
	for _, pattern := range check.registry.SecretPatterns() {
		matchCount += len(pattern.Expression.FindAllStringIndex(text, -1))
	}
	return matchCount
}

// scanTreeForSecrets walks the repository and applies every pattern to each
// text file. When fixturesOnly is set, only testdata trees are scanned;
// otherwise testdata trees are skipped.
func scanTreeForSecrets(executionContext context.Context, repositoryRoot string, patterns []registry.SecretPattern, fixturesOnly bool) ([]secretMatch, error) {
	var matches []secretMatch

	walkError := filepath.WalkDir(repositoryRoot, func(candidatePath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			// Unreadable entries are skipped, not fatal: the scan reports on
			// what it can read.
			return nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		if directoryEntry.IsDir() {
			if _, skipped := skippedDirectoryNames[directoryEntry.Name()]; skipped {
				return filepath.SkipDir
			}
			if !fixturesOnly && directoryEntry.Name() == testdataDirectoryNameConstant {
				return filepath.SkipDir
			}
			return nil
		}

		if fixturesOnly && !pathContainsDirectory(candidatePath, testdataDirectoryNameConstant) {
			return nil
		}

		extension := strings.ToLower(filepath.Ext(candidatePath))
		if _, skipped := skippedFileExtensions[extension]; skipped {
			return nil
		}

		fileInformation, infoError := directoryEntry.Info()
		if infoError != nil || fileInformation.Size() > maximumScannedFileSizeBytes {
			return nil
		}

		fileContent, readError := os.ReadFile(candidatePath)
		if readError != nil {
			return nil
		}

		fileText := string(fileContent)
		relativePath, relativeError := filepath.Rel(repositoryRoot, candidatePath)
		if relativeError != nil {
			relativePath = candidatePath
		}
		for _, pattern := range patterns {
			for range pattern.Expression.FindAllStringIndex(fileText, -1) {
				matches = append(matches, secretMatch{PatternID: pattern.ID, SourceFile: filepath.ToSlash(relativePath)})
			}
		}
		return nil
	})

	return matches, walkError
}

func buildSecretScanResult(checkName string, weight float64, matches []secretMatch, scanError error) CheckResult {
	result := CheckResult{
		CheckName:  checkName,
		Weight:     weight,
		IssueCount: len(matches),
		Passed:     scanError == nil && len(matches) == 0,
	}
	switch {
	case scanError != nil:
		result.Detail = fmt.Sprintf(scanFailureDetailTemplateConstant, scanError)
	case len(matches) > 0:
		result.Detail = fmt.Sprintf(secretMatchesDetailTemplateConstant, len(matches), matches[0].SourceFile, matches[0].PatternID)
	}
	return result
}

func pathContainsDirectory(candidatePath string, directoryName string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(candidatePath), "/") {
		if segment == directoryName {
			return true
		}
	}
	return false
}
