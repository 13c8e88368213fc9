package checks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audix/audix/internal/checks"
	"github.com/audix/audix/internal/registry"
)

func writeRepositoryFile(t *testing.T, repositoryRoot string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(repositoryRoot, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

func TestSecurityFilesCheckAllPresent(t *testing.T) {
	repositoryRoot := t.TempDir()
	patternRegistry := registry.NewDefaultRegistry()
	for _, requiredFile := range patternRegistry.RequiredSecurityFiles() {
		writeRepositoryFile(t, repositoryRoot, requiredFile, "content")
	}

	result := checks.NewSecurityFilesCheck(repositoryRoot, patternRegistry).Run(context.Background())

	require.Equal(t, checks.CheckNameSecurityFiles, result.CheckName)
	require.True(t, result.Passed)
	require.Zero(t, result.IssueCount)
	require.Empty(t, result.Detail)
}

func TestSecurityFilesCheckCountsMissingFiles(t *testing.T) {
	repositoryRoot := t.TempDir()
	patternRegistry := registry.NewDefaultRegistry()
	requiredFiles := patternRegistry.RequiredSecurityFiles()
	require.Len(t, requiredFiles, 7)

	// Leave exactly two required files missing.
	for _, requiredFile := range requiredFiles[:len(requiredFiles)-2] {
		writeRepositoryFile(t, repositoryRoot, requiredFile, "content")
	}

	result := checks.NewSecurityFilesCheck(repositoryRoot, patternRegistry).Run(context.Background())

	require.False(t, result.Passed)
	require.Equal(t, 2, result.IssueCount)
	require.Contains(t, result.Detail, requiredFiles[len(requiredFiles)-1])
	require.Contains(t, result.Detail, requiredFiles[len(requiredFiles)-2])
}

func TestSecurityFilesCheckPassesDespiteMalformedYAML(t *testing.T) {
	repositoryRoot := t.TempDir()
	patternRegistry := registry.NewDefaultRegistry()
	for _, requiredFile := range patternRegistry.RequiredSecurityFiles() {
		writeRepositoryFile(t, repositoryRoot, requiredFile, "content")
	}
	writeRepositoryFile(t, repositoryRoot, ".github/dependabot.yml", "{invalid: [unclosed\n")

	result := checks.NewSecurityFilesCheck(repositoryRoot, patternRegistry).Run(context.Background())

	// Presence is what the check scores; parse problems only annotate the detail.
	require.True(t, result.Passed)
	require.Zero(t, result.IssueCount)
	require.Contains(t, result.Detail, "malformed")
	require.Contains(t, result.Detail, ".github/dependabot.yml")
}

func TestSecurityFilesCheckMissingAndMalformedCountsOnlyMissing(t *testing.T) {
	repositoryRoot := t.TempDir()
	patternRegistry := registry.NewDefaultRegistry()
	requiredFiles := patternRegistry.RequiredSecurityFiles()
	for _, requiredFile := range requiredFiles[1:] {
		writeRepositoryFile(t, repositoryRoot, requiredFile, "content")
	}
	writeRepositoryFile(t, repositoryRoot, ".github/dependabot.yml", "{invalid: [unclosed\n")

	result := checks.NewSecurityFilesCheck(repositoryRoot, patternRegistry).Run(context.Background())

	require.False(t, result.Passed)
	require.Equal(t, 1, result.IssueCount)
	require.Contains(t, result.Detail, requiredFiles[0])
	require.Contains(t, result.Detail, "malformed")
}

func TestSecurityFilesCheckHonorsConfiguredList(t *testing.T) {
	repositoryRoot := t.TempDir()
	patternRegistry := registry.NewRegistry(registry.Options{RequiredFiles: []string{"SECURITY.md"}})
	writeRepositoryFile(t, repositoryRoot, "SECURITY.md", "reporting policy")

	result := checks.NewSecurityFilesCheck(repositoryRoot, patternRegistry).Run(context.Background())

	require.True(t, result.Passed)
}
