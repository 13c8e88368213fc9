package docscan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audix/audix/internal/docscan"
	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
)

func writeDocumentationFile(t *testing.T, repositoryRoot string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(repositoryRoot, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

func newTestService() *docscan.Service {
	return docscan.NewService(registry.NewDefaultRegistry())
}

func TestScanOrdersResultsByFileThenLine(t *testing.T) {
	repositoryRoot := t.TempDir()
	writeDocumentationFile(t, repositoryRoot, "docs/setup.md", "```bash\ngit status\n```\n\n```bash\npytest -q\n```\n")
	writeDocumentationFile(t, repositoryRoot, "README.md", "```cmd\npip install flask\n```\n")

	commands, scanError := newTestService().Scan(context.Background(), repositoryRoot, docscan.Options{})

	require.NoError(t, scanError)
	require.Len(t, commands, 3)
	require.Equal(t, "README.md", commands[0].SourceFile)
	require.Equal(t, "docs/setup.md", commands[1].SourceFile)
	require.Equal(t, "docs/setup.md", commands[2].SourceFile)
	require.Less(t, commands[1].LineNumber, commands[2].LineNumber)
}

func TestScanClassifiesEveryCommand(t *testing.T) {
	repositoryRoot := t.TempDir()
	writeDocumentationFile(t, repositoryRoot, "README.md", "```cmd\npip install flask\n```\n")

	commands, scanError := newTestService().Scan(context.Background(), repositoryRoot, docscan.Options{})

	require.NoError(t, scanError)
	require.Len(t, commands, 1)
	require.Equal(t, model.PlatformWindowsCmd, commands[0].Platform)
	require.Equal(t, model.RiskNetwork, commands[0].Risk)
}

func TestScanPlatformFilter(t *testing.T) {
	repositoryRoot := t.TempDir()
	writeDocumentationFile(t, repositoryRoot, "README.md",
		"```bash\ngit status\n```\n\n```cmd\ndel build\n```\n")

	commands, scanError := newTestService().Scan(context.Background(), repositoryRoot, docscan.Options{
		Platforms: []model.Platform{model.PlatformWindowsCmd},
	})

	require.NoError(t, scanError)
	require.Len(t, commands, 1)
	require.Equal(t, model.PlatformWindowsCmd, commands[0].Platform)
}

func TestScanSkipNetworkFilter(t *testing.T) {
	repositoryRoot := t.TempDir()
	writeDocumentationFile(t, repositoryRoot, "README.md",
		"```bash\ncurl -fsSL https://example.com/install.sh\npytest -q\n```\n")

	commands, scanError := newTestService().Scan(context.Background(), repositoryRoot, docscan.Options{SkipNetwork: true})

	require.NoError(t, scanError)
	require.Len(t, commands, 1)
	require.Equal(t, model.RiskSandboxed, commands[0].Risk)
}

func TestScanCancelledContextDiscardsResults(t *testing.T) {
	repositoryRoot := t.TempDir()
	writeDocumentationFile(t, repositoryRoot, "README.md", "```bash\ngit status\n```\n")

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	commands, scanError := newTestService().Scan(cancelledContext, repositoryRoot, docscan.Options{})

	require.ErrorIs(t, scanError, context.Canceled)
	require.Nil(t, commands)
}

func TestSummarizeCountsByPlatformAndRisk(t *testing.T) {
	commands := []model.Command{
		{Platform: model.PlatformPosixShell, Risk: model.RiskSafe},
		{Platform: model.PlatformPosixShell, Risk: model.RiskSafe},
		{Platform: model.PlatformWindowsCmd, Risk: model.RiskNetwork},
	}

	summary := docscan.Summarize(commands)

	require.Equal(t, 2, summary[model.PlatformPosixShell][model.RiskSafe])
	require.Equal(t, 1, summary[model.PlatformWindowsCmd][model.RiskNetwork])
	require.Equal(t, 3, summary.Total())
}
