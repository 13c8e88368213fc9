package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/audix/audix/internal/extraction"
	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
)

const testSourceFileName = "README.md"

func newTestExtractor() *extraction.Extractor {
	return extraction.NewExtractor(registry.NewDefaultRegistry())
}

func TestExtractSingleCommand(t *testing.T) {
	documentText := "# Setup\n\n```bash\npytest -q\n```\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 1)
	require.Equal(t, "pytest -q", commands[0].Text)
	require.Equal(t, model.PlatformPosixShell, commands[0].Platform)
	require.Equal(t, testSourceFileName, commands[0].SourceFile)
	require.Equal(t, 4, commands[0].LineNumber)
}

func TestExtractPlatformFromLanguageTag(t *testing.T) {
	testCases := []struct {
		name             string
		languageTag      string
		commandLine      string
		expectedPlatform model.Platform
	}{
		{name: "bash tag", languageTag: "bash", commandLine: "git status", expectedPlatform: model.PlatformPosixShell},
		{name: "sh tag", languageTag: "sh", commandLine: "ls -la", expectedPlatform: model.PlatformPosixShell},
		{name: "cmd tag", languageTag: "cmd", commandLine: "pip install flask", expectedPlatform: model.PlatformWindowsCmd},
		{name: "batch tag", languageTag: "batch", commandLine: "del output.txt", expectedPlatform: model.PlatformWindowsCmd},
		{name: "powershell tag", languageTag: "powershell", commandLine: "git log", expectedPlatform: model.PlatformPowerShell},
		{name: "untagged defaults to posix", languageTag: "", commandLine: "make test", expectedPlatform: model.PlatformPosixShell},
		{name: "unknown tag defaults to posix", languageTag: "text", commandLine: "go version", expectedPlatform: model.PlatformPosixShell},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			documentText := "```" + testCase.languageTag + "\n" + testCase.commandLine + "\n```\n"

			commands := newTestExtractor().Extract(documentText, testSourceFileName)

			require.Len(t, commands, 1)
			require.Equal(t, testCase.expectedPlatform, commands[0].Platform)
			require.Equal(t, testCase.commandLine, commands[0].Text)
		})
	}
}

func TestExtractJoinsContinuationLines(t *testing.T) {
	testCases := []struct {
		name         string
		documentText string
		expectedText string
	}{
		{
			name:         "posix backslash continuation",
			documentText: "```bash\ncurl -fsSL \\\n  https://example.com/install.sh\n```\n",
			expectedText: "curl -fsSL https://example.com/install.sh",
		},
		{
			name:         "cmd caret continuation",
			documentText: "```cmd\npip install ^\n  flask\n```\n",
			expectedText: "pip install flask",
		},
		{
			name:         "powershell backtick continuation",
			documentText: "```powershell\ngit clone `\n  https://example.com/repo.git\n```\n",
			expectedText: "git clone https://example.com/repo.git",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			commands := newTestExtractor().Extract(testCase.documentText, testSourceFileName)

			require.Len(t, commands, 1)
			require.Equal(t, testCase.expectedText, commands[0].Text)
		})
	}
}

func TestExtractRecoversFromMalformedBlocks(t *testing.T) {
	testCases := []struct {
		name          string
		documentText  string
		expectedTexts []string
	}{
		{
			name:          "unterminated continuation at block end",
			documentText:  "```bash\ngit fetch \\\n```\n",
			expectedTexts: []string{"git fetch"},
		},
		{
			name:          "unterminated fence at end of file",
			documentText:  "```bash\ngit status\n",
			expectedTexts: []string{"git status"},
		},
		{
			name:          "comment only block yields nothing",
			documentText:  "```bash\n# just commentary\n# nothing to run\n```\n",
			expectedTexts: nil,
		},
		{
			name:          "blank only block yields nothing",
			documentText:  "```bash\n\n\n```\n",
			expectedTexts: nil,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			commands := newTestExtractor().Extract(testCase.documentText, testSourceFileName)

			var texts []string
			for _, command := range commands {
				texts = append(texts, command.Text)
			}
			require.Equal(t, testCase.expectedTexts, texts)
		})
	}
}

func TestExtractDropsProseAndComments(t *testing.T) {
	documentText := "```bash\n" +
		"# install dependencies first\n" +
		"Run the following command to begin:\n" +
		"pip install -r requirements.txt\n" +
		"REM_not_a_tool output\n" +
		"./scripts/bootstrap.sh\n" +
		"```\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 2)
	require.Equal(t, "pip install -r requirements.txt", commands[0].Text)
	require.Equal(t, 4, commands[0].LineNumber)
	require.Equal(t, "./scripts/bootstrap.sh", commands[1].Text)
	require.Equal(t, 6, commands[1].LineNumber)
}

func TestExtractWindowsCmdComments(t *testing.T) {
	documentText := "```cmd\n" +
		"REM remove the build directory\n" +
		":: another comment style\n" +
		"del build\n" +
		"```\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 1)
	require.Equal(t, "del build", commands[0].Text)
}

func TestExtractStripsPromptPrefixes(t *testing.T) {
	documentText := "```bash\n$ git status\n```\n\n```powershell\nPS> git log\n```\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 2)
	require.Equal(t, "git status", commands[0].Text)
	require.Equal(t, "git log", commands[1].Text)
}

func TestExtractSkipsLeadingEnvironmentAssignments(t *testing.T) {
	documentText := "```bash\nCGO_ENABLED=0 go build ./...\n```\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 1)
	require.Equal(t, "CGO_ENABLED=0 go build ./...", commands[0].Text)
}

func TestExtractMultipleBlocks(t *testing.T) {
	documentText := "prose before\n" +
		"```bash\ngit status\n```\n" +
		"prose between\n" +
		"~~~cmd\ndel temp.txt\n~~~\n"

	commands := newTestExtractor().Extract(documentText, testSourceFileName)

	require.Len(t, commands, 2)
	require.Equal(t, model.PlatformPosixShell, commands[0].Platform)
	require.Equal(t, model.PlatformWindowsCmd, commands[1].Platform)
}
