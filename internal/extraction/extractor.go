package extraction

import (
	"strings"

	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
)

const (
	backtickFenceMarkerConstant    = "```"
	tildeFenceMarkerConstant       = "~~~"
	posixContinuationMarker        = `\`
	powerShellContinuationMarker   = "`"
	windowsCmdContinuationMarker   = "^"
	posixCommentPrefixConstant     = "#"
	windowsCmdCommentPrefix        = "rem"
	windowsCmdLabelCommentPrefix   = "::"
	posixPromptPrefixConstant      = "$ "
	powerShellPromptPrefixConstant = "PS> "
	environmentAssignmentSeparator = "="
	currentDirectoryPrefixPosix    = "./"
	currentDirectoryPrefixWindows  = `.\`
)

// fenceLanguagePlatforms maps fence language tags to platforms. Untagged
// blocks default to the POSIX shell.
var fenceLanguagePlatforms = map[string]model.Platform{
	"bash":       model.PlatformPosixShell,
	"sh":         model.PlatformPosixShell,
	"shell":      model.PlatformPosixShell,
	"zsh":        model.PlatformPosixShell,
	"console":    model.PlatformPosixShell,
	"cmd":        model.PlatformWindowsCmd,
	"bat":        model.PlatformWindowsCmd,
	"batch":      model.PlatformWindowsCmd,
	"dos":        model.PlatformWindowsCmd,
	"powershell": model.PlatformPowerShell,
	"ps":         model.PlatformPowerShell,
	"ps1":        model.PlatformPowerShell,
	"pwsh":       model.PlatformPowerShell,
}

// Extractor scans documentation text for fenced command candidates.
type Extractor struct {
	toolRegistry *registry.Registry
}

// NewExtractor constructs an extractor backed by the supplied registry.
func NewExtractor(toolRegistry *registry.Registry) *Extractor {
	return &Extractor{toolRegistry: toolRegistry}
}

// Extract returns the ordered command candidates found in documentText. The
// returned commands carry sourceFile provenance and 1-based line numbers; the
// risk field is left empty for the classifier to fill.
func (extractor *Extractor) Extract(documentText string, sourceFile string) []model.Command {
	var commands []model.Command

	lines := strings.Split(documentText, "\n")

	insideBlock := false
	var blockFenceMarker string
	var blockPlatform model.Platform
	var pendingText strings.Builder
	pendingStartLine := 0

	flushPending := func() {
		if pendingText.Len() == 0 {
			return
		}
		candidateText := strings.TrimSpace(pendingText.String())
		pendingText.Reset()
		if len(candidateText) == 0 {
			return
		}
		if !extractor.looksLikeCommand(candidateText) {
			return
		}
		commands = append(commands, model.Command{
			Text:       candidateText,
			Platform:   blockPlatform,
			SourceFile: sourceFile,
			LineNumber: pendingStartLine,
		})
	}

	for lineIndex, rawLine := range lines {
		lineNumber := lineIndex + 1
		trimmedLine := strings.TrimSpace(rawLine)

		if !insideBlock {
			fenceMarker, languageTag, isFence := parseFenceLine(trimmedLine)
			if isFence {
				insideBlock = true
				blockFenceMarker = fenceMarker
				blockPlatform = platformForLanguageTag(languageTag)
			}
			continue
		}

		if isClosingFence(trimmedLine, blockFenceMarker) {
			// An unterminated continuation at block end still emits the
			// accumulated command.
			flushPending()
			insideBlock = false
			continue
		}

		contentLine := stripPromptPrefix(trimmedLine)

		if pendingText.Len() == 0 {
			if len(contentLine) == 0 || isCommentLine(contentLine, blockPlatform) {
				continue
			}
			pendingStartLine = lineNumber
		}

		continued, withoutMarker := splitContinuation(contentLine, blockPlatform)
		if pendingText.Len() > 0 {
			pendingText.WriteString(" ")
		}
		pendingText.WriteString(withoutMarker)
		if continued {
			continue
		}
		flushPending()
	}

	// Unterminated fence at end of document closes the block.
	if insideBlock {
		flushPending()
	}

	return commands
}

// looksLikeCommand applies the prose heuristic: after skipping leading
// environment assignments, the first token must name a recognized tool or a
// relative executable path.
func (extractor *Extractor) looksLikeCommand(candidateText string) bool {
	tokens := strings.Fields(candidateText)
	for _, token := range tokens {
		if isEnvironmentAssignment(token) {
			continue
		}
		if strings.HasPrefix(token, currentDirectoryPrefixPosix) || strings.HasPrefix(token, currentDirectoryPrefixWindows) {
			return true
		}
		return extractor.toolRegistry.IsInvocationTool(token)
	}
	return false
}

func parseFenceLine(trimmedLine string) (fenceMarker string, languageTag string, isFence bool) {
	for _, marker := range []string{backtickFenceMarkerConstant, tildeFenceMarkerConstant} {
		if strings.HasPrefix(trimmedLine, marker) {
			remainder := strings.TrimLeft(trimmedLine, string(marker[0]))
			return marker, strings.ToLower(strings.TrimSpace(remainder)), true
		}
	}
	return "", "", false
}

func isClosingFence(trimmedLine string, fenceMarker string) bool {
	if !strings.HasPrefix(trimmedLine, fenceMarker) {
		return false
	}
	return len(strings.TrimLeft(trimmedLine, string(fenceMarker[0]))) == 0
}

func platformForLanguageTag(languageTag string) model.Platform {
	if platform, found := fenceLanguagePlatforms[languageTag]; found {
		return platform
	}
	return model.PlatformPosixShell
}

func stripPromptPrefix(line string) string {
	if strings.HasPrefix(line, posixPromptPrefixConstant) {
		return strings.TrimSpace(strings.TrimPrefix(line, posixPromptPrefixConstant))
	}
	if strings.HasPrefix(line, powerShellPromptPrefixConstant) {
		return strings.TrimSpace(strings.TrimPrefix(line, powerShellPromptPrefixConstant))
	}
	return line
}

func isCommentLine(line string, platform model.Platform) bool {
	switch platform {
	case model.PlatformWindowsCmd:
		lowered := strings.ToLower(line)
		if strings.HasPrefix(lowered, windowsCmdLabelCommentPrefix) {
			return true
		}
		return lowered == windowsCmdCommentPrefix || strings.HasPrefix(lowered, windowsCmdCommentPrefix+" ")
	default:
		return strings.HasPrefix(line, posixCommentPrefixConstant)
	}
}

// splitContinuation reports whether line ends with the platform's continuation
// marker and returns the line with any marker removed.
func splitContinuation(line string, platform model.Platform) (continued bool, withoutMarker string) {
	markers := []string{posixContinuationMarker}
	switch platform {
	case model.PlatformWindowsCmd:
		markers = []string{windowsCmdContinuationMarker}
	case model.PlatformPowerShell:
		markers = []string{posixContinuationMarker, powerShellContinuationMarker}
	}

	for _, marker := range markers {
		if strings.HasSuffix(line, marker) {
			return true, strings.TrimSpace(strings.TrimSuffix(line, marker))
		}
	}
	return false, line
}

func isEnvironmentAssignment(token string) bool {
	separatorIndex := strings.Index(token, environmentAssignmentSeparator)
	if separatorIndex <= 0 {
		return false
	}
	name := token[:separatorIndex]
	for _, nameRune := range name {
		isUpper := nameRune >= 'A' && nameRune <= 'Z'
		isDigit := nameRune >= '0' && nameRune <= '9'
		if !isUpper && !isDigit && nameRune != '_' {
			return false
		}
	}
	return true
}
