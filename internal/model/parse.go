package model

import "strings"

// platformAliases maps accepted flag spellings onto canonical platforms.
var platformAliases = map[string]Platform{
	"posix-shell": PlatformPosixShell,
	"posix":       PlatformPosixShell,
	"bash":        PlatformPosixShell,
	"sh":          PlatformPosixShell,
	"shell":       PlatformPosixShell,
	"windows-cmd": PlatformWindowsCmd,
	"cmd":         PlatformWindowsCmd,
	"batch":       PlatformWindowsCmd,
	"powershell":  PlatformPowerShell,
	"pwsh":        PlatformPowerShell,
	"ps":          PlatformPowerShell,
}

// ParsePlatform resolves a user supplied platform name. The second return
// value reports whether the name was recognized.
func ParsePlatform(value string) (Platform, bool) {
	platform, found := platformAliases[strings.ToLower(strings.TrimSpace(value))]
	return platform, found
}
