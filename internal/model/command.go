package model

// Platform identifies the shell dialect a documentation command targets.
type Platform string

// Supported platform values.
const (
	PlatformPosixShell Platform = "posix-shell"
	PlatformWindowsCmd Platform = "windows-cmd"
	PlatformPowerShell Platform = "powershell"
)

// RiskCategory classifies a command by its potential side effect. Reporting
// orders categories most severe first; a command holds exactly one category.
type RiskCategory string

// Supported risk categories, most severe first.
const (
	RiskNetwork     RiskCategory = "network"
	RiskDestructive RiskCategory = "destructive"
	RiskSandboxed   RiskCategory = "sandboxed"
	RiskSafe        RiskCategory = "safe"
)

// RiskCategoriesBySeverity lists every category in reporting order.
var RiskCategoriesBySeverity = []RiskCategory{
	RiskNetwork,
	RiskDestructive,
	RiskSandboxed,
	RiskSafe,
}

// Platforms lists every supported platform in reporting order.
var Platforms = []Platform{
	PlatformPosixShell,
	PlatformWindowsCmd,
	PlatformPowerShell,
}

// Command is one logical command extracted from documentation. Instances are
// immutable once classified; duplicates across files are distinct entities.
type Command struct {
	Text        string       `json:"text"`
	Platform    Platform     `json:"platform"`
	Risk        RiskCategory `json:"risk"`
	MatchedRule string       `json:"matched_rule,omitempty"`
	SourceFile  string       `json:"source_file"`
	LineNumber  int          `json:"line_number"`
}

// Summary counts classified commands by platform and risk category.
type Summary map[Platform]map[RiskCategory]int

// Add records one classified command in the summary.
func (summary Summary) Add(platform Platform, risk RiskCategory) {
	risksForPlatform, found := summary[platform]
	if !found {
		risksForPlatform = map[RiskCategory]int{}
		summary[platform] = risksForPlatform
	}
	risksForPlatform[risk]++
}

// Total returns the number of commands recorded in the summary.
func (summary Summary) Total() int {
	total := 0
	for _, risksForPlatform := range summary {
		for _, count := range risksForPlatform {
			total += count
		}
	}
	return total
}
