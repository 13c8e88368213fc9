package classification

import (
	"strings"

	"github.com/audix/audix/internal/model"
	"github.com/audix/audix/internal/registry"
)

const (
	ruleNameNetworkTool        = "network-tool"
	ruleNamePackageInstall     = "package-install"
	ruleNameGitRemoteOperation = "git-remote-operation"
	ruleNameDockerPull         = "docker-pull"
	ruleNameDestructiveTool    = "destructive-tool"
	ruleNameInPlaceEdit        = "in-place-edit"
	ruleNameOutputRedirection  = "output-redirection"
	ruleNameSandboxedTool      = "sandboxed-tool"
	ruleNameSandboxedSubcmd    = "sandboxed-subcommand"
	ruleNameSafeFallback       = "safe-fallback"

	dockerToolNameConstant        = "docker"
	dockerPullSubcommandConstant  = "pull"
	gitToolNameConstant           = "git"
	sedToolNameConstant           = "sed"
	perlToolNameConstant          = "perl"
	inPlaceEditFlagConstant       = "-i"
	redirectionOperatorConstant   = ">"
	appendRedirectionConstant     = ">>"
	pipeOperatorConstant          = "|"
	commandSeparatorConstant      = "&&"
	shellStatementSeparatorSuffix = ";"
)

// invocation is one tool invocation inside a logical command line. A command
// joined by pipes or separators produces several invocations; rule priority is
// evaluated across all of them, so `curl ... | rm -rf x` classifies network.
type invocation struct {
	tool      string
	arguments []string
}

func (inv invocation) subcommand() string {
	if len(inv.arguments) == 0 {
		return ""
	}
	return inv.arguments[0]
}

func (inv invocation) remainder() string {
	return strings.Join(inv.arguments, " ")
}

// rule pairs a named predicate with the category it assigns.
type rule struct {
	name      string
	category  model.RiskCategory
	predicate func(classifier *Classifier, invocations []invocation, commandText string) bool
}

// Classifier assigns risk categories using the registry's tool tables.
type Classifier struct {
	toolRegistry *registry.Registry
	orderedRules []rule
}

// NewClassifier constructs a classifier backed by the supplied registry.
func NewClassifier(toolRegistry *registry.Registry) *Classifier {
	return &Classifier{
		toolRegistry: toolRegistry,
		orderedRules: orderedRuleList(),
	}
}

// Classify returns command with its risk category and matched rule populated.
// Classification is deterministic: the same text and platform always yield the
// same result.
func (classifier *Classifier) Classify(command model.Command) model.Command {
	invocations := splitInvocations(command.Text)

	classified := command
	for _, candidateRule := range classifier.orderedRules {
		if candidateRule.predicate(classifier, invocations, command.Text) {
			classified.Risk = candidateRule.category
			classified.MatchedRule = candidateRule.name
			return classified
		}
	}

	// Unreachable while the safe fallback stays last, kept so every command
	// leaves with exactly one category.
	classified.Risk = model.RiskSafe
	classified.MatchedRule = ruleNameSafeFallback
	return classified
}

// ClassifyAll classifies every command in order.
func (classifier *Classifier) ClassifyAll(commands []model.Command) []model.Command {
	classified := make([]model.Command, 0, len(commands))
	for _, command := range commands {
		classified = append(classified, classifier.Classify(command))
	}
	return classified
}

// orderedRuleList builds the priority list. Order is the contract: network
// rules precede destructive rules, which precede sandboxed rules, and the safe
// fallback always matches.
func orderedRuleList() []rule {
	return []rule{
		{
			name:     ruleNameNetworkTool,
			category: model.RiskNetwork,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if classifier.toolRegistry.IsNetworkTool(inv.tool) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNamePackageInstall,
			category: model.RiskNetwork,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if classifier.toolRegistry.IsPackageManagerInstall(inv.tool, inv.subcommand()) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameGitRemoteOperation,
			category: model.RiskNetwork,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if equalToolName(inv.tool, gitToolNameConstant) && classifier.toolRegistry.IsGitNetworkSubcommand(inv.subcommand()) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameDockerPull,
			category: model.RiskNetwork,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if equalToolName(inv.tool, dockerToolNameConstant) && strings.EqualFold(inv.subcommand(), dockerPullSubcommandConstant) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameDestructiveTool,
			category: model.RiskDestructive,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if classifier.toolRegistry.IsDestructiveTool(inv.tool) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameInPlaceEdit,
			category: model.RiskDestructive,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					isEditor := equalToolName(inv.tool, sedToolNameConstant) || equalToolName(inv.tool, perlToolNameConstant)
					if !isEditor {
						continue
					}
					for _, argument := range inv.arguments {
						if argument == inPlaceEditFlagConstant || strings.HasPrefix(argument, inPlaceEditFlagConstant) {
							return true
						}
					}
				}
				return false
			},
		},
		{
			name:     ruleNameOutputRedirection,
			category: model.RiskDestructive,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				return containsUnquotedOperator(commandText, redirectionOperatorConstant)
			},
		},
		{
			name:     ruleNameSandboxedTool,
			category: model.RiskSandboxed,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if classifier.toolRegistry.IsSandboxedTool(inv.tool) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameSandboxedSubcmd,
			category: model.RiskSandboxed,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				for _, inv := range invocations {
					if classifier.toolRegistry.IsSandboxedInvocation(inv.tool, inv.remainder()) {
						return true
					}
				}
				return false
			},
		},
		{
			name:     ruleNameSafeFallback,
			category: model.RiskSafe,
			predicate: func(classifier *Classifier, invocations []invocation, commandText string) bool {
				return true
			},
		},
	}
}

// splitInvocations breaks a logical command at pipes and separators so each
// segment's leading tool participates in rule matching.
func splitInvocations(commandText string) []invocation {
	var invocations []invocation

	segmentTokens := []string{}
	flushSegment := func() {
		if len(segmentTokens) == 0 {
			return
		}
		toolIndex := 0
		for toolIndex < len(segmentTokens) && looksLikeEnvironmentAssignment(segmentTokens[toolIndex]) {
			toolIndex++
		}
		if toolIndex < len(segmentTokens) {
			invocations = append(invocations, invocation{
				tool:      segmentTokens[toolIndex],
				arguments: segmentTokens[toolIndex+1:],
			})
		}
		segmentTokens = nil
	}

	for _, token := range strings.Fields(commandText) {
		trimmedToken := strings.TrimSuffix(token, shellStatementSeparatorSuffix)
		switch trimmedToken {
		case pipeOperatorConstant, commandSeparatorConstant, "||", ";":
			flushSegment()
		default:
			segmentTokens = append(segmentTokens, trimmedToken)
			if strings.HasSuffix(token, shellStatementSeparatorSuffix) {
				flushSegment()
			}
		}
	}
	flushSegment()

	return invocations
}

// containsUnquotedOperator reports whether operator appears outside single or
// double quotes. Comparison operators inside quoted strings do not count as
// redirections.
func containsUnquotedOperator(commandText string, operator string) bool {
	insideSingleQuote := false
	insideDoubleQuote := false
	for position := 0; position < len(commandText); position++ {
		switch commandText[position] {
		case '\'':
			if !insideDoubleQuote {
				insideSingleQuote = !insideSingleQuote
			}
		case '"':
			if !insideSingleQuote {
				insideDoubleQuote = !insideDoubleQuote
			}
		default:
			if !insideSingleQuote && !insideDoubleQuote && strings.HasPrefix(commandText[position:], operator) {
				return true
			}
		}
	}
	return false
}

func equalToolName(candidate string, toolName string) bool {
	return strings.EqualFold(strings.TrimSuffix(candidate, ".exe"), toolName)
}

func looksLikeEnvironmentAssignment(token string) bool {
	separatorIndex := strings.Index(token, "=")
	if separatorIndex <= 0 {
		return false
	}
	for _, nameRune := range token[:separatorIndex] {
		isUpper := nameRune >= 'A' && nameRune <= 'Z'
		isDigit := nameRune >= '0' && nameRune <= '9'
		if !isUpper && !isDigit && nameRune != '_' {
			return false
		}
	}
	return true
}
