package registry

import (
	"sort"
	"strings"
)

// DefaultRequiredSecurityFiles lists the repository paths every audited
// repository is expected to carry. The list is configuration data: callers may
// replace it through Options, and the audit report records which entries were
// missing rather than assuming this exact set.
var DefaultRequiredSecurityFiles = []string{
	"SECURITY.md",
	".gitignore",
	".gitleaks.toml",
	".gitleaksignore",
	".github/dependabot.yml",
	".github/workflows/security.yml",
	".github/codeql/codeql-config.yml",
}

// Registry is an immutable snapshot of the lookup tables shared by the
// extraction, classification, and checks packages. Construct it once at
// startup and pass it by reference; it is never mutated afterwards.
type Registry struct {
	secretPatterns        []SecretPattern
	requiredFiles         []string
	invocationTools       map[string]struct{}
	networkTools          map[string]struct{}
	packageManagers       map[string]struct{}
	installVerbs          map[string]struct{}
	gitNetworkSubcommands map[string]struct{}
	destructiveTools      map[string]struct{}
	sandboxedTools        map[string]struct{}
	sandboxedSubcommands  map[string][]string
}

// Options overrides selected registry tables; zero-value fields keep defaults.
type Options struct {
	SecretPatterns []SecretPattern
	RequiredFiles  []string
}

// NewRegistry builds a registry snapshot from the built-in tables and the
// supplied overrides.
func NewRegistry(options Options) *Registry {
	secretPatterns := options.SecretPatterns
	if secretPatterns == nil {
		secretPatterns = DefaultSecretPatterns()
	}

	requiredFiles := options.RequiredFiles
	if requiredFiles == nil {
		requiredFiles = append([]string{}, DefaultRequiredSecurityFiles...)
	}

	return &Registry{
		secretPatterns:        secretPatterns,
		requiredFiles:         requiredFiles,
		invocationTools:       toSet(defaultInvocationTools),
		networkTools:          toSet(defaultNetworkTools),
		packageManagers:       toSet(defaultPackageManagers),
		installVerbs:          toSet(defaultInstallVerbs),
		gitNetworkSubcommands: toSet(defaultGitNetworkSubcommands),
		destructiveTools:      toSet(defaultDestructiveTools),
		sandboxedTools:        toSet(defaultSandboxedTools),
		sandboxedSubcommands:  defaultSandboxedSubcommands,
	}
}

// NewDefaultRegistry builds a registry snapshot with no overrides.
func NewDefaultRegistry() *Registry {
	return NewRegistry(Options{})
}

// SecretPatterns returns the secret detection table in declaration order.
func (registrySnapshot *Registry) SecretPatterns() []SecretPattern {
	duplicated := make([]SecretPattern, len(registrySnapshot.secretPatterns))
	copy(duplicated, registrySnapshot.secretPatterns)
	return duplicated
}

// RequiredSecurityFiles returns the expected repository file list.
func (registrySnapshot *Registry) RequiredSecurityFiles() []string {
	duplicated := make([]string, len(registrySnapshot.requiredFiles))
	copy(duplicated, registrySnapshot.requiredFiles)
	return duplicated
}

// IsInvocationTool reports whether token names a recognized CLI tool.
func (registrySnapshot *Registry) IsInvocationTool(token string) bool {
	_, found := registrySnapshot.invocationTools[normalizeToken(token)]
	return found
}

// IsNetworkTool reports whether token names a direct HTTP client tool.
func (registrySnapshot *Registry) IsNetworkTool(token string) bool {
	_, found := registrySnapshot.networkTools[normalizeToken(token)]
	return found
}

// IsPackageManagerInstall reports whether tool plus subcommand forms a
// package-installation invocation.
func (registrySnapshot *Registry) IsPackageManagerInstall(tool string, subcommand string) bool {
	if _, isManager := registrySnapshot.packageManagers[normalizeToken(tool)]; !isManager {
		return false
	}
	_, isInstall := registrySnapshot.installVerbs[normalizeToken(subcommand)]
	return isInstall
}

// IsGitNetworkSubcommand reports whether subcommand makes git touch a remote.
func (registrySnapshot *Registry) IsGitNetworkSubcommand(subcommand string) bool {
	_, found := registrySnapshot.gitNetworkSubcommands[normalizeToken(subcommand)]
	return found
}

// IsDestructiveTool reports whether token names a file or directory mutation primitive.
func (registrySnapshot *Registry) IsDestructiveTool(token string) bool {
	_, found := registrySnapshot.destructiveTools[normalizeToken(token)]
	return found
}

// IsSandboxedTool reports whether token names an isolated test or bootstrap tool.
func (registrySnapshot *Registry) IsSandboxedTool(token string) bool {
	_, found := registrySnapshot.sandboxedTools[normalizeToken(token)]
	return found
}

// IsSandboxedInvocation reports whether tool with the given argument remainder
// forms a test-runner or environment-bootstrap invocation.
func (registrySnapshot *Registry) IsSandboxedInvocation(tool string, remainder string) bool {
	phrases, found := registrySnapshot.sandboxedSubcommands[normalizeToken(tool)]
	if !found {
		return false
	}
	trimmedRemainder := strings.TrimSpace(remainder)
	for _, phrase := range phrases {
		if strings.HasPrefix(trimmedRemainder, phrase) {
			return true
		}
	}
	return false
}

// InvocationTools returns the recognized tool names sorted alphabetically.
func (registrySnapshot *Registry) InvocationTools() []string {
	tools := make([]string, 0, len(registrySnapshot.invocationTools))
	for tool := range registrySnapshot.invocationTools {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	return tools
}

func normalizeToken(token string) string {
	normalized := strings.ToLower(strings.TrimSpace(token))
	normalized = strings.TrimSuffix(normalized, ".exe")
	return normalized
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}
