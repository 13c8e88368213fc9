package registry

var defaultInvocationTools = []string{
	"apt",
	"apt-get",
	"bash",
	"brew",
	"bundle",
	"cargo",
	"cat",
	"cd",
	"choco",
	"cp",
	"copy",
	"curl",
	"dd",
	"del",
	"docker",
	"docker-compose",
	"dotnet",
	"echo",
	"gem",
	"git",
	"gitleaks",
	"go",
	"gosec",
	"gradle",
	"helm",
	"kubectl",
	"ls",
	"make",
	"md",
	"mkdir",
	"move",
	"mv",
	"mvn",
	"node",
	"npm",
	"npx",
	"osv-scanner",
	"perl",
	"pip",
	"pip3",
	"powershell",
	"pwsh",
	"pytest",
	"python",
	"python3",
	"rd",
	"rm",
	"rmdir",
	"robocopy",
	"ruby",
	"sed",
	"sh",
	"terraform",
	"tox",
	"truncate",
	"virtualenv",
	"wget",
	"winget",
}

var defaultNetworkTools = []string{
	"curl",
	"wget",
}

var defaultPackageManagers = []string{
	"apt",
	"apt-get",
	"brew",
	"bundle",
	"cargo",
	"choco",
	"gem",
	"go",
	"npm",
	"npx",
	"pip",
	"pip3",
	"winget",
}

var defaultInstallVerbs = []string{
	"add",
	"ci",
	"download",
	"get",
	"install",
	"update",
	"upgrade",
}

var defaultGitNetworkSubcommands = []string{
	"clone",
	"fetch",
	"pull",
	"push",
}

var defaultDestructiveTools = []string{
	"dd",
	"del",
	"md",
	"mkdir",
	"move",
	"mv",
	"rd",
	"rm",
	"rmdir",
	"robocopy",
	"shred",
	"truncate",
}

var defaultSandboxedTools = []string{
	"pytest",
	"tox",
	"virtualenv",
}

var defaultSandboxedSubcommands = map[string][]string{
	"cargo":   {"test"},
	"docker":  {"run"},
	"go":      {"test", "vet"},
	"make":    {"test", "check"},
	"npm":     {"test"},
	"python":  {"-m venv", "-m virtualenv", "-m pytest"},
	"python3": {"-m venv", "-m virtualenv", "-m pytest"},
}
