package model

import "errors"

// ErrConfiguration marks an invalid invocation: an unreadable repository
// root, an unknown platform name, an out-of-range threshold, or an unloadable
// configuration file. Commands wrap it so the process exit code can separate
// configuration mistakes from internal failures.
var ErrConfiguration = errors.New("configuration invalid")
