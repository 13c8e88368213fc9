// Package cli assembles the audix root command, configuration loading, and
// structured logging shared by every subcommand.
package cli
