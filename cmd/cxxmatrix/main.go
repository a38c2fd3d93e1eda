// Package main is the entry point for the cxxmatrix CLI.
//
// The binary generates and builds the C++ CI toolchain image matrix.
// All functionality lives in the internal/cli package, which defines
// the cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during release builds; during development they default to "dev",
// "none", and "unknown".
package main

import (
	"github.com/m-okabe/cxxmatrix/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
