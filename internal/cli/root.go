// Package cli implements the cobra-based CLI commands for cxxmatrix.
//
// Each subcommand (generate, build, targets, images) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m-okabe/cxxmatrix/internal/catalog"
	"github.com/m-okabe/cxxmatrix/internal/model"
)

// RepoEnvVar overrides the image repository the matrix tags are rooted
// at. Falls back to DefaultRepo when unset.
const RepoEnvVar = "CXXMATRIX_REPO"

// DefaultRepo is the image repository used when RepoEnvVar is not set.
const DefaultRepo = "cxxmatrix/cxx-toolkit"

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself does not perform any action — it only
// provides help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cxxmatrix",
		Short: "C++ CI toolchain image matrix generator and builder",
		Long: `cxxmatrix expands a compiler catalog into a matrix of container build
definitions (one Dockerfile per target plus a compose manifest) and drives
the image builds in parallel batches through docker compose.

Targets cover plain clang and gcc toolchains as well as gcc paired with
CUDA and NVHPC base images, across multiple Ubuntu releases.`,

		// Errors are formatted by Execute, so cobra's own reporting is
		// silenced.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewTargetsCommand())
	rootCmd.AddCommand(NewImagesCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into OS exit
// codes. CLIError instances carry their own code; anything else exits
// with the general error code.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors go to stderr
// in both modes; stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}

// resolveRepo returns the image repository root, honoring the
// environment override.
func resolveRepo() string {
	if repo := os.Getenv(RepoEnvVar); repo != "" {
		return repo
	}
	return DefaultRepo
}

// loadCatalog returns the catalog to operate on: the file at configPath
// when given, the built-in table otherwise.
func loadCatalog(configPath string) (catalog.Catalog, error) {
	if configPath == "" {
		return catalog.Default(), nil
	}

	VerboseLog("Loading catalog from %s", configPath)
	return catalog.Load(configPath)
}
