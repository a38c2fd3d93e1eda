// Package cli — build.go implements the "cxxmatrix build" command.
//
// The build command generates the matrix artifacts (unless told not to)
// and then drives the image builds batch by batch through docker
// compose. A daemon preflight runs before the first batch so a stopped
// Docker fails fast.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m-okabe/cxxmatrix/internal/builder"
	"github.com/m-okabe/cxxmatrix/internal/docker"
	"github.com/m-okabe/cxxmatrix/internal/matrix"
)

// buildFlags holds the flag values for the build command.
type buildFlags struct {
	output     string
	config     string
	noGenerate bool
	keepGoing  bool
	dryRun     bool
}

// buildResult summarizes one build run for output formatting.
type buildResult struct {
	BatchCount int                   `json:"batchCount"`
	Batches    []builder.BatchResult `json:"batches"`
}

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build every matrix image in parallel batches",
		Long: `Build the full image matrix. Artifacts are regenerated first unless
--no-generate is given, then each batch runs as one
"docker compose build --force-rm --parallel" invocation.

Batches run sequentially per OS version in the order: primary, clang,
gcc, gcc-cuda, gcc-nvhpc. By default the first failed batch aborts the
run; --keep-going finishes the remaining batches and reports every
failure at the end.

Examples:
  cxxmatrix build
  cxxmatrix build --output ./images --keep-going
  cxxmatrix build --dry-run`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", ".", "Directory holding (or receiving) the generated artifacts")
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "JSONC catalog file replacing the built-in catalog")
	cmd.Flags().BoolVar(&flags.noGenerate, "no-generate", false, "Build from existing artifacts without regenerating them")
	cmd.Flags().BoolVar(&flags.keepGoing, "keep-going", false, "Run all batches even when one fails")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the batch commands without executing them")

	return cmd
}

// runBuild is the main logic function for the build command.
func runBuild(ctx context.Context, flags *buildFlags) error {
	targets, err := enumerateTargets(flags.config)
	if err != nil {
		return err
	}

	if !flags.noGenerate {
		if _, err := generateArtifacts(flags.output, targets); err != nil {
			return err
		}
		VerboseLog("Artifacts regenerated in %s", flags.output)
	}

	// Preflight: a stopped daemon should fail before the first batch,
	// not twenty minutes into it. Pointless for a dry run.
	if !flags.dryRun {
		cli, err := docker.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = cli.Close() }()

		if err := cli.Ping(ctx); err != nil {
			return err
		}
		VerboseLog("Docker daemon is responding")
	}

	batches := matrix.Batches(targets)
	VerboseLog("Running %d build batches", len(batches))

	driver := &builder.Driver{
		Dir:       flags.output,
		KeepGoing: flags.keepGoing,
		DryRun:    flags.dryRun,
	}
	if IsJSONOutput() {
		// Keep stdout clean for the JSON document; progress lines go to
		// stderr instead.
		driver.Out = os.Stderr
	}

	results, runErr := driver.Run(ctx, batches)

	result := &buildResult{BatchCount: len(results), Batches: results}
	if IsJSONOutput() {
		if err := printBuildResultJSON(result); err != nil {
			return err
		}
	} else {
		printBuildResultText(result)
	}

	// The batch error outranks output formatting: it carries the exit
	// code for the whole run.
	return runErr
}

// printBuildResultText prints a per-batch summary.
func printBuildResultText(result *buildResult) {
	for _, batch := range result.Batches {
		status := "ok"
		if !batch.Succeeded {
			status = "FAILED"
		}
		fmt.Printf("%-10s ubuntu%-8s %3d services  %s\n", batch.Kind, batch.OSVersion, len(batch.Services), status)
	}
	fmt.Printf("%d batches run\n", result.BatchCount)
}

// printBuildResultJSON prints the build summary as JSON.
func printBuildResultJSON(result *buildResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
