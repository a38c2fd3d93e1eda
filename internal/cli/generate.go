// Package cli — generate.go implements the "cxxmatrix generate" command.
//
// The generate command expands the catalog into the full target matrix
// and writes one Dockerfile per target plus the compose manifest into
// the output directory. Generation is idempotent: an unchanged catalog
// produces byte-identical artifacts on every run.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m-okabe/cxxmatrix/internal/compose"
	"github.com/m-okabe/cxxmatrix/internal/dockerfile"
	"github.com/m-okabe/cxxmatrix/internal/matrix"
	"github.com/m-okabe/cxxmatrix/internal/model"
)

// generateFlags holds the flag values for the generate command.
type generateFlags struct {
	// output is the directory the artifacts are written into.
	output string

	// config is an optional JSONC catalog file replacing the built-in
	// table.
	config string
}

// generateResult summarizes one generation run for output formatting.
type generateResult struct {
	OutputDir    string   `json:"outputDir"`
	ManifestPath string   `json:"manifestPath"`
	TargetCount  int      `json:"targetCount"`
	Dockerfiles  []string `json:"dockerfiles"`
}

// NewGenerateCommand creates the "generate" cobra command.
func NewGenerateCommand() *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Dockerfiles and the compose manifest for the matrix",
		Long: `Generate one Dockerfile per build target plus a docker-compose.yml
manifest naming every target image.

The built-in catalog covers the supported Ubuntu releases with their
clang, gcc, CUDA and NVHPC versions; pass --config to replace it with a
JSONC catalog file.

Examples:
  cxxmatrix generate
  cxxmatrix generate --output ./images
  cxxmatrix generate --config ci/catalog.jsonc --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", ".", "Directory to write the generated artifacts into")
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "JSONC catalog file replacing the built-in catalog")

	return cmd
}

// runGenerate is the main logic function for the generate command.
func runGenerate(flags *generateFlags) error {
	targets, err := enumerateTargets(flags.config)
	if err != nil {
		return err
	}

	result, err := generateArtifacts(flags.output, targets)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return printGenerateResultJSON(result)
	}
	printGenerateResultText(result)
	return nil
}

// enumerateTargets loads the catalog and expands it into the target
// list shared by the generate, build and targets commands.
func enumerateTargets(configPath string) ([]model.Target, error) {
	c, err := loadCatalog(configPath)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	targets := matrix.Expand(c)
	VerboseLog("Catalog expands to %d targets across %d OS versions", len(targets), len(c))
	return targets, nil
}

// generateArtifacts writes every Dockerfile and the manifest into
// outputDir.
func generateArtifacts(outputDir string, targets []model.Target) (*generateResult, error) {
	result := &generateResult{
		OutputDir:   outputDir,
		TargetCount: len(targets),
	}

	for _, target := range targets {
		path, err := dockerfile.WriteTarget(outputDir, target)
		if err != nil {
			return nil, err
		}
		VerboseLog("Wrote %s", path)
		result.Dockerfiles = append(result.Dockerfiles, path)
	}

	manifestPath, err := compose.Write(outputDir, targets, resolveRepo())
	if err != nil {
		return nil, err
	}
	VerboseLog("Wrote %s", manifestPath)
	result.ManifestPath = manifestPath

	return result, nil
}

// printGenerateResultText prints a human-readable generation summary.
func printGenerateResultText(result *generateResult) {
	fmt.Printf("Generated %d Dockerfiles in %s\n", len(result.Dockerfiles), result.OutputDir)
	fmt.Printf("Manifest: %s\n", result.ManifestPath)
}

// printGenerateResultJSON prints the generation summary as JSON.
func printGenerateResultJSON(result *generateResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
