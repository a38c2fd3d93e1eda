// Package cli — targets.go implements the "cxxmatrix targets" command.
//
// The targets command prints the enumerated matrix without touching the
// filesystem or the Docker daemon. It exists for catalog inspection:
// piping it through --json gives CI scripts the exact service names and
// image tags a build run would produce.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

// targetsFlags holds the flag values for the targets command.
type targetsFlags struct {
	config string
	kind   string
}

// targetRow is one line of targets output.
type targetRow struct {
	Service   string `json:"service"`
	Kind      string `json:"kind"`
	OSVersion string `json:"osVersion"`
	BaseImage string `json:"baseImage"`
	ImageTag  string `json:"imageTag"`
}

// NewTargetsCommand creates the "targets" cobra command.
func NewTargetsCommand() *cobra.Command {
	flags := &targetsFlags{}

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the build targets the catalog expands to",
		Long: `List every build target of the matrix, without generating or building
anything.

Examples:
  cxxmatrix targets
  cxxmatrix targets --kind gcc-cuda
  cxxmatrix targets --config ci/catalog.jsonc --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "JSONC catalog file replacing the built-in catalog")
	cmd.Flags().StringVarP(&flags.kind, "kind", "k", "", "Only show targets of one kind: primary, clang, gcc, gcc-cuda, gcc-nvhpc")

	return cmd
}

// runTargets is the main logic function for the targets command.
func runTargets(flags *targetsFlags) error {
	var kindFilter model.TargetKind
	if flags.kind != "" {
		kind, err := model.ParseTargetKind(flags.kind)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, err.Error(), nil)
		}
		kindFilter = kind
	}

	targets, err := enumerateTargets(flags.config)
	if err != nil {
		return err
	}

	repo := resolveRepo()
	var rows []targetRow
	for _, target := range targets {
		if kindFilter != "" && target.Kind != kindFilter {
			continue
		}
		rows = append(rows, targetRow{
			Service:   target.ServiceName(),
			Kind:      target.Kind.String(),
			OSVersion: target.OSVersion,
			BaseImage: target.BaseImage(),
			ImageTag:  target.ImageTag(repo),
		})
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal targets: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, row := range rows {
		fmt.Printf("%-45s %-10s %s\n", row.Service, row.Kind, row.BaseImage)
	}
	fmt.Printf("%d targets\n", len(rows))
	return nil
}
