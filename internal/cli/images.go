// Package cli — images.go implements the "cxxmatrix images" command.
//
// The images command asks the Docker daemon which matrix images exist
// locally, so a CI job (or a human) can see how much of the matrix is
// already built before kicking off a run.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m-okabe/cxxmatrix/internal/docker"
)

// NewImagesCommand creates the "images" cobra command.
func NewImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "List the locally present matrix images",
		Long: `List the images of the matrix repository that already exist in the
local Docker daemon.

Examples:
  cxxmatrix images
  cxxmatrix images --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runImages(cmd.Context())
		},
	}

	return cmd
}

// runImages is the main logic function for the images command.
func runImages(ctx context.Context) error {
	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	repo := resolveRepo()
	images, err := cli.ListMatrixImages(ctx, repo)
	if err != nil {
		return err
	}
	VerboseLog("Found %d images under %s", len(images), repo)

	if IsJSONOutput() {
		data, err := json.MarshalIndent(images, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal images: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, img := range images {
		fmt.Printf("%-60s %-15s %d\n", img.Tag, shortID(img.ID), img.Size)
	}
	fmt.Printf("%d images\n", len(images))
	return nil
}

// shortID trims an image ID to the familiar 12-character form.
func shortID(id string) string {
	const prefix = "sha256:"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		id = id[len(prefix):]
	}
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
