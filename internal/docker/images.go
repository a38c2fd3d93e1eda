package docker

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/image"
)

// MatrixImage describes one locally present image belonging to the
// matrix repository.
type MatrixImage struct {
	// Tag is the full reference, e.g. "cxxmatrix/cxx-toolkit:gcc12-ubuntu22.04".
	Tag string `json:"tag"`

	// ID is the image ID as reported by the daemon.
	ID string `json:"id"`

	// Size is the image size in bytes.
	Size int64 `json:"size"`

	// Created is the image creation time as a Unix timestamp.
	Created int64 `json:"created"`
}

// ListMatrixImages returns the locally present images tagged under the
// given repository, sorted by tag. An image carrying several matrix
// tags yields one entry per tag.
func (c *Client) ListMatrixImages(ctx context.Context, repo string) ([]MatrixImage, error) {
	summaries, err := c.inner.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return filterMatrixImages(summaries, repo), nil
}

// filterMatrixImages extracts the repo's tags from an image listing.
// Split out from the API call so the mapping is testable without a
// daemon.
func filterMatrixImages(summaries []image.Summary, repo string) []MatrixImage {
	prefix := repo + ":"

	var images []MatrixImage
	for _, summary := range summaries {
		for _, tag := range summary.RepoTags {
			if !strings.HasPrefix(tag, prefix) {
				continue
			}
			images = append(images, MatrixImage{
				Tag:     tag,
				ID:      summary.ID,
				Size:    summary.Size,
				Created: summary.Created,
			})
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Tag < images[j].Tag
	})

	return images
}
