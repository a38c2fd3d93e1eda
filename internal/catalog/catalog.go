package catalog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

// Entry lists the toolchain versions available for one Ubuntu release.
type Entry struct {
	// ClangVersions are numeric version strings ("7" .. "15"), optionally
	// ending with the "dev" snapshot sentinel.
	ClangVersions []string `json:"clangVersions"`

	// GCCVersions are gcc major versions.
	GCCVersions []int `json:"gccVersions"`

	// CUDAVersions are CUDA toolkit versions for nvidia/cuda base images.
	CUDAVersions []string `json:"cudaVersions"`

	// HPCPairs are NVHPC SDK releases paired with the CUDA flavour of
	// their base image ("_multi" for the multi-runtime variant).
	HPCPairs []model.HPCPair `json:"nvhpcVersions"`
}

// Catalog maps an Ubuntu release ("22.04") to its toolchain entry.
type Catalog map[string]Entry

// Default returns the built-in catalog. The returned value is a fresh
// copy; callers may mutate it freely.
func Default() Catalog {
	return Catalog{
		"20.04": {
			ClangVersions: []string{"7", "8", "9", "10", "11", "12", "13", "14", "15", "dev"},
			GCCVersions:   []int{7, 8, 9, 10, 11},
			CUDAVersions:  []string{"11.7.1", "11.8.0"},
			HPCPairs: []model.HPCPair{
				{HPCVersion: "22.7", CUDAVersion: "11.7"},
				{HPCVersion: "22.7", CUDAVersion: model.MultiCUDASentinel},
				{HPCVersion: "22.9", CUDAVersion: "11.7"},
				{HPCVersion: "22.9", CUDAVersion: model.MultiCUDASentinel},
				{HPCVersion: "22.11", CUDAVersion: "11.8"},
				{HPCVersion: "22.11", CUDAVersion: model.MultiCUDASentinel},
			},
		},
		"22.04": {
			ClangVersions: []string{"14", "15", "dev"},
			GCCVersions:   []int{9, 10, 11, 12},
			CUDAVersions:  []string{"11.7.1", "11.8.0"},
			HPCPairs: []model.HPCPair{
				{HPCVersion: "22.7", CUDAVersion: "11.7"},
				{HPCVersion: "22.7", CUDAVersion: model.MultiCUDASentinel},
				{HPCVersion: "22.9", CUDAVersion: "11.7"},
				{HPCVersion: "22.9", CUDAVersion: model.MultiCUDASentinel},
				{HPCVersion: "22.11", CUDAVersion: "11.8"},
				{HPCVersion: "22.11", CUDAVersion: model.MultiCUDASentinel},
			},
		},
	}
}

// OSVersions returns the catalog's Ubuntu releases in sorted order.
// Map iteration order is randomized in Go, so every consumer that walks
// the catalog goes through this accessor to keep output deterministic.
func (c Catalog) OSVersions() []string {
	versions := make([]string, 0, len(c))
	for v := range c {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// Validate checks the catalog for entries the enumerator cannot handle.
// Returns a CLIError with ExitConfigError describing the first problem
// found.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return model.NewCLIError(model.ExitConfigError, "catalog has no OS versions")
	}

	for _, osVersion := range c.OSVersions() {
		entry := c[osVersion]

		if osVersion == "" {
			return model.NewCLIError(model.ExitConfigError, "catalog contains an empty OS version key")
		}

		// The primary image needs at least one compiler family.
		if len(entry.ClangVersions) == 0 && len(entry.GCCVersions) == 0 {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("ubuntu %s: no clang or gcc versions listed", osVersion))
		}

		for _, v := range entry.ClangVersions {
			if v == model.ClangDevVersion {
				continue
			}
			if _, err := strconv.Atoi(v); err != nil {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("ubuntu %s: clang version %q is neither numeric nor %q", osVersion, v, model.ClangDevVersion))
			}
		}

		for _, v := range entry.GCCVersions {
			if v <= 0 {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("ubuntu %s: gcc version %d is not positive", osVersion, v))
			}
		}

		for _, v := range entry.CUDAVersions {
			if v == "" {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("ubuntu %s: empty CUDA version", osVersion))
			}
		}

		for _, pair := range entry.HPCPairs {
			if pair.HPCVersion == "" || pair.CUDAVersion == "" {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("ubuntu %s: NVHPC pair %+v has an empty field", osVersion, pair))
			}
		}
	}

	return nil
}
