package matrix

import (
	"github.com/m-okabe/cxxmatrix/internal/catalog"
	"github.com/m-okabe/cxxmatrix/internal/model"
)

// PrimaryExtraPackages is the extended tool set installed only into the
// primary image of each OS version.
const PrimaryExtraPackages = "curl git cppcheck iwyu lcov"

// batchOrder is the fixed category sequence batches run in, per OS
// version. Earlier batches never depend on later ones, so each batch can
// build all of its members in parallel.
var batchOrder = []model.TargetKind{
	model.KindPrimary,
	model.KindClang,
	model.KindGCC,
	model.KindGCCCUDA,
	model.KindGCCHPC,
}

// Expand enumerates every build target the catalog describes. OS
// versions are walked in sorted order and categories in the batchOrder
// sequence, so the result is deterministic for a given catalog.
//
// The primary target takes the last listed clang and gcc versions,
// which the catalog orders oldest-to-newest.
func Expand(c catalog.Catalog) []model.Target {
	var targets []model.Target

	for _, osVersion := range c.OSVersions() {
		entry := c[osVersion]

		if len(entry.ClangVersions) > 0 || len(entry.GCCVersions) > 0 {
			primary := model.Target{
				Kind:          model.KindPrimary,
				OSVersion:     osVersion,
				ExtraPackages: PrimaryExtraPackages,
			}
			if len(entry.ClangVersions) > 0 {
				primary.ClangVersion = entry.ClangVersions[len(entry.ClangVersions)-1]
			}
			if len(entry.GCCVersions) > 0 {
				primary.GCCVersion = entry.GCCVersions[len(entry.GCCVersions)-1]
			}
			targets = append(targets, primary)
		}

		for _, v := range entry.ClangVersions {
			targets = append(targets, model.Target{
				Kind:         model.KindClang,
				OSVersion:    osVersion,
				ClangVersion: v,
			})
		}

		for _, v := range entry.GCCVersions {
			targets = append(targets, model.Target{
				Kind:       model.KindGCC,
				OSVersion:  osVersion,
				GCCVersion: v,
			})
		}

		for _, v := range entry.GCCVersions {
			for _, cudaVersion := range entry.CUDAVersions {
				targets = append(targets, model.Target{
					Kind:        model.KindGCCCUDA,
					OSVersion:   osVersion,
					GCCVersion:  v,
					CUDAVersion: cudaVersion,
				})
			}
		}

		for _, v := range entry.GCCVersions {
			for _, pair := range entry.HPCPairs {
				targets = append(targets, model.Target{
					Kind:        model.KindGCCHPC,
					OSVersion:   osVersion,
					GCCVersion:  v,
					CUDAVersion: pair.CUDAVersion,
					HPCVersion:  pair.HPCVersion,
				})
			}
		}
	}

	return targets
}

// Batch is one sequential step of the build: all members build in
// parallel, and the next batch starts only after this one finishes.
type Batch struct {
	// OSVersion is the Ubuntu release the batch belongs to.
	OSVersion string

	// Kind is the target category of every member.
	Kind model.TargetKind

	// Targets are the batch members, in enumeration order.
	Targets []model.Target
}

// ServiceNames returns the compose service names of the batch members.
func (b Batch) ServiceNames() []string {
	names := make([]string, len(b.Targets))
	for i, t := range b.Targets {
		names[i] = t.ServiceName()
	}
	return names
}

// Batches groups targets into the sequential build order: OS versions
// in first-seen order, categories in the fixed batchOrder sequence.
// Empty categories produce no batch.
func Batches(targets []model.Target) []Batch {
	byOS := make(map[string]map[model.TargetKind][]model.Target)
	var osOrder []string

	for _, t := range targets {
		kinds, ok := byOS[t.OSVersion]
		if !ok {
			kinds = make(map[model.TargetKind][]model.Target)
			byOS[t.OSVersion] = kinds
			osOrder = append(osOrder, t.OSVersion)
		}
		kinds[t.Kind] = append(kinds[t.Kind], t)
	}

	var batches []Batch
	for _, osVersion := range osOrder {
		for _, kind := range batchOrder {
			members := byOS[osVersion][kind]
			if len(members) == 0 {
				continue
			}
			batches = append(batches, Batch{
				OSVersion: osVersion,
				Kind:      kind,
				Targets:   members,
			})
		}
	}

	return batches
}
