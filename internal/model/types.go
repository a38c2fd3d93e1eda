// Package model defines the domain types for the cxxmatrix CLI.
//
// The central entity is Target: one concrete build-matrix entry. Targets
// are value objects — identity is the tuple itself — and all artifact
// names are pure functions of that tuple, which keeps filename generation
// injective across the matrix.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetKind classifies a build target by which compiler/toolkit
// combination it carries. The kind determines the base image, the
// service-name shape, and which build batch the target lands in.
type TargetKind string

const (
	// KindPrimary is the richest image per OS version: the latest clang
	// and gcc of the catalog plus an extended analysis-tool package set.
	KindPrimary TargetKind = "primary"

	// KindClang is a single-compiler image carrying one clang version.
	KindClang TargetKind = "clang"

	// KindGCC is a single-compiler image carrying one gcc version.
	KindGCC TargetKind = "gcc"

	// KindGCCCUDA is a gcc image built on top of a CUDA devel base image.
	KindGCCCUDA TargetKind = "gcc-cuda"

	// KindGCCHPC is a gcc image built on top of an NVHPC devel base image.
	KindGCCHPC TargetKind = "gcc-nvhpc"
)

// String returns the string representation of TargetKind.
func (k TargetKind) String() string {
	return string(k)
}

// IsValid checks whether the TargetKind value is one of the predefined
// valid kinds.
func (k TargetKind) IsValid() bool {
	switch k {
	case KindPrimary, KindClang, KindGCC, KindGCCCUDA, KindGCCHPC:
		return true
	default:
		return false
	}
}

// ParseTargetKind converts a string to a TargetKind.
// Returns an error if the string does not match any valid kind.
func ParseTargetKind(s string) (TargetKind, error) {
	kind := TargetKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid target kind: %q (valid: primary, clang, gcc, gcc-cuda, gcc-nvhpc)", s)
	}
	return kind, nil
}

// ClangDevVersion is the sentinel clang version meaning "upstream
// development snapshot" rather than a pinned release. Targets with this
// version always take the deferred-version installation path.
const ClangDevVersion = "dev"

// ClangSnapshotThreshold is the lowest pinned clang version that is not
// available from the distribution archives and must instead come from the
// upstream apt.llvm.org repository. At or above this version the true
// package version is only knowable after the repository is indexed, so
// the generated script defers version binding to image-build time.
const ClangSnapshotThreshold = 13

// MultiCUDASentinel is the NVHPC runtime wildcard meaning the base image
// bundles multiple CUDA versions instead of one pinned release.
const MultiCUDASentinel = "_multi"

// HPCPair names one NVHPC SDK release together with the CUDA runtime
// flavour of its base image. CUDAVersion may be MultiCUDASentinel.
type HPCPair struct {
	HPCVersion  string `json:"hpcVer"`
	CUDAVersion string `json:"cudaVer"`
}

// Target is the unit of matrix enumeration: one image to generate and
// build. Which fields are populated depends on Kind:
//
//	primary    ClangVersion + GCCVersion + ExtraPackages
//	clang      ClangVersion
//	gcc        GCCVersion
//	gcc-cuda   GCCVersion + CUDAVersion
//	gcc-nvhpc  GCCVersion + CUDAVersion + HPCVersion
type Target struct {
	// Kind classifies the target (see TargetKind).
	Kind TargetKind `json:"kind"`

	// OSVersion is the Ubuntu release, e.g. "22.04".
	OSVersion string `json:"osVersion"`

	// ClangVersion is a numeric version string ("15") or ClangDevVersion.
	// Empty when no clang is requested.
	ClangVersion string `json:"clangVersion,omitempty"`

	// GCCVersion is the gcc major version. Zero when no gcc is requested.
	GCCVersion int `json:"gccVersion,omitempty"`

	// CUDAVersion is the CUDA toolkit version of the base image
	// (e.g. "11.8.0" for nvcc images, "11.8" or MultiCUDASentinel for
	// NVHPC images). Empty for plain compiler images.
	CUDAVersion string `json:"cudaVersion,omitempty"`

	// HPCVersion is the NVHPC SDK version, e.g. "22.11".
	// Only set for gcc-nvhpc targets.
	HPCVersion string `json:"hpcVersion,omitempty"`

	// ExtraPackages is an extra apt package list appended verbatim to the
	// compiler installation block. Non-empty only for primary targets.
	ExtraPackages string `json:"extraPackages,omitempty"`
}

// ServiceName derives the compose service name for the target. The name
// doubles as the image tag suffix and the Dockerfile name suffix, so it
// must be injective: the fixed family prefixes and field ordering
// guarantee that two distinct tuples never collide.
func (t Target) ServiceName() string {
	switch t.Kind {
	case KindPrimary:
		return fmt.Sprintf("main-ubuntu%s", t.OSVersion)
	case KindClang:
		return fmt.Sprintf("clang%s-ubuntu%s", t.ClangVersion, t.OSVersion)
	case KindGCC:
		return fmt.Sprintf("gcc%d-ubuntu%s", t.GCCVersion, t.OSVersion)
	case KindGCCCUDA:
		return fmt.Sprintf("gcc%d-cuda%s-ubuntu%s", t.GCCVersion, t.CUDAVersion, t.OSVersion)
	case KindGCCHPC:
		return fmt.Sprintf("gcc%d-cuda%s-nvhpc%s-ubuntu%s", t.GCCVersion, t.CUDAVersion, t.HPCVersion, t.OSVersion)
	default:
		// Unknown kinds indicate a programming error in the enumerator;
		// returning a recognisable marker keeps the failure visible in
		// generated output instead of silently colliding.
		return fmt.Sprintf("unknown-ubuntu%s", t.OSVersion)
	}
}

// DockerfileName derives the generated build-definition filename.
func (t Target) DockerfileName() string {
	return "Dockerfile." + t.ServiceName()
}

// ImageTag derives the full image reference for the given repository
// root, e.g. "cxxmatrix/cxx-toolkit:gcc12-ubuntu22.04".
func (t Target) ImageTag(repo string) string {
	return repo + ":" + t.ServiceName()
}

// BaseImage derives the FROM image for the target. CUDA and NVHPC
// targets build on NVIDIA devel images; everything else starts from the
// plain Ubuntu image of the target's OS version.
func (t Target) BaseImage() string {
	switch t.Kind {
	case KindGCCCUDA:
		return fmt.Sprintf("nvidia/cuda:%s-devel-ubuntu%s", t.CUDAVersion, t.OSVersion)
	case KindGCCHPC:
		return fmt.Sprintf("nvcr.io/nvidia/nvhpc:%s-devel-cuda%s-ubuntu%s", t.HPCVersion, t.CUDAVersion, t.OSVersion)
	default:
		return "ubuntu:" + t.OSVersion
	}
}

// HasClang reports whether the target requests a clang installation.
func (t Target) HasClang() bool {
	return t.ClangVersion != ""
}

// HasGCC reports whether the target requests a gcc installation.
func (t Target) HasGCC() bool {
	return t.GCCVersion != 0
}

// ClangNeedsSnapshotRepo reports whether installing the target's clang
// version requires adding the upstream apt.llvm.org repository first.
// True for the dev sentinel and for pinned versions at or above
// ClangSnapshotThreshold.
func (t Target) ClangNeedsSnapshotRepo() bool {
	if t.ClangVersion == ClangDevVersion {
		return true
	}
	v, err := strconv.Atoi(t.ClangVersion)
	if err != nil {
		return false
	}
	return v >= ClangSnapshotThreshold
}

// String returns a short human-readable description of the target.
func (t Target) String() string {
	return t.ServiceName()
}

// Alternative is one (alias, path) pair in an update-alternatives
// registration group. Order matters: the first entry of a group becomes
// the primary --install rule, subsequent entries attach as --slave
// bindings under the same priority group.
type Alternative struct {
	// Alias is the generic command name, e.g. "clang++" or "gcov".
	Alias string

	// Path is the versioned binary the alias resolves to,
	// e.g. "/usr/bin/clang++-$v" or "/usr/bin/gcov-12".
	Path string
}

// ExitCode defines standard CLI exit codes. These codes allow scripts
// and CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the catalog is invalid or a target
	// requests no compiler family at all.
	ExitConfigError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitWriteFailed indicates a generated artifact could not be
	// written to disk.
	ExitWriteFailed ExitCode = 4

	// ExitBuildFailed indicates at least one build batch failed.
	ExitBuildFailed ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a message but no underlying error.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an underlying error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
