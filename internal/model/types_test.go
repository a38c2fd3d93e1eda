package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TargetKind
		wantErr bool
	}{
		{name: "primary", input: "primary", want: KindPrimary},
		{name: "clang", input: "clang", want: KindClang},
		{name: "gcc", input: "gcc", want: KindGCC},
		{name: "gcc-cuda", input: "gcc-cuda", want: KindGCCCUDA},
		{name: "gcc-nvhpc", input: "gcc-nvhpc", want: KindGCCHPC},
		{name: "uppercase is accepted", input: "CLANG", want: KindClang},
		{name: "unknown kind", input: "rustc", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTargetKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetServiceName(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{
			name:   "primary",
			target: Target{Kind: KindPrimary, OSVersion: "22.04", ClangVersion: "15", GCCVersion: 12},
			want:   "main-ubuntu22.04",
		},
		{
			name:   "clang",
			target: Target{Kind: KindClang, OSVersion: "20.04", ClangVersion: "11"},
			want:   "clang11-ubuntu20.04",
		},
		{
			name:   "clang dev snapshot",
			target: Target{Kind: KindClang, OSVersion: "22.04", ClangVersion: "dev"},
			want:   "clangdev-ubuntu22.04",
		},
		{
			name:   "gcc",
			target: Target{Kind: KindGCC, OSVersion: "22.04", GCCVersion: 12},
			want:   "gcc12-ubuntu22.04",
		},
		{
			name:   "gcc with cuda",
			target: Target{Kind: KindGCCCUDA, OSVersion: "22.04", GCCVersion: 11, CUDAVersion: "11.8.0"},
			want:   "gcc11-cuda11.8.0-ubuntu22.04",
		},
		{
			name:   "gcc with nvhpc",
			target: Target{Kind: KindGCCHPC, OSVersion: "22.04", GCCVersion: 11, CUDAVersion: "11.8", HPCVersion: "22.11"},
			want:   "gcc11-cuda11.8-nvhpc22.11-ubuntu22.04",
		},
		{
			name:   "nvhpc multi-cuda wildcard",
			target: Target{Kind: KindGCCHPC, OSVersion: "22.04", GCCVersion: 11, CUDAVersion: "_multi", HPCVersion: "22.11"},
			want:   "gcc11-cuda_multi-nvhpc22.11-ubuntu22.04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.ServiceName())
			assert.Equal(t, "Dockerfile."+tt.want, tt.target.DockerfileName())
			assert.Equal(t, "cxxmatrix/cxx-toolkit:"+tt.want, tt.target.ImageTag("cxxmatrix/cxx-toolkit"))
		})
	}
}

func TestTargetBaseImage(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{
			name:   "primary uses plain ubuntu",
			target: Target{Kind: KindPrimary, OSVersion: "22.04"},
			want:   "ubuntu:22.04",
		},
		{
			name:   "clang uses plain ubuntu",
			target: Target{Kind: KindClang, OSVersion: "20.04", ClangVersion: "11"},
			want:   "ubuntu:20.04",
		},
		{
			name:   "cuda target uses nvidia devel image",
			target: Target{Kind: KindGCCCUDA, OSVersion: "22.04", GCCVersion: 11, CUDAVersion: "11.8.0"},
			want:   "nvidia/cuda:11.8.0-devel-ubuntu22.04",
		},
		{
			name:   "nvhpc target uses nvcr devel image",
			target: Target{Kind: KindGCCHPC, OSVersion: "22.04", GCCVersion: 11, CUDAVersion: "11.8", HPCVersion: "22.11"},
			want:   "nvcr.io/nvidia/nvhpc:22.11-devel-cuda11.8-ubuntu22.04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.BaseImage())
		})
	}
}

func TestClangNeedsSnapshotRepo(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    bool
	}{
		{name: "dev sentinel", version: "dev", want: true},
		{name: "at threshold", version: "13", want: true},
		{name: "above threshold", version: "15", want: true},
		{name: "below threshold", version: "12", want: false},
		{name: "old release", version: "9", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{Kind: KindClang, OSVersion: "22.04", ClangVersion: tt.version}
			assert.Equal(t, tt.want, target.ClangNeedsSnapshotRepo())
		})
	}
}

func TestCLIError(t *testing.T) {
	t.Run("without underlying error", func(t *testing.T) {
		err := NewCLIError(ExitConfigError, "catalog is empty")
		assert.Equal(t, "catalog is empty", err.Error())
		assert.Equal(t, ExitConfigError, err.Code)
		assert.Nil(t, err.Unwrap())
	})

	t.Run("with underlying error", func(t *testing.T) {
		underlying := errors.New("permission denied")
		err := WrapCLIError(ExitWriteFailed, "failed to write Dockerfile", underlying)
		assert.Equal(t, "failed to write Dockerfile: permission denied", err.Error())
		assert.Equal(t, ExitWriteFailed, err.Code)
		assert.Equal(t, underlying, err.Unwrap())
		assert.True(t, errors.Is(err, underlying))
	})
}
