package compose

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

func sampleTargets() []model.Target {
	return []model.Target{
		{Kind: model.KindPrimary, OSVersion: "22.04", ClangVersion: "15", GCCVersion: 12},
		{Kind: model.KindClang, OSVersion: "22.04", ClangVersion: "15"},
		{Kind: model.KindGCC, OSVersion: "22.04", GCCVersion: 12},
		{Kind: model.KindGCCCUDA, OSVersion: "22.04", GCCVersion: 12, CUDAVersion: "11.8.0"},
	}
}

func TestGenerate(t *testing.T) {
	data, err := Generate(sampleTargets(), "cxxmatrix/cxx-toolkit")
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "# Auto-generated")
	assert.Contains(t, content, "DO NOT EDIT")

	// Round-trip through yaml to check the structure.
	var doc struct {
		Services map[string]struct {
			Image string `yaml:"image"`
			Build struct {
				Context    string `yaml:"context"`
				Dockerfile string `yaml:"dockerfile"`
			} `yaml:"build"`
		} `yaml:"services"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc.Services, 4)

	svc, ok := doc.Services["gcc12-cuda11.8.0-ubuntu22.04"]
	require.True(t, ok)
	assert.Equal(t, "cxxmatrix/cxx-toolkit:gcc12-cuda11.8.0-ubuntu22.04", svc.Image)
	assert.Equal(t, ".", svc.Build.Context)
	assert.Equal(t, "Dockerfile.gcc12-cuda11.8.0-ubuntu22.04", svc.Build.Dockerfile)
}

func TestGenerateIsDeterministic(t *testing.T) {
	targets := sampleTargets()

	first, err := Generate(targets, "cxxmatrix/cxx-toolkit")
	require.NoError(t, err)

	// Same targets in reverse order still produce the same bytes.
	reversed := make([]model.Target, len(targets))
	for i, target := range targets {
		reversed[len(targets)-1-i] = target
	}
	second, err := Generate(reversed, "cxxmatrix/cxx-toolkit")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateRejectsDuplicateServices(t *testing.T) {
	targets := []model.Target{
		{Kind: model.KindGCC, OSVersion: "22.04", GCCVersion: 12},
		{Kind: model.KindGCC, OSVersion: "22.04", GCCVersion: 12},
	}

	_, err := Generate(targets, "cxxmatrix/cxx-toolkit")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
	assert.Contains(t, err.Error(), "duplicate service name")
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Write(dir, sampleTargets(), "cxxmatrix/cxx-toolkit")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFilename), path)

	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(first), "services:")

	// Regeneration converges byte-for-byte.
	_, err = Write(dir, sampleTargets(), "cxxmatrix/cxx-toolkit")
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
