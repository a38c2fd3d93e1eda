package compose

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

// ManifestFilename is the manifest's well-known name inside the output
// directory. The build driver and `docker compose` both resolve it by
// this name.
const ManifestFilename = "docker-compose.yml"

// manifest is the YAML document root.
type manifest struct {
	Services map[string]service `yaml:"services"`
}

// service is one stanza: the image tag to produce and how to build it.
type service struct {
	Image string       `yaml:"image"`
	Build buildSection `yaml:"build"`
}

type buildSection struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

// Generate serializes the manifest for the given targets. Image tags
// are rooted at repo. yaml.v3 emits map keys in sorted order, so the
// output is deterministic regardless of target order.
func Generate(targets []model.Target, repo string) ([]byte, error) {
	m := manifest{Services: make(map[string]service, len(targets))}

	for _, t := range targets {
		name := t.ServiceName()
		if _, exists := m.Services[name]; exists {
			return nil, model.NewCLIError(
				model.ExitConfigError,
				fmt.Sprintf("duplicate service name %s in target list", name),
			)
		}
		m.Services[name] = service{
			Image: t.ImageTag(repo),
			Build: buildSection{
				Context:    ".",
				Dockerfile: t.DockerfileName(),
			},
		}
	}

	yamlBytes, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize compose manifest: %w", err)
	}

	// Header comment warning against manual edits: the file is
	// regenerated wholesale on every run.
	header := "# Auto-generated build matrix manifest\n# DO NOT EDIT - this file is regenerated on each generate/build run\n"

	return []byte(header + string(yamlBytes)), nil
}

// Write generates the manifest and writes it into outputDir, creating
// the directory if needed. Returns the written file path. Failures
// surface as a CLIError with ExitWriteFailed.
func Write(outputDir string, targets []model.Target, repo string) (string, error) {
	data, err := Generate(targets, repo)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", model.WrapCLIError(
			model.ExitWriteFailed,
			fmt.Sprintf("failed to create output directory: %s", outputDir),
			err,
		)
	}

	path := filepath.Join(outputDir, ManifestFilename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", model.WrapCLIError(
			model.ExitWriteFailed,
			fmt.Sprintf("failed to write %s", path),
			err,
		)
	}

	return path, nil
}
