package dockerfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-okabe/cxxmatrix/internal/model"
)

// WriteTarget renders the target's build definition and writes it into
// outputDir, creating the directory if needed. An existing file is
// overwritten wholesale so repeated generation converges on the same
// bytes. Returns the written file path.
//
// Write failures are fatal for the whole run and surface as a CLIError
// with ExitWriteFailed.
func WriteTarget(outputDir string, t model.Target) (string, error) {
	content, err := Render(t)
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

	path := filepath.Join(outputDir, t.DockerfileName())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", model.WrapCLIError(
			model.ExitWriteFailed,
			fmt.Sprintf("failed to write %s", path),
			err,
		)
	}

	return path, nil
}
