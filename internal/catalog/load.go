package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/m-okabe/cxxmatrix/internal/model"
	"github.com/tidwall/jsonc"
)

// Load reads a catalog configuration file, strips JSONC comments, and
// parses it into a Catalog. The file replaces the built-in catalog
// wholesale: OS versions not listed in the file are not built.
//
// JSONC (JSON with Comments) is accepted because catalog files live in
// repositories and benefit from inline annotations explaining why a
// version is pinned or excluded.
//
// Returns a CLIError with ExitConfigError if the file is missing,
// unparseable, or fails validation.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("catalog file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to read catalog file: %s", path),
			err,
		)
	}

	// Strip JSONC comments (// and /* */) and trailing commas before
	// handing the document to encoding/json.
	cleanJSON := jsonc.ToJSON(data)

	var c Catalog
	if err := json.Unmarshal(cleanJSON, &c); err != nil {
		return nil, model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("failed to parse catalog file: %s", path),
			err,
		)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}
