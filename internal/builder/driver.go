package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/m-okabe/cxxmatrix/internal/compose"
	"github.com/m-okabe/cxxmatrix/internal/matrix"
	"github.com/m-okabe/cxxmatrix/internal/model"
)

// Driver runs build batches against a generated compose manifest.
type Driver struct {
	// Dir is the directory holding the manifest and the Dockerfiles.
	// It becomes the working directory of every compose invocation so
	// relative paths in the manifest resolve correctly.
	Dir string

	// KeepGoing selects the best-effort policy: finish all batches even
	// when one fails, then report every failure. The default aborts at
	// the first failed batch.
	KeepGoing bool

	// DryRun prints the compose command lines without executing them.
	DryRun bool

	// Out receives progress lines (one per batch command). Defaults to
	// os.Stdout when nil.
	Out io.Writer

	// runCommand is the exec seam, replaced in tests.
	runCommand func(ctx context.Context, dir string, args []string, envVars map[string]string) (string, error)
}

// BatchResult records the outcome of one batch.
type BatchResult struct {
	OSVersion string   `json:"osVersion"`
	Kind      string   `json:"kind"`
	Services  []string `json:"services"`
	Succeeded bool     `json:"succeeded"`
	Error     string   `json:"error,omitempty"`
}

// composeBuildArgs assembles the argument list for one batch:
// docker compose -f docker-compose.yml build --force-rm --parallel <services…>
func composeBuildArgs(services []string) []string {
	args := make([]string, 0, len(services)+6)
	args = append(args, "compose", "-f", compose.ManifestFilename,
		"build", "--force-rm", "--parallel")
	args = append(args, services...)
	return args
}

// commandLine renders the full command for progress output, including
// the BuildKit toggle, the way a user would type it.
func commandLine(args []string) string {
	return "DOCKER_BUILDKIT=1 docker " + strings.Join(args, " ")
}

// Run executes the batches in order and returns the per-batch results.
//
// Batch failures surface as a CLIError with ExitBuildFailed: under the
// default policy immediately, under KeepGoing after every batch has had
// its chance. The returned results are valid in both cases.
func (d *Driver) Run(ctx context.Context, batches []matrix.Batch) ([]BatchResult, error) {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	run := d.runCommand
	if run == nil {
		run = execDocker
	}

	results := make([]BatchResult, 0, len(batches))
	var failed []string

	for _, batch := range batches {
		services := batch.ServiceNames()
		args := composeBuildArgs(services)
		fmt.Fprintln(out, commandLine(args))

		result := BatchResult{
			OSVersion: batch.OSVersion,
			Kind:      batch.Kind.String(),
			Services:  services,
			Succeeded: true,
		}

		if !d.DryRun {
			output, err := run(ctx, d.Dir, args, map[string]string{"DOCKER_BUILDKIT": "1"})
			if err != nil {
				result.Succeeded = false
				result.Error = fmt.Sprintf("%v: %s", err, strings.TrimSpace(output))
				results = append(results, result)

				batchName := fmt.Sprintf("%s/ubuntu%s", batch.Kind, batch.OSVersion)
				if !d.KeepGoing {
					return results, model.WrapCLIError(
						model.ExitBuildFailed,
						fmt.Sprintf("build batch %s failed: %s", batchName, strings.TrimSpace(output)),
						err,
					)
				}
				failed = append(failed, batchName)
				continue
			}
		}

		results = append(results, result)
	}

	if len(failed) > 0 {
		return results, model.NewCLIError(
			model.ExitBuildFailed,
			fmt.Sprintf("%d build batch(es) failed: %s", len(failed), strings.Join(failed, ", ")),
		)
	}

	return results, nil
}

// execDocker runs the docker binary as a child process, inheriting the
// parent environment plus the given extra variables. CombinedOutput is
// captured for error reporting.
func execDocker(ctx context.Context, dir string, args []string, envVars map[string]string) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = dir

	cmd.Env = os.Environ()
	for k, v := range envVars {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	output, err := cmd.CombinedOutput()
	return string(output), err
}
