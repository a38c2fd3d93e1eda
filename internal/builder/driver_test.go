package builder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-okabe/cxxmatrix/internal/catalog"
	"github.com/m-okabe/cxxmatrix/internal/matrix"
	"github.com/m-okabe/cxxmatrix/internal/model"
)

// fakeRunner records invocations and fails the batches whose first
// service matches failOn.
type fakeRunner struct {
	calls  [][]string
	dirs   []string
	envs   []map[string]string
	failOn map[string]bool
}

func (f *fakeRunner) run(_ context.Context, dir string, args []string, envVars map[string]string) (string, error) {
	f.calls = append(f.calls, args)
	f.dirs = append(f.dirs, dir)
	f.envs = append(f.envs, envVars)

	// Service names start after the fixed six-argument prefix.
	if len(args) > 6 && f.failOn[args[6]] {
		return "compiler package not found", errors.New("exit status 17")
	}
	return "ok", nil
}

func smallBatches() []matrix.Batch {
	c := catalog.Catalog{
		"22.04": {
			ClangVersions: []string{"15"},
			GCCVersions:   []int{11, 12},
			CUDAVersions:  []string{"11.8.0"},
		},
	}
	return matrix.Batches(matrix.Expand(c))
}

func TestComposeBuildArgs(t *testing.T) {
	args := composeBuildArgs([]string{"gcc11-ubuntu22.04", "gcc12-ubuntu22.04"})
	assert.Equal(t, []string{
		"compose", "-f", "docker-compose.yml",
		"build", "--force-rm", "--parallel",
		"gcc11-ubuntu22.04", "gcc12-ubuntu22.04",
	}, args)
}

func TestRunHappyPath(t *testing.T) {
	runner := &fakeRunner{}
	var out strings.Builder
	d := &Driver{Dir: "/work/out", Out: &out, runCommand: runner.run}

	batches := smallBatches()
	results, err := d.Run(context.Background(), batches)
	require.NoError(t, err)
	require.Len(t, results, len(batches))

	for i, result := range results {
		assert.True(t, result.Succeeded)
		assert.Empty(t, result.Error)
		assert.Equal(t, batches[i].ServiceNames(), result.Services)
	}

	// One invocation per batch, all in the output directory with
	// BuildKit forced on.
	require.Len(t, runner.calls, len(batches))
	for i := range runner.calls {
		assert.Equal(t, "/work/out", runner.dirs[i])
		assert.Equal(t, map[string]string{"DOCKER_BUILDKIT": "1"}, runner.envs[i])
		assert.Equal(t, "compose", runner.calls[i][0])
	}

	// Every command line is echoed.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(batches))
	assert.True(t, strings.HasPrefix(lines[0], "DOCKER_BUILDKIT=1 docker compose -f docker-compose.yml build --force-rm --parallel main-ubuntu22.04"))
}

func TestRunAbortsOnFirstFailureByDefault(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]bool{"clang15-ubuntu22.04": true}}
	var out strings.Builder
	d := &Driver{Dir: "/work/out", Out: &out, runCommand: runner.run}

	results, err := d.Run(context.Background(), smallBatches())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitBuildFailed, cliErr.Code)
	assert.Contains(t, err.Error(), "clang/ubuntu22.04")
	assert.Contains(t, err.Error(), "compiler package not found")

	// Only the primary batch and the failed clang batch ran.
	require.Len(t, results, 2)
	assert.True(t, results[0].Succeeded)
	assert.False(t, results[1].Succeeded)
	assert.Len(t, runner.calls, 2)
}

func TestRunKeepGoingFinishesAllBatches(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]bool{"clang15-ubuntu22.04": true}}
	var out strings.Builder
	d := &Driver{Dir: "/work/out", Out: &out, KeepGoing: true, runCommand: runner.run}

	batches := smallBatches()
	results, err := d.Run(context.Background(), batches)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitBuildFailed, cliErr.Code)
	assert.Contains(t, err.Error(), "1 build batch(es) failed")

	// Every batch still ran.
	require.Len(t, results, len(batches))
	assert.Len(t, runner.calls, len(batches))

	failures := 0
	for _, result := range results {
		if !result.Succeeded {
			failures++
			assert.Contains(t, result.Error, "compiler package not found")
		}
	}
	assert.Equal(t, 1, failures)
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	runner := &fakeRunner{}
	var out strings.Builder
	d := &Driver{Dir: "/work/out", Out: &out, DryRun: true, runCommand: runner.run}

	batches := smallBatches()
	results, err := d.Run(context.Background(), batches)
	require.NoError(t, err)

	assert.Empty(t, runner.calls)
	assert.Len(t, results, len(batches))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, len(batches))
}

func TestRunEmptyBatchList(t *testing.T) {
	d := &Driver{Dir: "/work/out", Out: &strings.Builder{}}
	results, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
