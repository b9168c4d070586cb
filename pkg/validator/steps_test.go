package validator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathtools/winpath-validator/pkg/toolchain"
)

func TestExamplePrograms_MissingDirSkipsAsSuccess(t *testing.T) {
	fake := &fakeRunner{}
	v, rep, _ := newTestValidator(t, fake)

	v.RunSuite(context.Background(), Options{})

	sum := rep.Summary()
	assert.Zero(t, sum.FailedChecks)
	assert.False(t, fake.called("build --examples"))
}

func TestExamplePrograms_BuildsAndRunsDiscoveredExamples(t *testing.T) {
	fake := &fakeRunner{}
	v, rep, cfg := newTestValidator(t, fake)

	examplesDir := filepath.Join(cfg.WinpathPath(), "examples")
	require.NoError(t, os.MkdirAll(examplesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "basic_usage.rs"), []byte("fn main() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "test_path.rs"), []byte("fn main() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "README.md"), []byte("docs\n"), 0644))

	ok := v.RunSuite(context.Background(), Options{})
	assert.True(t, ok)

	assert.True(t, fake.called("build --examples"))
	assert.True(t, fake.called(`run --example basic_usage -- C:\test\path`))
	assert.True(t, fake.called(`run --example test_path -- C:\test\path`))
	assert.False(t, fake.called(`run --example README -- C:\test\path`))

	assert.Zero(t, rep.Summary().FailedChecks)
}

func TestExamplePrograms_RunFailureIsInformational(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			`run --example basic_usage -- C:\test\path`: {ExitCode: 1, Output: "panicked"},
		},
	}
	v, rep, cfg := newTestValidator(t, fake)

	examplesDir := filepath.Join(cfg.WinpathPath(), "examples")
	require.NoError(t, os.MkdirAll(examplesDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "basic_usage.rs"), []byte("fn main() {}\n"), 0644))

	ok := v.RunSuite(context.Background(), Options{})
	assert.True(t, ok, "example run failures are warnings only")
	assert.Zero(t, rep.Summary().FailedChecks)
}

func TestExamplePrograms_BuildFailureFailsCheck(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"build --examples": {ExitCode: 1, Output: "examples exploded"},
		},
	}
	v, rep, cfg := newTestValidator(t, fake)

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.WinpathPath(), "examples"), 0755))

	ok := v.RunSuite(context.Background(), Options{})
	assert.False(t, ok)

	sum := rep.Summary()
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, "Example Programs", sum.Errors[0].Test)
	assert.Contains(t, sum.Errors[0].Error, "examples exploded")
}

func TestDocumentation_DocTestFailureIsInformational(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"test --doc": {ExitCode: 1, Output: "doc test exploded"},
		},
	}
	v, rep, _ := newTestValidator(t, fake)

	ok := v.RunSuite(context.Background(), Options{})
	assert.True(t, ok, "doc test failures are warnings only")
	assert.Zero(t, rep.Summary().FailedChecks)
}

func TestDocumentation_DocBuildFailureFailsCheck(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"doc --no-deps": {ExitCode: 1, Output: "rustdoc exploded"},
		},
	}
	v, rep, _ := newTestValidator(t, fake)

	ok := v.RunSuite(context.Background(), Options{})
	assert.False(t, ok)

	sum := rep.Summary()
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, "Documentation Tests", sum.Errors[0].Test)
}

func TestGitBash_ProbeFailureLowersAggregate(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"test git_bash_mangled_paths": {ExitCode: 1, Output: "pattern exploded"},
		},
	}
	v, rep, _ := newTestValidator(t, fake)

	ok := v.RunSuite(context.Background(), Options{GitBash: true})
	assert.False(t, ok)

	sum := rep.Summary()
	assert.Equal(t, 1, sum.FailedChecks)
	require.Len(t, sum.Errors, 1)
	assert.Equal(t, "Git Bash Path Handling", sum.Errors[0].Test)

	// A failing probe must not stop the remaining probes.
	for _, pattern := range gitBashPatterns {
		assert.True(t, fake.called("test "+pattern))
	}
}

func TestGitBash_MainSuiteFailureSkipsProbes(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"test --test git_bash_tests": {ExitCode: 1, Output: "git bash suite exploded"},
		},
	}
	v, rep, _ := newTestValidator(t, fake)

	// The integration check probes the same test file, but only as an
	// informational sub-suite; the recorded failure must come from the
	// Git Bash check.
	ok := v.RunSuite(context.Background(), Options{GitBash: true})
	assert.False(t, ok)

	sum := rep.Summary()
	require.NotEmpty(t, sum.Errors)
	assert.Equal(t, "Git Bash Path Handling", sum.Errors[0].Test)
	assert.Contains(t, sum.Errors[0].Error, "git bash suite exploded")

	for _, pattern := range gitBashPatterns {
		assert.False(t, fake.called("test "+pattern))
	}
}

func TestPerformance_SubCommandFailuresStillPass(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"bench --no-run":             {ExitCode: 1, Output: "no benches"},
			"test --release performance": {ExitCode: 1, Output: "no perf tests"},
		},
	}
	v, rep, _ := newTestValidator(t, fake)

	ok := v.RunSuite(context.Background(), Options{Performance: true})
	assert.True(t, ok, "the performance check is informational")

	sum := rep.Summary()
	assert.Zero(t, sum.FailedChecks)
	require.Contains(t, sum.Performance, "test_suite")
	assert.GreaterOrEqual(t, sum.Performance["test_suite"].Duration, float64(0))
}

func TestExecutablePaths_MissingTestsDirSkipsAsSuccess(t *testing.T) {
	fake := &fakeRunner{}
	v, rep, _ := newTestValidator(t, fake)

	ok := v.RunSuite(context.Background(), Options{})
	assert.True(t, ok)
	assert.False(t, fake.called("test --test executable_path_tests"))
	assert.Zero(t, rep.Summary().FailedChecks)
}

func TestExecutablePaths_RunsWhenTestsDirExists(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]toolchain.Result{
			"test --test executable_path_tests": {ExitCode: 1, Output: "exe path tests exploded"},
		},
	}
	v, rep, cfg := newTestValidator(t, fake)

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ProjectRoot, "tests"), 0755))

	ok := v.RunSuite(context.Background(), Options{})
	assert.True(t, ok, "executable path test failures are warnings only")
	assert.True(t, fake.called("test --test executable_path_tests"))
	assert.Zero(t, rep.Summary().FailedChecks)
}
