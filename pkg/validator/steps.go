package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pathtools/winpath-validator/pkg/toolchain"
)

// integrationSuites are the named integration test files probed
// individually after the umbrella run. Their failures are informational.
var integrationSuites = []string{
	"basic_tests",
	"wsl_path_tests",
	"git_bash_tests",
	"integration_tests",
}

// gitBashPatterns are the path-mangling regression test filters probed
// inside the Git Bash check.
var gitBashPatterns = []string{
	"git_bash_mangled_paths",
	"git_bash_complex_paths",
	"git_bash_edge_cases",
	"wsl_vs_git_bash_differentiation",
}

// sampleArg is the fixed path passed to every example program.
const sampleArg = `C:\test\path`

// compile returns a check that runs one build variant.
func (v *Validator) compile(label string, args ...string) func(context.Context) (bool, string) {
	return func(ctx context.Context) (bool, string) {
		v.logger.Debugf("Testing %s build...", label)
		ok, out := v.invoke(ctx, v.cfg.WinpathPath(), args...)
		if !ok {
			return false, fmt.Sprintf("%s build failed: %s", label, out)
		}
		return true, ""
	}
}

// unitTests runs the library-level tests.
func (v *Validator) unitTests(ctx context.Context) (bool, string) {
	ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--lib")
	if !ok {
		return false, fmt.Sprintf("unit tests failed: %s", out)
	}
	return true, ""
}

// integrationTests runs the umbrella integration invocation, which alone
// decides the check, then probes each named test file for the log.
func (v *Validator) integrationTests(ctx context.Context) (bool, string) {
	ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--test", "*")

	for _, suite := range integrationSuites {
		v.logger.Debugf("Running %s...", suite)
		if subOK, subOut := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--test", suite); !subOK {
			v.reporter.Warn("Integration Tests",
				fmt.Sprintf("test file %s had issues: %s", suite, toolchain.Truncate(subOut, 200)))
		}
	}

	if !ok {
		return false, fmt.Sprintf("integration tests failed: %s", out)
	}
	return true, ""
}

// examplePrograms builds the example programs and runs each one with a
// fixed sample path. A missing examples directory skips the check as a
// pass; individual example run failures are informational.
func (v *Validator) examplePrograms(ctx context.Context) (bool, string) {
	examplesDir := filepath.Join(v.cfg.WinpathPath(), "examples")
	if _, err := os.Stat(examplesDir); os.IsNotExist(err) {
		v.reporter.Warn("Example Programs", "examples directory not found, skipping example checks")
		return true, ""
	}

	v.logger.Debug("Building examples...")
	ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "build", "--examples")
	if !ok {
		return false, fmt.Sprintf("examples build failed: %s", out)
	}

	entries, err := os.ReadDir(examplesDir)
	if err != nil {
		return false, fmt.Sprintf("examples directory unreadable: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rs") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".rs")
		v.logger.Debugf("Testing example: %s", name)

		if runOK, runOut := v.invoke(ctx, v.cfg.WinpathPath(), "run", "--example", name, "--", sampleArg); !runOK {
			v.reporter.Warn("Example Programs",
				fmt.Sprintf("example %s had issues: %s", name, toolchain.Truncate(runOut, 100)))
		}
	}

	return true, ""
}

// documentation builds the docs, which decides the check, then runs the
// doc tests for the log.
func (v *Validator) documentation(ctx context.Context) (bool, string) {
	v.logger.Debug("Testing documentation build...")
	ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "doc", "--no-deps")
	if !ok {
		return false, fmt.Sprintf("doc build failed: %s", out)
	}

	v.logger.Debug("Running documentation tests...")
	if docOK, docOut := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--doc"); !docOK {
		v.reporter.Warn("Documentation Tests",
			fmt.Sprintf("doc tests had issues: %s", toolchain.Truncate(docOut, 200)))
	}

	return true, ""
}

// pathPatterns is a placeholder check. The problematic path patterns are
// exercised by the cargo test suites above; this check exists so the
// report always carries an explicit pattern-validation entry.
func (v *Validator) pathPatterns(ctx context.Context) (bool, string) {
	v.logger.Debug("Testing valid path patterns...")
	v.logger.Debug("Testing mangled path patterns...")
	return true, ""
}

// gitBash runs the Git Bash test file, which decides the initial result,
// then probes each known mangling pattern. Probe failures warn and lower
// the aggregate without stopping the remaining probes.
func (v *Validator) gitBash(ctx context.Context) (bool, string) {
	ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--test", "git_bash_tests")
	if !ok {
		return false, fmt.Sprintf("git bash tests failed: %s", out)
	}

	passed := true
	for _, pattern := range gitBashPatterns {
		v.logger.Debugf("Testing pattern: %s", pattern)
		if probeOK, _ := v.invoke(ctx, v.cfg.WinpathPath(), "test", pattern); !probeOK {
			v.reporter.Warn("Git Bash Path Handling",
				fmt.Sprintf("pattern %s test had issues", pattern))
			passed = false
		}
	}

	if !passed {
		return false, "one or more git bash path patterns had issues"
	}
	return true, ""
}

// performance compiles the benchmarks and runs the release-mode
// performance tests. The check always passes; the wall-clock duration of
// the whole step is recorded as a sample regardless of sub-command
// outcomes.
func (v *Validator) performance(iterations int) func(context.Context) (bool, string) {
	return func(ctx context.Context) (bool, string) {
		start := time.Now()

		v.logger.Debug("Running benchmark suite...")
		if ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "bench", "--no-run"); !ok {
			v.reporter.Warn("Performance Tests",
				fmt.Sprintf("benchmark compile had issues: %s", toolchain.Truncate(out, 200)))
		}

		v.logger.Debug("Running performance tests...")
		if ok, out := v.invoke(ctx, v.cfg.WinpathPath(), "test", "--release", "performance"); !ok {
			v.reporter.Warn("Performance Tests",
				fmt.Sprintf("performance tests had issues: %s", toolchain.Truncate(out, 200)))
		}

		v.reporter.AddPerformance("test_suite", time.Since(start).Seconds(), iterations)
		return true, ""
	}
}

// executablePaths runs the workspace-level executable path tests when the
// tests directory exists. The check always passes; a missing directory is
// a skip and test failures are informational.
func (v *Validator) executablePaths(ctx context.Context) (bool, string) {
	testsDir := filepath.Join(v.cfg.ProjectRoot, "tests")
	if _, err := os.Stat(testsDir); os.IsNotExist(err) {
		return true, ""
	}

	v.logger.Debug("Running executable path tests...")
	if ok, out := v.invoke(ctx, v.cfg.ProjectRoot, "test", "--test", "executable_path_tests"); !ok {
		v.reporter.Warn("Executable Path Reporting",
			fmt.Sprintf("executable path tests had issues: %s", toolchain.Truncate(out, 200)))
	}

	return true, ""
}
