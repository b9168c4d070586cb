// Package validator drives the winpath validation suite.
//
// The suite is a fixed, ordered list of named checks. Each check invokes
// the build tool one or more times, classifies the outcome, and feeds
// exactly one result into the report. Checks are independent: a failing
// check never aborts the remaining checklist. Only context cancellation
// (an operator interrupt) stops the run early.
//
// Some checks carry informational sub-probes whose failures are logged as
// warnings without counting toward the totals; the check contract below
// spells out which.
package validator

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pathtools/winpath-validator/pkg/config"
	"github.com/pathtools/winpath-validator/pkg/report"
	"github.com/pathtools/winpath-validator/pkg/toolchain"
)

// DefaultIterations is the iteration count recorded with performance
// samples when none is configured.
const DefaultIterations = 1000

// Options selects the optional parts of the suite.
type Options struct {
	// Performance enables the performance check.
	Performance bool

	// GitBash enables the Git Bash path handling check.
	GitBash bool

	// Full enables every optional check.
	Full bool

	// Iterations is recorded with performance samples. It does not
	// change how many times anything runs.
	Iterations int
}

// Validator orchestrates the validation suite.
type Validator struct {
	cfg      *config.Config
	logger   *logrus.Logger
	reporter *report.Reporter
	tool     toolchain.Runner
}

// New creates a Validator. The Reporter is shared with the caller, which
// renders it after the suite finishes.
func New(cfg *config.Config, tool toolchain.Runner, rep *report.Reporter, logger *logrus.Logger) *Validator {
	return &Validator{
		cfg:      cfg,
		logger:   logger,
		reporter: rep,
		tool:     tool,
	}
}

// step is one named unit of the suite. run returns the check's pass/fail
// and, on failure, the full failure message.
type step struct {
	name string
	run  func(ctx context.Context) (bool, string)
}

// RunSuite executes the checklist in order and reports whether the run as
// a whole passed. The authoritative signal is the reporter's failure
// count: the suite passes iff at least one check ran and none failed.
//
// If the library directory does not exist the suite fails fast with zero
// recorded checks. On context cancellation the remaining checklist is
// abandoned; results recorded so far stay in the reporter.
func (v *Validator) RunSuite(ctx context.Context, opts Options) bool {
	v.logger.Info("WinPath Validation Suite")
	v.logger.Info("========================")
	v.logger.Infof("Project root: %s", v.cfg.ProjectRoot)
	v.logger.Infof("WinPath directory: %s", v.cfg.WinpathPath())

	if _, err := os.Stat(v.cfg.WinpathPath()); os.IsNotExist(err) {
		v.logger.Errorf("WinPath directory not found: %s", v.cfg.WinpathPath())
		return false
	}

	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}

	for _, s := range v.steps(opts) {
		if ctx.Err() != nil {
			v.logger.Warnf("Suite aborted: %v", ctx.Err())
			return false
		}
		v.reporter.Start(s.name)
		passed, msg := s.run(ctx)
		v.reporter.Complete(s.name, passed, msg)
	}

	sum := v.reporter.Summary()
	return sum.TotalChecks > 0 && sum.FailedChecks == 0
}

// steps builds the ordered checklist for this run. The conditional checks
// keep the original suite's position, between the pattern validation and
// the executable path check.
func (v *Validator) steps(opts Options) []step {
	steps := []step{
		{"Compile (debug)", v.compile("debug", "build")},
		{"Compile (release)", v.compile("release", "build", "--release")},
		{"Compile (all features)", v.compile("all-features", "build", "--all-features")},
		{"Unit Tests", v.unitTests},
		{"Integration Tests", v.integrationTests},
		{"Example Programs", v.examplePrograms},
		{"Documentation Tests", v.documentation},
		{"Path Pattern Validation", v.pathPatterns},
	}

	if opts.GitBash || opts.Full {
		steps = append(steps, step{"Git Bash Path Handling", v.gitBash})
	}
	if opts.Performance || opts.Full {
		steps = append(steps, step{"Performance Tests", v.performance(opts.Iterations)})
	}

	steps = append(steps, step{"Executable Path Reporting", v.executablePaths})
	return steps
}

// invoke runs one tool command in dir and classifies the outcome.
// Invocation errors and timeouts are failures with a descriptive message;
// a non-zero exit fails with the combined output. The full output is
// returned; callers truncate only for logging.
func (v *Validator) invoke(ctx context.Context, dir string, args ...string) (bool, string) {
	res, err := v.tool.Run(ctx, dir, args...)
	if err != nil {
		return false, err.Error()
	}

	if res.TimedOut {
		return false, fmt.Sprintf("cargo %s: command timed out", strings.Join(args, " "))
	}

	if res.Output != "" {
		v.logger.Debugf("cargo %s output: %s", strings.Join(args, " "), toolchain.Truncate(res.Output, 500))
	}

	if res.ExitCode != 0 {
		return false, res.Output
	}
	return true, ""
}
