// Package report accumulates the results of a validation run and renders
// them as a console summary and a persisted JSON artifact.
//
// A Reporter is owned by a single run and is touched only by the calling
// goroutine; checks execute strictly in sequence, so no locking is needed.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// logExcerptLen bounds failure messages in log lines. The full message is
// always preserved in the persisted report.
const logExcerptLen = 500

// CheckError records a single failed check.
type CheckError struct {
	// Test is the name of the failed check.
	Test string

	// Error is the full failure message, typically the combined output
	// of the failing tool invocation.
	Error string

	// Time is when the failure was recorded.
	Time time.Time
}

// PerformanceSample records the timing of one performance measurement.
type PerformanceSample struct {
	// Duration is the measured wall-clock time in seconds.
	Duration float64 `json:"duration"`

	// Iterations is the configured iteration count. It is informational
	// and does not reflect how many times anything actually ran.
	Iterations int `json:"iterations"`
}

// Summary is a point-in-time copy of a Reporter's accumulated state.
type Summary struct {
	TotalChecks  int
	PassedChecks int
	FailedChecks int
	StartTime    time.Time
	Errors       []CheckError
	Performance  map[string]PerformanceSample
}

// Reporter accumulates check results for one validation run.
type Reporter struct {
	logger      *logrus.Logger
	runID       string
	total       int
	passed      int
	failed      int
	errors      []CheckError
	performance map[string]PerformanceSample
	start       time.Time
}

// New creates a Reporter for a fresh run.
func New(logger *logrus.Logger) *Reporter {
	return &Reporter{
		logger:      logger,
		runID:       uuid.NewString(),
		performance: make(map[string]PerformanceSample),
		start:       time.Now(),
	}
}

// RunID returns the unique identifier assigned to this run.
func (r *Reporter) RunID() string {
	return r.runID
}

// Start registers a check as counted and logs that it is running.
// Every Start must be paired with exactly one Complete.
func (r *Reporter) Start(name string) {
	r.total++
	r.logger.Infof("Running check: %s", name)
}

// Complete records the outcome of a started check. On failure the full
// message is retained for the report and an excerpt is logged.
func (r *Reporter) Complete(name string, passed bool, errMsg string) {
	if passed {
		r.passed++
		r.logger.Infof("%s completed successfully", name)
		return
	}

	r.failed++
	r.errors = append(r.errors, CheckError{
		Test:  name,
		Error: errMsg,
		Time:  time.Now(),
	})

	excerpt := errMsg
	if len(excerpt) > logExcerptLen {
		excerpt = excerpt[:logExcerptLen] + "..."
	}
	r.logger.Errorf("%s failed: %s", name, excerpt)
}

// Warn logs an informational sub-result for a check. It never touches the
// counters; a check with warnings can still pass.
func (r *Reporter) Warn(name, msg string) {
	r.logger.Warnf("%s: %s", name, msg)
}

// AddPerformance records a named performance sample.
func (r *Reporter) AddPerformance(name string, seconds float64, iterations int) {
	r.performance[name] = PerformanceSample{
		Duration:   seconds,
		Iterations: iterations,
	}
}

// Summary returns a copy of the accumulated counters and results.
func (r *Reporter) Summary() Summary {
	errs := make([]CheckError, len(r.errors))
	copy(errs, r.errors)

	perf := make(map[string]PerformanceSample, len(r.performance))
	for k, v := range r.performance {
		perf[k] = v
	}

	return Summary{
		TotalChecks:  r.total,
		PassedChecks: r.passed,
		FailedChecks: r.failed,
		StartTime:    r.start,
		Errors:       errs,
		Performance:  perf,
	}
}

// Render prints the run summary and, if path is non-empty, writes the JSON
// artifact there, creating parent directories as needed. It returns true
// when no check failed.
func (r *Reporter) Render(path string) (bool, error) {
	end := time.Now()
	duration := end.Sub(r.start)

	r.logger.Info("=== WinPath Validation Report ===")
	r.logger.Infof("Test Duration: %.2f seconds", duration.Seconds())
	r.logger.Infof("Total Checks: %d", r.total)
	r.logger.Infof("Passed: %d", r.passed)

	if r.failed > 0 {
		r.logger.Errorf("Failed: %d", r.failed)
		r.logger.Info("Errors:")
		for _, e := range r.errors {
			excerpt := e.Error
			if len(excerpt) > logExcerptLen {
				excerpt = excerpt[:logExcerptLen] + "..."
			}
			r.logger.Errorf("  %s: %s", e.Test, excerpt)
		}
	}

	if len(r.performance) > 0 {
		r.logger.Info("Performance Results:")
		for name, sample := range r.performance {
			r.logger.Infof("  %s: %.2fs", name, sample.Duration)
		}
	}

	if path != "" {
		if err := r.write(path, end); err != nil {
			return false, fmt.Errorf("write report: %w", err)
		}
		r.logger.Infof("Report written to: %s", path)
	}

	return r.failed == 0, nil
}

// Report is the persisted artifact shape.
type Report struct {
	RunID       string                       `json:"run_id"`
	Summary     ReportSummary                `json:"summary"`
	Errors      []ReportError                `json:"errors"`
	Performance map[string]PerformanceSample `json:"performance"`
}

// ReportSummary holds the aggregate counters of a run. Timestamps and the
// duration are Unix-epoch float seconds.
type ReportSummary struct {
	TotalTests  int     `json:"total_tests"`
	PassedTests int     `json:"passed_tests"`
	FailedTests int     `json:"failed_tests"`
	Duration    float64 `json:"duration"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
}

// ReportError is the persisted form of a CheckError.
type ReportError struct {
	Test  string  `json:"test"`
	Error string  `json:"error"`
	Time  float64 `json:"time"`
}

func (r *Reporter) write(path string, end time.Time) error {
	errs := make([]ReportError, 0, len(r.errors))
	for _, e := range r.errors {
		errs = append(errs, ReportError{
			Test:  e.Test,
			Error: e.Error,
			Time:  epochSeconds(e.Time),
		})
	}

	perf := make(map[string]PerformanceSample, len(r.performance))
	for k, v := range r.performance {
		perf[k] = v
	}

	rep := Report{
		RunID: r.runID,
		Summary: ReportSummary{
			TotalTests:  r.total,
			PassedTests: r.passed,
			FailedTests: r.failed,
			Duration:    end.Sub(r.start).Seconds(),
			StartTime:   epochSeconds(r.start),
			EndTime:     epochSeconds(end),
		},
		Errors:      errs,
		Performance: perf,
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report file %s: %w", path, err)
	}

	return nil
}

// Load reads a previously written report artifact.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file %s: %w", path, err)
	}

	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report file %s: %w", path, err)
	}

	return &rep, nil
}

func epochSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}
