// Package main implements winpath-validate, the validation harness for
// the winpath path normalization library. It drives the library's build
// variants and test suites through cargo, aggregates the outcomes, and
// writes a JSON report artifact.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pathtools/winpath-validator/pkg/config"
	"github.com/pathtools/winpath-validator/pkg/report"
	"github.com/pathtools/winpath-validator/pkg/toolchain"
	"github.com/pathtools/winpath-validator/pkg/validator"
)

var (
	flagVerbose     bool
	flagPerformance bool
	flagGitBash     bool
	flagFull        bool
	flagIterations  int
	flagOutput      string
	flagConfig      string
)

var rootCmd = &cobra.Command{
	Use:   "winpath-validate",
	Short: "Validation suite for the winpath library",
	Long: `winpath-validate drives the winpath build and test suites through cargo,
aggregates every check's outcome, and writes a JSON report.

Examples:

  # Run the core checks
  winpath-validate

  # Run everything, including Git Bash and performance checks
  winpath-validate --full

  # Write the report to a specific file
  winpath-validate -o /tmp/report.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVarP(&flagPerformance, "performance", "p", false, "run performance checks")
	rootCmd.Flags().BoolVarP(&flagGitBash, "git-bash", "g", false, "run Git Bash specific checks")
	rootCmd.Flags().BoolVarP(&flagFull, "full", "f", false, "run the full suite")
	rootCmd.Flags().IntVarP(&flagIterations, "iterations", "i", validator.DefaultIterations,
		"iteration count recorded with performance samples")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file for the JSON report")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	if flagVerbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tool, err := toolchain.New(
		toolchain.WithBinary(cfg.CargoBinary),
		toolchain.WithTimeout(cfg.CommandTimeout.Duration()),
	)
	if err != nil {
		return fmt.Errorf("creating tool runner: %w", err)
	}

	rep := report.New(logger)
	v := validator.New(cfg, tool, rep, logger)

	ok := v.RunSuite(ctx, validator.Options{
		Performance: flagPerformance,
		GitBash:     flagGitBash,
		Full:        flagFull,
		Iterations:  flagIterations,
	})

	output := flagOutput
	if output == "" {
		timestamp := time.Now().Format("20060102-150405")
		output = filepath.Join(cfg.ResultsPath(), fmt.Sprintf("winpath-validation-%s.json", timestamp))
	}

	// The report is rendered even after an interrupt or a fast failure,
	// so partial runs still leave an artifact behind.
	reportOK, err := rep.Render(output)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if ctx.Err() != nil {
		logger.Warn("Validation interrupted by user")
		return fmt.Errorf("validation interrupted")
	}

	if ok && reportOK {
		logger.Info("All checks passed successfully!")
		return nil
	}
	return fmt.Errorf("some checks failed, see report %s", output)
}
