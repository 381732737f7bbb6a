// Command wirc hosts the borrow checker as a CLI: it lowers a typed-AST
// module to WIR, runs the checker, and renders the resulting diagnostics.
// It is a host harness one layer above the core — the CLI consumes the
// checker library, it is not part of it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wirlang/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "wirc",
	Short: "WIR borrow checker toolchain",
	Long:  `wirc lowers typed-AST modules to WIR and runs the borrow checker over them.`,
}

var (
	timeoutCancel context.CancelFunc
	traceCleanup  func()
)

func main() {
	rootCmd.Version = version.VersionString()
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpWIRCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 256, "maximum diagnostics per function")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel function checks (0=auto)")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk function cache")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (- or empty for stderr; tracing is enabled by --trace-level)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
	timeoutCancel = cancel
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	traceCleanup = cleanup

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}
