package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wirlang/internal/check"
	"wirlang/internal/diag"
	"wirlang/internal/driver"
	"wirlang/internal/lower"
	"wirlang/internal/source"
	"wirlang/internal/trace"
	"wirlang/internal/ui"
	"wirlang/internal/wircache"
	"wirlang/internal/wirconfig"
	"wirlang/internal/wirfixture"

	"wirlang/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check <module.json>",
	Short: "Lower a typed-AST module and run the borrow checker over it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("ui", "auto", "interactive progress display (auto|on|off)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("show-place", false, "print the offending place path per diagnostic")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	suggest, _ := cmd.Flags().GetBool("suggest")
	showPlace, _ := cmd.Flags().GetBool("show-place")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	jobs, _ := cmd.Root().PersistentFlags().GetInt("jobs")
	noCache, _ := cmd.Root().PersistentFlags().GetBool("no-cache")
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")

	manifest, found, err := wirconfig.Load(".")
	if err != nil {
		return fmt.Errorf("loading wir.toml: %w", err)
	}
	cfg := wirconfig.Default("wirc")
	if found {
		cfg = manifest.Config
	}
	if cfg.Check.MaxDiagnostics <= 0 {
		cfg.Check.MaxDiagnostics = maxDiagnostics
	}
	if cfg.Check.Jobs <= 0 {
		cfg.Check.Jobs = jobs
	}
	if noCache {
		cfg.Check.DisableCache = true
	}

	tmod, err := wirfixture.Load(path)
	if err != nil {
		return err
	}
	module, lowerErrs := lower.Module(tmod)
	if len(lowerErrs) > 0 {
		for _, e := range lowerErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "lower: %s\n", e.Error())
		}
		return fmt.Errorf("lowering failed with %d error(s)", len(lowerErrs))
	}

	var cache *wircache.DiskCache
	if !cfg.Check.DisableCache {
		cache, err = wircache.Open("wirc")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache unavailable: %v\n", err)
			cache = nil
		}
	}

	opts := driver.Options{
		Check: check.Options{
			MaxDiagnostics: cfg.Check.MaxDiagnostics,
			Jobs:           cfg.Check.Jobs,
		},
		Cache:  cache,
		Tracer: trace.FromContext(cmd.Context()),
	}

	names := make([]string, len(module.Funcs))
	for i, f := range module.Funcs {
		names[i] = f.Name
	}

	useTUI := shouldUseTUI(mode)
	if !useTUI {
		bag, err := driver.Run(cmd.Context(), module, opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return renderBag(cmd, bag, withNotes, suggest, showPlace, colorFlag)
	}

	events := make(chan driver.Event, 64)
	opts.Progress = events
	type outcome struct {
		bag *diag.Bag
		err error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		bag, err := driver.Run(cmd.Context(), module, opts)
		close(events)
		resultCh <- outcome{bag, err}
	}()

	model := ui.NewProgressModel("wirc check "+path, names, events)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("progress UI failed: %w", err)
	}

	res := <-resultCh
	if res.err != nil {
		return fmt.Errorf("check failed: %w", res.err)
	}
	return renderBag(cmd, res.bag, withNotes, suggest, showPlace, colorFlag)
}

func renderBag(cmd *cobra.Command, bag *diag.Bag, withNotes, suggest, showPlace bool, colorFlag string) error {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet && !bag.HasErrors() {
		return nil
	}

	fs := source.NewFileSet()
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	render.Pretty(cmd.OutOrStdout(), bag, fs, render.Options{
		Color:     useColor,
		Context:   1,
		Width:     render.TerminalWidth(100),
		ShowNotes: withNotes,
		ShowFixes: suggest,
		ShowPlace: showPlace,
	})

	if bag.HasErrors() {
		return fmt.Errorf("%d diagnostic(s) found", bag.Len())
	}
	return nil
}
