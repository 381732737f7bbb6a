package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirlang/internal/facts"
	"wirlang/internal/liveness"
	"wirlang/internal/loanlive"
	"wirlang/internal/lower"
	"wirlang/internal/wir"
	"wirlang/internal/wirfixture"
)

var dumpWIRCmd = &cobra.Command{
	Use:   "dump-wir <module.json>",
	Short: "Lower a typed-AST module and print its WIR text form",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpWIR,
}

func init() {
	dumpWIRCmd.Flags().Bool("dataflow", false, "also print gen/kill/live-in/live-out bitsets per program point")
}

func runDumpWIR(cmd *cobra.Command, args []string) error {
	tmod, err := wirfixture.Load(args[0])
	if err != nil {
		return err
	}
	module, lowerErrs := lower.Module(tmod)
	for _, e := range lowerErrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "lower: %s\n", e.Error())
	}

	out := cmd.OutOrStdout()
	if err := wir.Dump(out, module); err != nil {
		return fmt.Errorf("dump-wir: %w", err)
	}

	showDataflow, _ := cmd.Flags().GetBool("dataflow")
	if !showDataflow {
		return nil
	}

	for _, fn := range module.Funcs {
		fmt.Fprintf(out, "\n-- dataflow: %s --\n", fn.Name)
		facts.CollectLoans(fn)
		liveness.Run(fn)
		idx := facts.BuildAliasIndex(fn)
		sets := facts.BuildLoanSets(fn, idx)
		live := loanlive.Run(fn, sets)
		for p := 0; p < fn.NumPoints; p++ {
			fmt.Fprintf(out, "  point %d: gen=%v kill=%v loans-live-in=%v loans-live-out=%v\n",
				p, sets.Gen[p].ToSlice(), sets.Kill[p].ToSlice(),
				live.LiveIn[p].ToSlice(), live.LiveOut[p].ToSlice())
		}
	}
	return nil
}
