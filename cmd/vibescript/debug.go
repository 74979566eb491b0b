package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/engine"
	"github.com/vibescript/vibescript/pkg/vm"
)

func newDebugCommand() *cobra.Command {
	var breakAt []int
	var stepFromStart bool

	cmd := &cobra.Command{
		Use:   "debug <file>",
		Short: "Run a file under the interactive instruction debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			caps, limits, err := resolveExecution()
			if err != nil {
				return err
			}

			program, diags := engine.Compile(string(data), args[0], caps)
			for _, d := range diags {
				fmt.Println(d.String())
			}
			if program == nil {
				return fmt.Errorf("compilation of %s failed", args[0])
			}

			machine := vm.New(program, bridge.NewDefaultRuntime())
			debugger := vm.NewDebugger(machine, os.Stdin, os.Stdout)
			for _, pc := range breakAt {
				debugger.AddBreakpoint(pc)
			}
			if stepFromStart {
				debugger.AddBreakpoint(0)
			}
			machine = machine.WithDebugger(debugger)

			result, err := machine.Run(caps, limits)
			if err != nil {
				return err
			}
			for _, out := range result.Output {
				fmt.Println(out)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&breakAt, "break", nil, "instruction index to break at (repeatable)")
	cmd.Flags().BoolVar(&stepFromStart, "step", false, "pause before the first instruction")
	return cmd
}
