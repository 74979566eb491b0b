package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/engine"
)

func newPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <file>",
		Short: "Compile a file and report its bytecode shape and capability footprint without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			caps, _, err := resolveExecution()
			if err != nil {
				return err
			}

			preview := engine.BuildPreview(engine.Request{
				Source:       string(data),
				FileName:     args[0],
				Capabilities: caps,
			})

			if !preview.VMCompilationSucceeded {
				fmt.Println(color.RedString("compilation failed:"))
				for _, d := range preview.CompilationDiagnostics {
					fmt.Println("  " + d.String())
				}
				return nil
			}

			fmt.Printf("instructions: %d\n", preview.InstructionCount)
			fmt.Printf("constants:    %d\n", preview.ConstantCount)
			fmt.Printf("functions:    %d\n", preview.FunctionCount)
			fmt.Printf("bytecode size: %d bytes\n", preview.BytecodeSize)
			fmt.Printf("bridge symbols used: %d\n", len(preview.UsedSymbols))
			if len(preview.BlockedSymbols) > 0 {
				fmt.Println(color.YellowString("%d bridge symbols blocked by the current capability set", len(preview.BlockedSymbols)))
			}
			return nil
		},
	}
}
