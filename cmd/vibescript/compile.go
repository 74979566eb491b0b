package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/capability"
	"github.com/vibescript/vibescript/pkg/engine"
)

func newCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <in> [out]",
		Short: "Compile a vibescript source file to a .vbc bytecode file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			outputFile := ""
			if len(args) == 2 {
				outputFile = args[1]
			} else if strings.HasSuffix(inputFile, ".vbs") {
				outputFile = strings.TrimSuffix(inputFile, ".vbs") + ".vbc"
			} else {
				outputFile = inputFile + ".vbc"
			}

			data, err := os.ReadFile(inputFile)
			if err != nil {
				return err
			}
			program, diags := engine.Compile(string(data), inputFile, capability.NewSet())
			for _, d := range diags {
				fmt.Fprintln(os.Stderr, d.String())
			}
			if program == nil {
				return fmt.Errorf("compilation of %s failed", inputFile)
			}
			if err := os.WriteFile(outputFile, program.Code, 0o644); err != nil {
				return err
			}
			fmt.Printf("compiled %s -> %s\n", filepath.Base(inputFile), outputFile)
			return nil
		},
	}
}
