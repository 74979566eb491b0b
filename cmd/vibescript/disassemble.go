package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/bytecode"
)

func newDisassembleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disassemble <file.vbc>",
		Short: "Print a human-readable instruction listing for a compiled .vbc file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			instructions, err := bytecode.Disassemble(code)
			if err != nil {
				return err
			}
			for i, instr := range instructions {
				fmt.Printf("%5d: %-16s %v\n", i, instr.Op, instr.Operands)
			}
			return nil
		},
	}
}
