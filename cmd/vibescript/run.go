package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibescript/vibescript/pkg/bridge"
	"github.com/vibescript/vibescript/pkg/engine"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run a vibescript source file",
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

			result, err := engine.CompileAndRun(engine.Request{
				Source:        string(data),
				FileName:      args[0],
				Capabilities:  caps,
				Limits:        limits,
				BridgeRuntime: bridge.NewDefaultRuntime(),
			})
			for _, line := range result.Output {
				fmt.Println(line)
			}
			if err != nil {
				return err
			}
			return nil
		},
	}
}
