package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vibescript CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("vibescript version %s\n", version)
			return nil
		},
	}
}
