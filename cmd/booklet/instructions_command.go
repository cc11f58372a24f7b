package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/local/booklet/internal/booklet"
)

func newInstructionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instructions",
		Short: "Show how to print the generated PDFs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), booklet.Instructions)
			return err
		},
	}
}
