package main

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print a grammar in a readable format",
		Example: `  gtp show calc.gtp`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	gram, _, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	gram.WriteDescription(os.Stdout)
	return nil
}
