package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootFlags = struct {
	config *string
}{}

var rootCmd = &cobra.Command{
	Use:   "gtp",
	Short: "Parse text with a grammar you define",
	Long: `gtp compiles a grammar definition and parses text with it:
- Checks a grammar definition and reports all of its errors.
- Parses text into a syntax tree and prints the tree as JSON, YAML, or a diagram.
- Runs tree test cases against a grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "config file path (default .gtp.yaml in the working directory or $HOME)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "gtp version %v\n", version)
		},
	})
}

func Execute() error {
	return rootCmd.Execute()
}
