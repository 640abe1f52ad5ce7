package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JonasBak/gtp/config"
	"github.com/JonasBak/gtp/tester"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  gtp test calc.gtp tests`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(*rootFlags.config)
	if err != nil {
		return err
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	gram, _, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	p, err := newParser(gram, cfg)
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("cannot run tests")
		}
	}

	t := &tester.Tester{
		Parser: p,
		Cases:  cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		if r.Error != nil {
			fmt.Fprintln(os.Stdout, color.RedString("%v", r))
			testFailed = true
		} else {
			fmt.Fprintln(os.Stdout, color.GreenString("%v", r))
		}
	}
	if testFailed {
		return errors.New("test failed")
	}
	return nil
}
