package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	verr "github.com/JonasBak/gtp/error"
	"github.com/JonasBak/gtp/grammar"
	"github.com/JonasBak/gtp/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path>",
		Short:   "Check a grammar definition and report all of its errors",
		Example: `  gtp check calc.gtp`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	_, _, err := readGrammar(args[0])
	return err
}

// readGrammar loads, parses, and validates a grammar definition file. Any
// diagnostic comes back wrapped in a SpecError pointing at the offending
// line of the definition.
func readGrammar(path string) (*grammar.Grammar, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot read the grammar file %v: %w", path, err)
	}
	src := string(b)

	tree, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		var synErr *spec.SyntaxError
		if errors.As(err, &synErr) {
			return nil, src, &verr.SpecError{
				Cause:      synErr,
				Source:     src,
				SourceName: path,
				Row:        synErr.Row,
				Col:        synErr.Col,
			}
		}
		return nil, src, err
	}

	gram := grammar.NewGrammar(tree)
	if errs := gram.Validate(); len(errs) > 0 {
		specErrs := make(verr.SpecErrors, 0, len(errs))
		for _, e := range errs {
			specErrs = append(specErrs, &verr.SpecError{
				Cause:      e,
				Source:     src,
				SourceName: path,
				Row:        semanticErrorRow(e),
			})
		}
		return nil, src, specErrs
	}

	return gram, src, nil
}

func semanticErrorRow(err error) int {
	switch e := err.(type) {
	case *grammar.DuplicateNameError:
		return e.Row
	case *grammar.UndefinedRuleError:
		return e.Row
	case *grammar.InvalidPatternError:
		return e.Row
	}
	return 0
}
