package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonasBak/gtp/config"
	"github.com/JonasBak/gtp/driver"
	verr "github.com/JonasBak/gtp/error"
	"github.com/JonasBak/gtp/grammar"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseFlags = struct {
	inputFile        *string
	stdin            *bool
	output           *string
	bubble           *bool
	ignoreAll        *bool
	ignoreNewline    *bool
	ignoreWhitespace *bool
	start            *string
	maxDepth         *int
	partial          *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path> [input]",
		Short: "Parse text with a grammar",
		Example: `  gtp parse calc.gtp '4+3x5'
  cat src.bf | gtp parse bf.gtp --stdin -o tree`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runParse,
	}
	parseFlags.inputFile = cmd.Flags().StringP("input-file", "i", "", "read the input from a file")
	parseFlags.stdin = cmd.Flags().Bool("stdin", false, "read the input from stdin")
	parseFlags.output = cmd.Flags().StringP("output", "o", "json", "output format: json, yaml, or tree")
	parseFlags.bubble = cmd.Flags().Bool("bubble", false, "collapse internal nodes that have a single child")
	parseFlags.ignoreAll = cmd.Flags().Bool("ignore-all", false, "skip whitespace and newlines between terminals")
	parseFlags.ignoreNewline = cmd.Flags().Bool("ignore-newline", false, "skip newlines between terminals")
	parseFlags.ignoreWhitespace = cmd.Flags().Bool("ignore-whitespace", false, "skip spaces and tabs between terminals")
	parseFlags.start = cmd.Flags().String("start", "", "start rule (default START, or the first rule in the grammar)")
	parseFlags.maxDepth = cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "rule expansion depth limit")
	parseFlags.partial = cmd.Flags().Bool("partial", false, "allow trailing unconsumed input")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(*rootFlags.config)
	if err != nil {
		return err
	}
	applyParseFlags(cmd, cfg)
	err = cfg.Validate()
	if err != nil {
		return err
	}

	gram, _, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	input, inputName, hasInput, err := readInput(args)
	if err != nil {
		return err
	}
	if !hasInput {
		gram.WriteDescription(os.Stdout)
		return nil
	}

	p, err := newParser(gram, cfg)
	if err != nil {
		return err
	}

	root, end, err := p.ParsePrefix(input)
	if err != nil {
		var parseErr *driver.ParseError
		if errors.As(err, &parseErr) {
			cause := errors.New("parse failed")
			if len(parseErr.Expected) > 0 {
				cause = fmt.Errorf("parse failed: expected %v", strings.Join(parseErr.Expected, ", "))
			}
			return &verr.SpecError{
				Cause:      cause,
				Source:     input,
				SourceName: inputName,
				Row:        parseErr.Row,
				Col:        parseErr.Col,
			}
		}
		return err
	}

	if !cfg.Partial {
		rest := p.Rest(input, end)
		if rest != "" {
			pos := len(input) - len(rest)
			row, col := rowCol(input, pos)
			return &verr.SpecError{
				Cause:      fmt.Errorf("input not fully consumed: %v bytes remain", len(rest)),
				Source:     input,
				SourceName: inputName,
				Row:        row,
				Col:        col,
			}
		}
	}

	return writeTree(os.Stdout, root, cfg.Output)
}

// applyParseFlags overlays flags the user set on top of the loaded config.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Output = *parseFlags.output
	}
	if cmd.Flags().Changed("bubble") {
		cfg.Bubble = *parseFlags.bubble
	}
	if cmd.Flags().Changed("partial") {
		cfg.Partial = *parseFlags.partial
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = *parseFlags.maxDepth
	}
	if cmd.Flags().Changed("ignore-whitespace") {
		cfg.Ignore.Whitespace = *parseFlags.ignoreWhitespace
	}
	if cmd.Flags().Changed("ignore-newline") {
		cfg.Ignore.Newline = *parseFlags.ignoreNewline
	}
	if *parseFlags.ignoreAll {
		cfg.Ignore.Whitespace = true
		cfg.Ignore.Newline = true
	}
}

func readInput(args []string) (string, string, bool, error) {
	switch {
	case len(args) > 1:
		return args[1], "input", true, nil
	case *parseFlags.inputFile != "":
		b, err := os.ReadFile(*parseFlags.inputFile)
		if err != nil {
			return "", "", false, fmt.Errorf("cannot read the input file %v: %w", *parseFlags.inputFile, err)
		}
		return string(b), *parseFlags.inputFile, true, nil
	case *parseFlags.stdin:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", false, fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(b), "stdin", true, nil
	}
	return "", "", false, nil
}

func newParser(gram *grammar.Grammar, cfg *config.Config) (*driver.Parser, error) {
	opts := []driver.ParserOption{
		driver.MaxDepth(cfg.MaxDepth),
	}
	if cfg.Ignore.Whitespace {
		opts = append(opts, driver.IgnoreWhitespace())
	}
	if cfg.Ignore.Newline {
		opts = append(opts, driver.IgnoreNewline())
	}
	if cfg.Bubble {
		opts = append(opts, driver.WithBubble())
	}
	if *parseFlags.start != "" {
		opts = append(opts, driver.StartRule(*parseFlags.start))
	}
	return driver.NewParser(gram, opts...)
}

func writeTree(w io.Writer, root *driver.Node, format string) error {
	switch format {
	case "json":
		b, err := json.Marshal(root)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v\n", string(b))
	case "yaml":
		b, err := yaml.Marshal(root)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(b))
	case "tree":
		driver.PrintTree(w, root)
	default:
		return fmt.Errorf("invalid output format %q: must be json, yaml, or tree", format)
	}
	return nil
}

func rowCol(input string, pos int) (int, int) {
	row := 1
	col := 1
	for _, c := range input[:pos] {
		if c == '\n' {
			row++
			col = 1
		} else {
			col++
		}
	}
	return row, col
}
