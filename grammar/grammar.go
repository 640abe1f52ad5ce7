package grammar

import (
	"regexp"

	"github.com/JonasBak/gtp/spec"
)

// StartRuleName is the rule used as the entry point when a grammar declares
// it. Otherwise the first declared non-terminal is the start rule.
const StartRuleName = "START"

// Grammar maps rule names to their bodies. Rules and terminals live in
// separate namespaces; references are resolved against rules first.
//
// A Grammar must be validated before it is handed to a driver. After
// Validate has succeeded the Grammar is never mutated again, so a single
// instance can back any number of concurrent parsers.
type Grammar struct {
	rules     map[string]Expression
	terminals map[string]*Terminal
	rulePos   map[string]spec.Position
	ruleOrder []string
	termOrder []string
	start     string
	duplicate []error
	validated bool
}

// NewGrammar builds an unvalidated grammar from a parse tree. Multiple
// declarations of the same rule name accumulate into one ordered choice in
// declaration order.
func NewGrammar(tree *spec.RootNode) *Grammar {
	g := &Grammar{
		rules:     map[string]Expression{},
		terminals: map[string]*Terminal{},
		rulePos:   map[string]spec.Position{},
	}
	for _, rule := range tree.Rules {
		if rule.Terminal {
			g.addTerminal(rule)
		} else {
			g.addRule(rule)
		}
	}
	if _, ok := g.rules[StartRuleName]; ok {
		g.start = StartRuleName
	} else if len(g.ruleOrder) > 0 {
		g.start = g.ruleOrder[0]
	}
	return g
}

func (g *Grammar) addRule(rule *spec.RuleNode) {
	if _, ok := g.terminals[rule.Name]; ok {
		g.duplicate = append(g.duplicate, &DuplicateNameError{
			Name: rule.Name,
			Row:  rule.Pos.Row,
		})
		return
	}
	body := buildAlternatives(rule.RHS)
	existing, ok := g.rules[rule.Name]
	if !ok {
		g.rules[rule.Name] = body
		g.rulePos[rule.Name] = rule.Pos
		g.ruleOrder = append(g.ruleOrder, rule.Name)
		return
	}
	if choice, ok := existing.(*Choice); ok {
		choice.Alternatives = append(choice.Alternatives, body)
		return
	}
	g.rules[rule.Name] = &Choice{
		Alternatives: []Expression{existing, body},
	}
}

func (g *Grammar) addTerminal(rule *spec.RuleNode) {
	_, isRule := g.rules[rule.Name]
	_, isTerm := g.terminals[rule.Name]
	if isRule || isTerm {
		g.duplicate = append(g.duplicate, &DuplicateNameError{
			Name: rule.Name,
			Row:  rule.Pos.Row,
		})
		return
	}
	g.terminals[rule.Name] = &Terminal{
		Name:   rule.Name,
		Source: rule.Pattern,
	}
	g.rulePos[rule.Name] = rule.Pos
	g.termOrder = append(g.termOrder, rule.Name)
}

func buildAlternatives(alts []*spec.AlternativeNode) Expression {
	if len(alts) == 1 {
		return buildSequence(alts[0])
	}
	exprs := make([]Expression, len(alts))
	for i, alt := range alts {
		exprs[i] = buildSequence(alt)
	}
	return &Choice{
		Alternatives: exprs,
	}
}

func buildSequence(alt *spec.AlternativeNode) Expression {
	if len(alt.Elements) == 1 {
		return buildElement(alt.Elements[0])
	}
	items := make([]Expression, len(alt.Elements))
	for i, elem := range alt.Elements {
		items[i] = buildElement(elem)
	}
	return &Sequence{
		Items: items,
	}
}

func buildElement(elem *spec.ElementNode) Expression {
	if elem.Group == nil {
		return &Reference{
			Name: elem.ID,
		}
	}
	inner := buildAlternatives(elem.Group.Alternatives)
	switch elem.Group.Op {
	case spec.RepeatZeroOrMore:
		return &Repetition{
			Inner: inner,
			Min:   0,
		}
	case spec.RepeatOneOrMore:
		return &Repetition{
			Inner: inner,
			Min:   1,
		}
	case spec.RepeatOptional:
		return &Optional{
			Inner: inner,
		}
	}
	return inner
}

// Validate checks the grammar for structural soundness and compiles the
// terminal patterns. It returns every violation found. A grammar whose
// Validate returned no errors is safe to parse with and is immutable from
// then on.
//
// Left recursion is deliberately not detected here; a left-recursive
// grammar fails at parse time when the driver's recursion guard trips.
func (g *Grammar) Validate() []error {
	var errs []error
	errs = append(errs, g.duplicate...)
	for _, name := range g.termOrder {
		term := g.terminals[name]
		_, err := regexp.Compile(term.Source)
		if err != nil {
			errs = append(errs, &InvalidPatternError{
				Terminal: name,
				Pattern:  term.Source,
				Row:      g.rulePos[name].Row,
				Cause:    err,
			})
			continue
		}
		// Matching is always anchored at the cursor, never searching ahead.
		term.Pattern = regexp.MustCompile(`^(?:` + term.Source + `)`)
	}
	for _, name := range g.ruleOrder {
		g.validateRefs(g.rules[name], name, &errs)
	}
	if g.start == "" {
		errs = append(errs, &MissingStartRuleError{})
	}
	if len(errs) > 0 {
		return errs
	}
	g.validated = true
	return nil
}

func (g *Grammar) validateRefs(expr Expression, referrer string, errs *[]error) {
	switch e := expr.(type) {
	case *Reference:
		if _, ok := g.rules[e.Name]; ok {
			return
		}
		if _, ok := g.terminals[e.Name]; ok {
			return
		}
		*errs = append(*errs, &UndefinedRuleError{
			Rule:     e.Name,
			Referrer: referrer,
			Row:      g.rulePos[referrer].Row,
		})
	case *Sequence:
		for _, item := range e.Items {
			g.validateRefs(item, referrer, errs)
		}
	case *Choice:
		for _, alt := range e.Alternatives {
			g.validateRefs(alt, referrer, errs)
		}
	case *Repetition:
		g.validateRefs(e.Inner, referrer, errs)
	case *Optional:
		g.validateRefs(e.Inner, referrer, errs)
	}
}

// Validated reports whether Validate has succeeded on this grammar.
func (g *Grammar) Validated() bool {
	return g.validated
}

// Start returns the start rule name.
func (g *Grammar) Start() string {
	return g.start
}

// Rule returns the body of a non-terminal rule.
func (g *Grammar) Rule(name string) (Expression, bool) {
	expr, ok := g.rules[name]
	return expr, ok
}

// Terminal returns a terminal rule.
func (g *Grammar) Terminal(name string) (*Terminal, bool) {
	term, ok := g.terminals[name]
	return term, ok
}

// RuleNames returns the non-terminal rule names in declaration order.
func (g *Grammar) RuleNames() []string {
	return g.ruleOrder
}

// TerminalNames returns the terminal rule names in declaration order.
func (g *Grammar) TerminalNames() []string {
	return g.termOrder
}
