package grammar

import (
	"fmt"
	"io"
	"strings"
)

// WriteDescription reconstructs the grammar in its textual source form:
// non-terminal rules first, then terminal rules, each section in
// declaration order.
func (g *Grammar) WriteDescription(w io.Writer) {
	width := 0
	for _, name := range g.ruleOrder {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range g.termOrder {
		// +1 for the terminal marker.
		if len(name)+1 > width {
			width = len(name) + 1
		}
	}
	for _, name := range g.ruleOrder {
		fmt.Fprintf(w, "%-*v -> %v;\n", width, name, describeExpression(g.rules[name], false))
	}
	if len(g.ruleOrder) > 0 && len(g.termOrder) > 0 {
		fmt.Fprintln(w)
	}
	for _, name := range g.termOrder {
		fmt.Fprintf(w, "%-*v -> '%v';\n", width, ">"+name, strings.ReplaceAll(g.terminals[name].Source, "'", `\'`))
	}
}

// Description returns WriteDescription's output as a string.
func (g *Grammar) Description() string {
	var b strings.Builder
	g.WriteDescription(&b)
	return b.String()
}

func describeExpression(expr Expression, nested bool) string {
	switch e := expr.(type) {
	case *Reference:
		return e.Name
	case *Sequence:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = describeExpression(item, true)
		}
		s := strings.Join(items, " ")
		if nested {
			return "( " + s + " )"
		}
		return s
	case *Choice:
		alts := make([]string, len(e.Alternatives))
		for i, alt := range e.Alternatives {
			// | binds looser than juxtaposition, so a sequence alternative
			// needs no parentheses.
			_, isChoice := alt.(*Choice)
			alts[i] = describeExpression(alt, isChoice)
		}
		s := strings.Join(alts, " | ")
		if nested {
			return "( " + s + " )"
		}
		return s
	case *Repetition:
		op := "*"
		if e.Min == 1 {
			op = "+"
		}
		return "( " + describeExpression(e.Inner, false) + " )" + op
	case *Optional:
		return "( " + describeExpression(e.Inner, false) + " )?"
	case *Terminal:
		return e.Name
	}
	return ""
}
