package grammar

import "fmt"

// UndefinedRuleError means a rule body references a name that no rule or
// terminal declares.
type UndefinedRuleError struct {
	Rule     string
	Referrer string
	Row      int
}

func (e *UndefinedRuleError) Error() string {
	return fmt.Sprintf("undefined rule: %v is referenced in %v but is not declared", e.Rule, e.Referrer)
}

// InvalidPatternError means a terminal's pattern does not compile as a
// regular expression.
type InvalidPatternError struct {
	Terminal string
	Pattern  string
	Row      int
	Cause    error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern in terminal %v: %v", e.Terminal, e.Cause)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Cause
}

// MissingStartRuleError means the designated start rule is not declared.
// Start is empty when the grammar declares no non-terminal rule at all.
type MissingStartRuleError struct {
	Start string
}

func (e *MissingStartRuleError) Error() string {
	if e.Start == "" {
		return "missing start rule: a grammar needs at least one non-terminal rule"
	}
	return fmt.Sprintf("missing start rule: %v is not declared", e.Start)
}

// DuplicateNameError means a name was declared as both a rule and a
// terminal, or a terminal was declared twice. Declaring a non-terminal rule
// twice is not an error; the declarations accumulate into an ordered choice.
type DuplicateNameError struct {
	Name string
	Row  int
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name: %v is already declared", e.Name)
}
