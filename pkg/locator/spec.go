package locator

import "strings"

// Strategy identifies one element-resolution technique.
type Strategy string

const (
	StrategyXPath Strategy = "xpath"
	StrategyCSS   Strategy = "css"
	StrategyID    Strategy = "id"
	StrategyText  Strategy = "text"
	StrategyRole  Strategy = "role"
)

// Known reports whether the strategy is one the resolver can attempt.
func (s Strategy) Known() bool {
	switch s {
	case StrategyXPath, StrategyCSS, StrategyID, StrategyText, StrategyRole:
		return true
	}
	return false
}

// Spec is one (strategy, value) locator for a logical UI element. A named
// element is an ordered slice of Spec; the order is the fallback priority.
type Spec struct {
	Strategy Strategy
	Value    string
}

// XPath builds an xpath locator spec.
func XPath(value string) Spec { return Spec{Strategy: StrategyXPath, Value: value} }

// CSS builds a css selector locator spec.
func CSS(value string) Spec { return Spec{Strategy: StrategyCSS, Value: value} }

// ID builds an element-id locator spec.
func ID(value string) Spec { return Spec{Strategy: StrategyID, Value: value} }

// Text builds a visible-text locator spec.
func Text(value string) Spec { return Spec{Strategy: StrategyText, Value: value} }

// Role builds an accessibility-role locator spec.
func Role(value string) Spec { return Spec{Strategy: StrategyRole, Value: value} }

func (s Spec) String() string {
	return strings.ToUpper(string(s.Strategy)) + ": " + s.Value
}
