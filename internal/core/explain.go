package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RoutineExplanation is returned when no risk clause applies.
const RoutineExplanation = "Routine renewal, no major risk flags."

type explainRule struct {
	applies func(PriorityFactors) bool
	clause  string
}

// Rules are evaluated in order; at most one premium clause fires.
var explainRules = []explainRule{
	{func(f PriorityFactors) bool { return f.PremiumAtRisk > 80 }, "top-tier premium account"},
	{func(f PriorityFactors) bool { return f.PremiumAtRisk > 60 && f.PremiumAtRisk <= 80 }, "high-value account"},
	{func(f PriorityFactors) bool { return f.InteractionHealth != nil && *f.InteractionHealth > 70 }, "client has been unresponsive for an extended period"},
	{func(f PriorityFactors) bool { return f.ClaimsHistory > 50 }, "multiple recent claims flagged"},
	{func(f PriorityFactors) bool { return f.TimeToExpiry > 90 }, "expired or expiring imminently"},
	{func(f PriorityFactors) bool { return f.MarketConditions != nil && *f.MarketConditions > 60 }, "adverse market conditions for this sector"},
}

// Explain renders a deterministic one-sentence justification for a set of factors.
// Unset optional factors never trigger a clause.
func Explain(f PriorityFactors) string {
	var clauses []string
	for _, rule := range explainRules {
		if rule.applies(f) {
			clauses = append(clauses, rule.clause)
		}
	}
	if len(clauses) == 0 {
		return RoutineExplanation
	}
	return capitalize(strings.Join(clauses, "; ")) + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
