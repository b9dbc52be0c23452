// SPDX-License-Identifier: Apache-2.0
package lang

import "ruelex/token"

// Rule is one named lexical rule. Rules are ordered inside a grammar and the
// order is their priority.
type Rule struct {
	Name  string
	Alias string

	// Patterns holds one pattern, or several alternatives sharing the rule's
	// category. Alternatives are tried in order.
	Patterns []string

	// Lookbehind marks patterns whose leading capture group is a prefix that
	// must precede the token but is not part of it.
	Lookbehind bool

	// Greedy makes the rule prefer its longest alternative at a given offset
	// instead of the first declared one. Top-level '|' branches of a pattern
	// count as alternatives.
	Greedy bool

	IgnoreCase bool
	Multiline  bool // '.' matches newlines
}

// NewRule is a shorthand for a single-pattern rule without flags.
func NewRule(name, pattern string) Rule {
	return Rule{Name: name, Patterns: []string{pattern}}
}

// Category is the classification emitted for tokens of this rule.
func (r Rule) Category() token.Category {
	if r.Alias != "" {
		return token.Category(r.Alias)
	}
	return token.Category(r.Name)
}

func (r Rule) clone() Rule {
	r.Patterns = append([]string(nil), r.Patterns...)
	return r
}
