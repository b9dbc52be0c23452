// SPDX-License-Identifier: Apache-2.0
package lang

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"ruelex/internal/errors"
	"ruelex/token"
)

// DefaultMatchTimeout bounds a single pattern match. It guards tokenization
// against catastrophic backtracking in user supplied grammars.
const DefaultMatchTimeout = 250 * time.Millisecond

// probes are matched against every pattern at compile time, along with the
// pattern's own literal characters; an empty match anywhere in any of them
// marks the pattern as zero-width.
var probes = []string{"", " ", "a", "Z", "0", "_", "\n", "(", "\"", "ab cd", "/*", "::"}

// Grammar is an immutable, compiled, ordered set of rules for one language.
// It is safe for concurrent use.
type Grammar struct {
	name    string
	rules   []*CompiledRule
	timeout time.Duration
}

// CompiledRule is a validated rule together with its compiled alternatives.
type CompiledRule struct {
	rule     Rule
	category token.Category
	alts     []*regexp2.Regexp
}

func (c *CompiledRule) Name() string                      { return c.rule.Name }
func (c *CompiledRule) Category() token.Category          { return c.category }
func (c *CompiledRule) Greedy() bool                      { return c.rule.Greedy }
func (c *CompiledRule) Alternatives() int                 { return len(c.alts) }
func (c *CompiledRule) Alternative(i int) *regexp2.Regexp { return c.alts[i] }

type Option func(*Grammar)

// WithMatchTimeout sets the per-match budget. Zero disables the guard.
func WithMatchTimeout(d time.Duration) Option {
	return func(g *Grammar) {
		g.timeout = d
	}
}

// Compile validates rules and compiles them into a Grammar. Every failure is a
// *errors.RuleError matching errors.ErrInvalidRule.
func Compile(language string, rules []Rule, opts ...Option) (*Grammar, error) {
	g := &Grammar{
		name:    language,
		timeout: DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}

	seen := make(map[string]int, len(rules))
	for i, rule := range rules {
		ruleErr := func(code, message, pattern string, err error) error {
			return &errors.RuleError{
				Code:     code,
				Language: language,
				Rule:     rule.Name,
				Index:    i,
				Pattern:  pattern,
				Message:  message,
				Err:      err,
			}
		}

		if rule.Name == "" {
			return nil, ruleErr(errors.ErrorEmptyRuleName, "empty rule name", "", nil)
		}
		if prev, dup := seen[rule.Name]; dup {
			return nil, ruleErr(errors.ErrorDuplicateRule, fmt.Sprintf("rule name already used by rule #%d", prev), "", nil)
		}
		seen[rule.Name] = i

		if len(rule.Patterns) == 0 {
			return nil, ruleErr(errors.ErrorEmptyPattern, "rule has no pattern", "", nil)
		}

		compiled := &CompiledRule{rule: rule.clone(), category: rule.Category()}
		for _, pattern := range rule.Patterns {
			if pattern == "" {
				return nil, ruleErr(errors.ErrorEmptyPattern, "empty pattern", "", nil)
			}

			normalized := normalize(pattern, rule.Multiline)
			sources, err := expand(rule, normalized)
			if err != nil {
				return nil, ruleErr(errors.ErrorLookbehindDecomposition, "cannot split lookbehind pattern", pattern, err)
			}

			inputs := probeInputs(pattern)
			for _, src := range sources {
				re, err := g.compile(src, rule)
				if err != nil {
					return nil, ruleErr(errors.ErrorBadPattern, "pattern does not compile", pattern, err)
				}
				if zeroWidth(re, inputs) {
					return nil, ruleErr(errors.ErrorZeroWidthPattern, "zero-width pattern", pattern, nil)
				}
				compiled.alts = append(compiled.alts, re)
			}

			// the prefix only decides where the token may start
			if rule.Lookbehind {
				if _, main, err := splitLookbehind(normalized); err == nil {
					if re, err := g.compile(main, rule); err == nil && zeroWidth(re, inputs) {
						return nil, ruleErr(errors.ErrorZeroWidthPattern, "zero-width pattern after the lookbehind prefix", pattern, nil)
					}
				}
			}
		}

		g.rules = append(g.rules, compiled)
	}

	return g, nil
}

// MustCompile is like Compile but panics on error. It is meant for built-in
// grammars known to be valid.
func MustCompile(language string, rules []Rule, opts ...Option) *Grammar {
	g, err := Compile(language, rules, opts...)
	if err != nil {
		panic(fmt.Errorf("failed to compile grammar: %w", err))
	}
	return g
}

// expand returns the regex sources a single pattern of rule compiles to.
func expand(rule Rule, pattern string) ([]string, error) {
	if rule.Lookbehind {
		src, err := lookbehindSource(pattern)
		if err != nil {
			return nil, err
		}
		return []string{src}, nil
	}
	if rule.Greedy {
		return splitAlternatives(pattern), nil
	}
	return []string{pattern}, nil
}

func options(rule Rule) regexp2.RegexOptions {
	opts := regexp2.None
	if rule.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}
	if rule.Multiline {
		opts |= regexp2.Singleline
	}
	return opts
}

func (g *Grammar) compile(src string, rule Rule) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(src, options(rule))
	if err != nil {
		return nil, err
	}
	if g.timeout > 0 {
		re.MatchTimeout = g.timeout
	}
	return re, nil
}

// probeInputs extends the fixed probes with the literal characters of
// pattern, each on its own and all of them in a row, so that lookarounds
// asking for a specific character get to see it.
func probeInputs(pattern string) []string {
	var literals []byte
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\':
			i++
			if i < len(pattern) && isPunct(pattern[i]) {
				literals = append(literals, pattern[i])
			}
		case c > ' ' && c < 0x7f && strings.IndexByte(`^$.|?*+()[]{}`, c) < 0:
			literals = append(literals, c)
		}
	}

	inputs := append([]string(nil), probes...)
	seen := make(map[byte]bool)
	for _, c := range literals {
		if !seen[c] {
			seen[c] = true
			inputs = append(inputs, string(c), string(c)+" ")
		}
	}
	if len(literals) > 1 {
		inputs = append(inputs, string(literals))
	}
	return inputs
}

func isPunct(c byte) bool {
	return c > ' ' && c < 0x7f && !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9')
}

// zeroWidth reports whether re yields an empty match anywhere in one of the
// inputs.
func zeroWidth(re *regexp2.Regexp, inputs []string) bool {
	for _, input := range inputs {
		m, err := re.FindStringMatch(input)
		for err == nil && m != nil {
			if m.Length == 0 {
				return true
			}
			m, err = re.FindNextMatch(m)
		}
	}
	return false
}

func (g *Grammar) Name() string { return g.name }

func (g *Grammar) Len() int { return len(g.rules) }

func (g *Grammar) MatchTimeout() time.Duration { return g.timeout }

// Rule returns the compiled rule at priority i.
func (g *Grammar) Rule(i int) *CompiledRule { return g.rules[i] }

// Rules returns a copy of the source rules in priority order.
func (g *Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i, c := range g.rules {
		rules[i] = c.rule.clone()
	}
	return rules
}

// Categories returns the distinct categories the grammar can emit, in rule order.
func (g *Grammar) Categories() []token.Category {
	var categories []token.Category
	seen := make(map[token.Category]bool)
	for _, c := range g.rules {
		if !seen[c.category] {
			seen[c.category] = true
			categories = append(categories, c.category)
		}
	}
	return categories
}
