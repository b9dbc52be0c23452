// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed grammar definition:
//
//	language rue
//	function /(\bfun\s+)[a-zA-Z_]\w*/ lookbehind;
//	"control-flow" [ /\bif\b/ /\belse\b/ ] alias keyword;
type File struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Language string  `"language" @(Ident | String) ";"?`
	Rules    []*Rule `@@*`
}

type Rule struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Name     string     `@(Ident | String)`
	Patterns []*Pattern `( @@ | "[" @@+ "]" )`
	Options  []*Option  `@@* ";"`
}

type Pattern struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Regex  string `@Regex`
}

type Option struct {
	Pos   lexer.Position
	Alias *string `  "alias" @(Ident | String)`
	Flag  string  `| @("lookbehind" | "greedy" | "multiline" | "nocase")`
}

// Source returns the pattern between the slashes of the literal.
func (p *Pattern) Source() string {
	end := strings.LastIndex(p.Regex, "/")
	if end <= 0 {
		return ""
	}
	return p.Regex[1:end]
}

// Flags returns the letters after the closing slash of the literal.
func (p *Pattern) Flags() string {
	end := strings.LastIndex(p.Regex, "/")
	if end < 0 {
		return ""
	}
	return p.Regex[end+1:]
}

// Alias returns the alias option of the rule, if any.
func (r *Rule) Alias() string {
	for _, opt := range r.Options {
		if opt.Alias != nil {
			return *opt.Alias
		}
	}
	return ""
}

// HasFlag reports whether the rule carries the named flag option.
func (r *Rule) HasFlag(flag string) bool {
	for _, opt := range r.Options {
		if opt.Flag == flag {
			return true
		}
	}
	return false
}
