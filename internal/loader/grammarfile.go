// SPDX-License-Identifier: Apache-2.0
package loader

import (
	stderrors "errors"
	"fmt"

	"ruelex/grammar"
	"ruelex/internal/errors"
	"ruelex/internal/lang"
)

func parseGrammar(path, source string) (*Definition, error) {
	file, err := grammar.ParseSource(path, source)
	if err != nil {
		pos := errors.Position{Line: 1, Column: 1}
		var syntaxErr *grammar.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			pos = errors.Position{Line: syntaxErr.Pos.Line, Column: syntaxErr.Pos.Column}
		}
		return nil, &LoadError{Path: path, Source: source, Position: pos, Err: err}
	}

	def := &Definition{Path: path, Source: source, Language: file.Language}
	for i, r := range file.Rules {
		pos := errors.Position{Line: r.Pos.Line, Column: r.Pos.Column}

		rule, err := convertRule(r)
		if err != nil {
			return nil, &LoadError{
				Path:     path,
				Source:   source,
				Position: pos,
				Err: &errors.RuleError{
					Code:     errors.ErrorBadFlag,
					Language: file.Language,
					Rule:     r.Name,
					Index:    i,
					Message:  err.Error(),
				},
			}
		}

		def.Rules = append(def.Rules, rule)
		def.Positions = append(def.Positions, pos)
	}

	return def, nil
}

func convertRule(r *grammar.Rule) (lang.Rule, error) {
	rule := lang.Rule{
		Name:       r.Name,
		Alias:      r.Alias(),
		Lookbehind: r.HasFlag("lookbehind"),
		Greedy:     r.HasFlag("greedy"),
		IgnoreCase: r.HasFlag("nocase"),
		Multiline:  r.HasFlag("multiline"),
	}

	flags := ""
	for i, p := range r.Patterns {
		if i == 0 {
			flags = p.Flags()
		} else if p.Flags() != flags {
			return rule, fmt.Errorf("patterns of one rule must share flags, got /%s and /%s", flags, p.Flags())
		}
		rule.Patterns = append(rule.Patterns, p.Source())
	}

	for _, flag := range flags {
		switch flag {
		case 'i':
			rule.IgnoreCase = true
		case 's':
			rule.Multiline = true
		default:
			return rule, fmt.Errorf("unknown flag %q", flag)
		}
	}

	return rule, nil
}
