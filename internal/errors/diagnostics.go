// SPDX-License-Identifier: Apache-2.0
package errors

import stderrors "errors"

// DiagnosticBuilder provides a fluent interface for assembling diagnostics
type DiagnosticBuilder struct {
	d Diagnostic
}

// NewDiagnostic creates a new error diagnostic builder
func NewDiagnostic(code, message string, pos Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		d: Diagnostic{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.d.Length = length
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.d.Suggestions = append(b.d.Suggestions, message)
	return b
}

func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.d.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.d
}

// FromError converts a registration or loading error into a diagnostic
// anchored at pos. The rule name is underlined when it is known.
func FromError(err error, pos Position) Diagnostic {
	code := CodeOf(err)

	var ruleErr *RuleError
	if !stderrors.As(err, &ruleErr) {
		b := NewDiagnostic(code, err.Error(), pos)
		if code != "" {
			b.WithNote(GetErrorDescription(code))
		}
		return b.Build()
	}

	b := NewDiagnostic(code, ruleErr.Message, pos).
		WithLength(max(1, len(ruleErr.Rule))).
		WithNote("in rule '" + ruleErr.Rule + "' of language '" + ruleErr.Language + "'")
	if ruleErr.Err != nil {
		b.WithNote(ruleErr.Err.Error())
	}

	switch code {
	case ErrorLookbehindDecomposition:
		b.WithHelp("start the pattern with a capture group holding the prefix, e.g. /(\\bfun\\s+)name/")
	case ErrorZeroWidthPattern:
		b.WithHelp("every pattern must consume at least one character; replace `*` with `+` or drop empty alternatives")
	case ErrorDuplicateRule:
		b.WithSuggestion("rename one of the rules or merge their patterns into one rule")
	case ErrorBadFlag:
		b.WithHelp("supported flags are 'i' (ignore case) and 's' (dot matches newline)")
	}

	return b.Build()
}
