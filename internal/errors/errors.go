// SPDX-License-Identifier: Apache-2.0
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrUnknownLanguage   = stderrors.New("unknown language")
	ErrDuplicateLanguage = stderrors.New("duplicate language")
	ErrInvalidRule       = stderrors.New("invalid rule")
	ErrGrammarSyntax     = stderrors.New("grammar syntax error")
	ErrGrammarFormat     = stderrors.New("unsupported grammar format")
)

// RuleError describes a rule rejected while a grammar was being compiled.
// It matches ErrInvalidRule with errors.Is.
type RuleError struct {
	Code     string
	Language string
	Rule     string
	Index    int // position of the rule in the grammar
	Pattern  string
	Message  string
	Err      error
}

func (e *RuleError) Error() string {
	msg := fmt.Sprintf("invalid rule %q (#%d) in language %q: %s", e.Rule, e.Index, e.Language, e.Message)
	if e.Pattern != "" {
		msg += fmt.Sprintf(" in /%s/", e.Pattern)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuleError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidRule}
	}
	return []error{ErrInvalidRule, e.Err}
}

func UnknownLanguage(language string) error {
	return fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
}

func DuplicateLanguage(language string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateLanguage, language)
}

// CodeOf returns the error code carried by err, or "" when err is not one of
// the errors of this package.
func CodeOf(err error) string {
	var ruleErr *RuleError
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &ruleErr):
		return ruleErr.Code
	case stderrors.Is(err, ErrUnknownLanguage):
		return ErrorUnknownLanguage
	case stderrors.Is(err, ErrDuplicateLanguage):
		return ErrorDuplicateLanguage
	case stderrors.Is(err, ErrGrammarSyntax):
		return ErrorGrammarSyntax
	case stderrors.Is(err, ErrGrammarFormat):
		return ErrorUnknownGrammarFormat
	default:
		return ""
	}
}
