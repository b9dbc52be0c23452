package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

const grammarSource = `language demo
word /[a-z]+/;
optional /a*/;`

func TestReporterFormat(t *testing.T) {
	color.NoColor = true

	err := &RuleError{
		Code:     ErrorZeroWidthPattern,
		Language: "demo",
		Rule:     "optional",
		Index:    1,
		Pattern:  "a*",
		Message:  "zero-width pattern",
	}
	d := FromError(err, Position{Line: 3, Column: 1})

	formatted := NewReporter("demo.grammar", grammarSource).Format(d)
	lines := strings.Split(formatted, "\n")

	assert.Equal(t, "error[E0105]: zero-width pattern", lines[0])
	assert.Equal(t, "    --> demo.grammar:3:1", lines[1])
	assert.Equal(t, "  3 │ optional /a*/;", lines[3])
	assert.Equal(t, "    │ ^^^^^^^^", lines[4])
	assert.Contains(t, formatted, "note: in rule 'optional' of language 'demo'")
	assert.Contains(t, formatted, "help: every pattern must consume at least one character")
}

func TestReporterOutOfRangeLine(t *testing.T) {
	color.NoColor = true

	d := NewDiagnostic(ErrorGrammarSyntax, "unexpected end of file", Position{Line: 40, Column: 1}).Build()
	formatted := NewReporter("demo.grammar", grammarSource).Format(d)

	assert.Contains(t, formatted, "error[E0200]: unexpected end of file")
	assert.Contains(t, formatted, "demo.grammar:40:1")
	assert.NotContains(t, formatted, "^")
}

func TestReporterWithoutCode(t *testing.T) {
	color.NoColor = true

	d := Diagnostic{Level: Warning, Message: "match timed out", Position: Position{Line: 1, Column: 10}, Length: 3}
	formatted := NewReporter("demo.grammar", grammarSource).Format(d)

	assert.True(t, strings.HasPrefix(formatted, "warning: match timed out\n"))
	assert.Contains(t, formatted, strings.Repeat(" ", 9)+"^^^")
}

func TestDiagnosticBuilder(t *testing.T) {
	d := NewDiagnostic(ErrorDuplicateRule, "rule name already used", Position{Line: 2, Column: 3}).
		WithLength(4).
		WithSuggestion("rename it").
		WithNote("first defined at 1:1").
		WithHelp("rule names must be unique").
		Build()

	assert.Equal(t, Error, d.Level)
	assert.Equal(t, 4, d.Length)
	assert.Equal(t, []string{"rename it"}, d.Suggestions)
	assert.Equal(t, []string{"first defined at 1:1"}, d.Notes)
	assert.Equal(t, "rule names must be unique", d.HelpText)
}

func TestFromErrorPlain(t *testing.T) {
	d := FromError(UnknownLanguage("cobol"), Position{Line: 1, Column: 1})
	assert.Equal(t, ErrorUnknownLanguage, d.Code)
	assert.Equal(t, `unknown language: "cobol"`, d.Message)
	assert.Equal(t, []string{GetErrorDescription(ErrorUnknownLanguage)}, d.Notes)

	d = FromError(fmt.Errorf("boom"), Position{Line: 1, Column: 1})
	assert.Empty(t, d.Code)
	assert.Empty(t, d.Notes)
}

func TestRuleErrorMatching(t *testing.T) {
	cause := stderrors.New("missing )")
	err := fmt.Errorf("loading: %w", &RuleError{
		Code:     ErrorBadPattern,
		Language: "demo",
		Rule:     "word",
		Index:    0,
		Pattern:  "(a",
		Message:  "pattern does not compile",
		Err:      cause,
	})

	assert.True(t, stderrors.Is(err, ErrInvalidRule))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, ErrorBadPattern, CodeOf(err))
	assert.Equal(t,
		`loading: invalid rule "word" (#0) in language "demo": pattern does not compile in /(a/: missing )`,
		err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, ErrorDuplicateLanguage, CodeOf(DuplicateLanguage("rue")))
	assert.Equal(t, ErrorGrammarSyntax, CodeOf(fmt.Errorf("%w: eof", ErrGrammarSyntax)))
	assert.Equal(t, ErrorUnknownGrammarFormat, CodeOf(fmt.Errorf("%w %q", ErrGrammarFormat, ".json")))
	assert.Equal(t, "", CodeOf(stderrors.New("other")))
}

func TestErrorCategories(t *testing.T) {
	assert.NotEqual(t, "Unknown error", GetErrorDescription(ErrorZeroWidthPattern))
	assert.Equal(t, GetErrorCategory(ErrorEmptyPattern), GetErrorCategory(ErrorBadFlag))
	assert.NotEqual(t, GetErrorCategory(ErrorUnknownLanguage), GetErrorCategory(ErrorGrammarSyntax))
}
