// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"ruelex/internal/errors"
)

var parser = buildParser()

func buildParser() *participle.Parser[File] {
	p, err := participle.Build[File](
		participle.Lexer(GrammarLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build parser: %w", err))
	}

	return p
}

// SyntaxError is a grammar file that does not parse. It matches
// errors.ErrGrammarSyntax.
type SyntaxError struct {
	Pos     lexer.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return errors.ErrGrammarSyntax
}

func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseSource(path, string(source))
}

func ParseSource(sourceName string, source string) (*File, error) {
	file, err := parser.ParseString(sourceName, source)
	if err != nil {
		var perr participle.Error
		if stderrors.As(err, &perr) {
			return nil, &SyntaxError{Pos: perr.Position(), Message: perr.Message()}
		}
		return nil, &SyntaxError{Pos: lexer.Position{Filename: sourceName}, Message: err.Error()}
	}
	return file, nil
}
