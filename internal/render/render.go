// SPDX-License-Identifier: Apache-2.0

// Package render turns token streams into highlighted output, either through
// chroma formatters or as Prism compatible HTML.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"ruelex/token"
)

var chromaTypes = map[token.Category]chroma.TokenType{
	token.PlainText: chroma.Text,
	"keyword":       chroma.Keyword,
	"function":      chroma.NameFunction,
	"property":      chroma.NameProperty,
	"string":        chroma.LiteralString,
	"comment":       chroma.Comment,
	"number":        chroma.LiteralNumber,
	"operator":      chroma.Operator,
	"punctuation":   chroma.Punctuation,
	"boolean":       chroma.KeywordConstant,
	"constant":      chroma.NameConstant,
	"builtin":       chroma.NameBuiltin,
	"class-name":    chroma.NameClass,
}

// ChromaType maps a category to the chroma token type used for styling.
// Unknown categories are rendered as plain names.
func ChromaType(category token.Category) chroma.TokenType {
	if t, ok := chromaTypes[category]; ok {
		return t
	}
	return chroma.Name
}

// Chroma converts tokens to chroma tokens.
func Chroma(tokens []token.Token) []chroma.Token {
	out := make([]chroma.Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, chroma.Token{Type: ChromaType(tok.Category), Value: tok.Text})
	}
	return out
}

// Format writes tokens to w using the named chroma formatter and style.
func Format(w io.Writer, tokens []token.Token, format, style string) error {
	formatter, ok := formatters.Registry[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	s := styles.Get(style)

	if err := formatter.Format(w, s, chroma.Literator(Chroma(tokens)...)); err != nil {
		return fmt.Errorf("failed to format tokens as %s: %w", format, err)
	}
	return nil
}

// Formats lists the names of the available output formats.
func Formats() []string {
	return append(formatters.Names(), "prism")
}

// PrismHTML writes tokens as Prism markup: every classified token becomes
// <span class="token RULE ALIAS">, plain text is written escaped and unwrapped.
func PrismHTML(w io.Writer, tokens []token.Token) error {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.IsPlain() {
			sb.WriteString(html.EscapeString(tok.Text))
			continue
		}

		sb.WriteString(`<span class="token `)
		if tok.Rule != "" && tok.Rule != string(tok.Category) {
			sb.WriteString(html.EscapeString(tok.Rule))
			sb.WriteByte(' ')
		}
		sb.WriteString(html.EscapeString(string(tok.Category)))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(tok.Text))
		sb.WriteString(`</span>`)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Write renders tokens in format, where "prism" selects PrismHTML and any
// other name a chroma formatter.
func Write(w io.Writer, tokens []token.Token, format, style string) error {
	if format == "prism" {
		return PrismHTML(w, tokens)
	}
	return Format(w, tokens, format, style)
}
