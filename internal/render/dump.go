// SPDX-License-Identifier: Apache-2.0
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"ruelex/token"
)

var categoryColors = map[token.Category]*color.Color{
	"keyword":     color.New(color.FgMagenta, color.Bold),
	"function":    color.New(color.FgBlue),
	"property":    color.New(color.FgCyan),
	"string":      color.New(color.FgGreen),
	"comment":     color.New(color.FgHiBlack),
	"number":      color.New(color.FgYellow),
	"operator":    color.New(color.FgRed),
	"punctuation": color.New(color.FgWhite),
	"boolean":     color.New(color.FgYellow, color.Bold),
	"constant":    color.New(color.FgYellow),
	"builtin":     color.New(color.FgCyan, color.Bold),
	"class-name":  color.New(color.FgBlue, color.Bold),
}

var plainColor = color.New(color.Faint)

// Dump writes one line per token: byte range, category, rule and the quoted
// text. Categories are colored when color output is enabled.
func Dump(w io.Writer, tokens []token.Token) error {
	for _, tok := range tokens {
		c, ok := categoryColors[tok.Category]
		if !ok {
			c = plainColor
		}

		span := fmt.Sprintf("%d:%d", tok.Start, tok.End)
		category := c.Sprintf("%-12s", tok.Category)
		rule := ""
		if tok.Rule != "" && tok.Rule != string(tok.Category) {
			rule = "(" + tok.Rule + ")"
		}

		if _, err := fmt.Fprintf(w, "%-9s %s %-14s %s\n", span, category, rule, strconv.Quote(tok.Text)); err != nil {
			return err
		}
	}
	return nil
}

type jsonToken struct {
	Category token.Category `json:"category"`
	Rule     string         `json:"rule,omitempty"`
	Text     string         `json:"text"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
}

// DumpJSON writes tokens as an indented JSON array.
func DumpJSON(w io.Writer, tokens []token.Token) error {
	out := make([]jsonToken, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, jsonToken(tok))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
