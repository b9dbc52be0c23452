// Package token SPDX-License-Identifier: Apache-2.0
package token

import "strings"

// Category is the display classification of a token. It is the alias of the
// rule that produced the token, or the rule name when the rule has no alias.
type Category string

// PlainText is the category of input spans no rule matched.
const PlainText Category = "plain-text"

// Token is one classified span of the input. Start and End are byte offsets
// into the tokenized string (half-open) and cover Text exactly.
type Token struct {
	Category Category
	Rule     string // name of the rule that matched, empty for plain text
	Text     string
	Start    int
	End      int
}

func (t Token) Len() int {
	return t.End - t.Start
}

func (t Token) IsPlain() bool {
	return t.Category == PlainText
}

// Join concatenates the text of every token in order. For any token stream
// produced by the tokenizer this reconstructs the original input.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}
