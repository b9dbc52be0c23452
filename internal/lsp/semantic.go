package lsp

import (
	"strings"
	"unicode/utf16"

	"ruelex/token"
)

// SemanticTokenTypes is the token type legend sent to the client. Indexes
// into this slice are the token types on the wire.
var SemanticTokenTypes = []string{
	"keyword",
	"function",
	"property",
	"string",
	"comment",
	"number",
	"operator",
	"type",
	"class",
	"variable",
}

// SemanticTokenModifiers is the modifier legend; bit i of a token's modifier
// mask selects entry i.
var SemanticTokenModifiers = []string{
	"readonly",
	"defaultLibrary",
}

type semanticType struct {
	tokenType string
	modifiers []string
}

// Categories without an entry (plain text, punctuation) are left to the
// client's own highlighting.
var semanticTypes = map[token.Category]semanticType{
	"keyword":    {tokenType: "keyword"},
	"function":   {tokenType: "function"},
	"property":   {tokenType: "property"},
	"string":     {tokenType: "string"},
	"comment":    {tokenType: "comment"},
	"number":     {tokenType: "number"},
	"operator":   {tokenType: "operator"},
	"boolean":    {tokenType: "keyword"},
	"constant":   {tokenType: "variable", modifiers: []string{"readonly"}},
	"builtin":    {tokenType: "type", modifiers: []string{"defaultLibrary"}},
	"class-name": {tokenType: "class"},
}

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// collectSemanticTokens positions tokens in UTF-16 line/column coordinates.
// A token spanning several lines yields one entry per non-empty line.
func collectSemanticTokens(tokens []token.Token) []SemanticToken {
	var (
		out  []SemanticToken
		line uint32
		col  uint32
	)

	for _, tok := range tokens {
		st, mapped := semanticTypes[tok.Category]

		for i, segment := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				line++
				col = 0
			}
			length := utf16Len(strings.TrimSuffix(segment, "\r"))
			if mapped && length > 0 {
				out = append(out, SemanticToken{
					Line:           line,
					StartChar:      col,
					Length:         length,
					TokenType:      indexOf(st.tokenType, SemanticTokenTypes),
					TokenModifiers: modifierMask(st.modifiers),
				})
			}
			col += utf16Len(segment)
		}
	}

	return out
}

// encodeSemanticTokens applies the LSP relative encoding: every entry holds
// deltaLine, deltaStart, length, type and modifiers.
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}

func modifierMask(modifiers []string) int {
	mask := 0
	for _, m := range modifiers {
		mask |= 1 << indexOf(m, SemanticTokenModifiers)
	}
	return mask
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}
