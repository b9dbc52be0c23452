package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"ruelex/token"
)

func TestEncodeSemanticTokens(t *testing.T) {
	data := encodeSemanticTokens([]SemanticToken{
		{Line: 0, StartChar: 2, Length: 3, TokenType: 1},
		{Line: 0, StartChar: 7, Length: 1, TokenType: 2, TokenModifiers: 1},
		{Line: 3, StartChar: 4, Length: 2, TokenType: 0},
	})
	assert.Equal(t, []uint32{
		0, 2, 3, 1, 0,
		0, 5, 1, 2, 1,
		3, 4, 2, 0, 0,
	}, data)
}

func TestCollectSkipsUnmappedCategories(t *testing.T) {
	tokens := []token.Token{
		{Category: "punctuation", Text: "(\r\n", Start: 0, End: 3},
		{Category: "keyword", Text: "if", Start: 3, End: 5},
	}
	got := collectSemanticTokens(tokens)
	assert.Equal(t, []SemanticToken{{Line: 1, StartChar: 0, Length: 2, TokenType: 0}}, got)
}

func TestByteOffset(t *testing.T) {
	text := "ab\n😀c\nz"
	assert.Equal(t, 0, byteOffset(text, protocol.Position{Line: 0, Character: 0}))
	assert.Equal(t, 2, byteOffset(text, protocol.Position{Line: 0, Character: 9}))
	assert.Equal(t, 3, byteOffset(text, protocol.Position{Line: 1, Character: 0}))
	assert.Equal(t, 7, byteOffset(text, protocol.Position{Line: 1, Character: 2}))
	assert.Equal(t, 8, byteOffset(text, protocol.Position{Line: 1, Character: 3}))
	assert.Equal(t, len(text), byteOffset(text, protocol.Position{Line: 5, Character: 0}))
}

func TestApplyChange(t *testing.T) {
	assert.Equal(t, "new", applyChange("old", protocol.TextDocumentContentChangeEventWhole{Text: "new"}))
	assert.Equal(t, "hello there", applyChange("hello world", &protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: 0, Character: 6},
			End:   protocol.Position{Line: 0, Character: 11},
		},
		Text: "there",
	}))
	assert.Equal(t, "same", applyChange("same", 42))
}
