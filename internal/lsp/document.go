package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"ruelex/internal/loader"
)

type document struct {
	language   string
	languageID string
	text       string
	grammar    bool // diagnostics were last published as a grammar
}

// grammarCheck decides whether the document is checked as a grammar, and
// whether diagnostics are published at all: a document that stopped being a
// grammar gets its old diagnostics cleared once.
func (d *document) grammarCheck(uri protocol.DocumentUri) (check, publish bool) {
	check = d.languageID == GrammarLanguageID || loader.IsGrammarSource(uri, d.text)
	publish = check || d.grammar
	d.grammar = check
	return check, publish
}

// applyChange returns text with one content change applied. Changes without
// a range replace the whole document.
func applyChange(text string, change any) string {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text
	case *protocol.TextDocumentContentChangeEventWhole:
		return c.Text
	case protocol.TextDocumentContentChangeEvent:
		return applyRangeChange(text, c)
	case *protocol.TextDocumentContentChangeEvent:
		return applyRangeChange(text, *c)
	default:
		log.Warningf("ignoring content change of type %T", change)
		return text
	}
}

func applyRangeChange(text string, c protocol.TextDocumentContentChangeEvent) string {
	if c.Range == nil {
		return c.Text
	}
	start := byteOffset(text, c.Range.Start)
	end := byteOffset(text, c.Range.End)
	if end < start {
		start, end = end, start
	}
	return text[:start] + c.Text + text[end:]
}

// byteOffset converts a 0-based line and UTF-16 column to a byte offset into
// text, clamping positions past the end of a line or of the text.
func byteOffset(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	var col uint32
	for offset < len(text) && col < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		col += uint32(utf16.RuneLen(r))
		offset += size
	}
	return offset
}
