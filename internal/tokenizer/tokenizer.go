// SPDX-License-Identifier: Apache-2.0

// Package tokenizer turns input text into a token stream using a compiled
// grammar. At every step the leftmost match across all rules wins and the
// first declared rule breaks ties at the same offset. Text that no rule
// matches is emitted as plain-text runs, so the token texts always
// concatenate back to the input.
package tokenizer

import (
	"github.com/dlclark/regexp2"
	"github.com/tliron/commonlog"
	"ruelex/internal/lang"
	"ruelex/token"
)

var log = commonlog.GetLogger("ruelex.tokenizer")

// Lookuper resolves a language name to a compiled grammar.
type Lookuper interface {
	Lookup(language string) (*lang.Grammar, error)
}

// Tokenize splits input into tokens. It never fails: an empty input yields no
// tokens, and unmatched text degrades to plain-text.
func Tokenize(g *lang.Grammar, input string) []token.Token {
	if input == "" {
		return nil
	}
	return newScanner(g, input).run()
}

// TokenizeLanguage looks the grammar up in reg and tokenizes input with it.
func TokenizeLanguage(reg Lookuper, language, input string) ([]token.Token, error) {
	g, err := reg.Lookup(language)
	if err != nil {
		return nil, err
	}
	return Tokenize(g, input), nil
}

// candidate is the next match of one rule. Offsets are in runes; start is the
// first rune of the token, after any lookbehind prefix.
type candidate struct {
	searched bool
	found    bool
	start    int
	end      int
}

type scanner struct {
	grammar *lang.Grammar
	input   string
	runes   []rune
	offsets []int // byte offset of every rune, plus len(input)
	next    []candidate
	tokens  []token.Token
}

func newScanner(g *lang.Grammar, input string) *scanner {
	offsets := make([]int, 0, len(input)+1)
	for i := range input {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(input))

	return &scanner{
		grammar: g,
		input:   input,
		runes:   []rune(input),
		offsets: offsets,
		next:    make([]candidate, g.Len()),
	}
}

func (s *scanner) run() []token.Token {
	pos := 0
	for pos < len(s.runes) {
		winner := -1
		for i := range s.next {
			c := s.candidate(i, pos)
			if !c.found {
				continue
			}
			// strict comparison keeps the first declared rule on ties
			if winner < 0 || c.start < s.next[winner].start {
				winner = i
			}
		}

		if winner < 0 {
			s.emitPlain(pos, len(s.runes))
			break
		}

		c := s.next[winner]
		if c.start > pos {
			s.emitPlain(pos, c.start)
		}
		s.emit(s.grammar.Rule(winner), c.start, c.end)
		pos = c.end
	}

	return s.tokens
}

// candidate returns the leftmost match of rule i at or after pos. A match
// found from an earlier cursor is still the leftmost one as long as it does
// not start before pos, so it is reused instead of searched again.
func (s *scanner) candidate(i, pos int) candidate {
	c := s.next[i]
	if c.searched && (!c.found || c.start >= pos) {
		return c
	}

	rule := s.grammar.Rule(i)
	c = candidate{searched: true}
	for alt := 0; alt < rule.Alternatives(); alt++ {
		start, end, ok := s.find(rule, rule.Alternative(alt), pos)
		if !ok {
			continue
		}
		switch {
		case !c.found || start < c.start:
			c.found, c.start, c.end = true, start, end
		case start == c.start && rule.Greedy() && end > c.end:
			c.end = end
		}
	}

	s.next[i] = c
	return c
}

// find runs one alternative from pos. Empty matches are skipped so every
// emitted token consumes at least one rune.
func (s *scanner) find(rule *lang.CompiledRule, re *regexp2.Regexp, pos int) (int, int, bool) {
	for from := pos; from <= len(s.runes); {
		m, err := re.FindRunesMatchStartingAt(s.runes, from)
		if err != nil {
			log.Warningf("rule %q of %q: %s", rule.Name(), s.grammar.Name(), err)
			return 0, 0, false
		}
		if m == nil {
			return 0, 0, false
		}
		if m.Length > 0 {
			return m.Index, m.Index + m.Length, true
		}
		from = m.Index + 1
	}
	return 0, 0, false
}

func (s *scanner) emitPlain(start, end int) {
	s.tokens = append(s.tokens, s.token(token.PlainText, "", start, end))
}

func (s *scanner) emit(rule *lang.CompiledRule, start, end int) {
	s.tokens = append(s.tokens, s.token(rule.Category(), rule.Name(), start, end))
}

func (s *scanner) token(category token.Category, rule string, start, end int) token.Token {
	from, to := s.offsets[start], s.offsets[end]
	return token.Token{
		Category: category,
		Rule:     rule,
		Text:     s.input[from:to],
		Start:    from,
		End:      to,
	}
}
