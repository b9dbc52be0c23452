package tokenizer_test

import (
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ruelex/internal/errors"
	"ruelex/internal/lang"
	"ruelex/internal/languages"
	"ruelex/internal/registry"
	"ruelex/internal/tokenizer"
	"ruelex/token"
)

func tok(category, rule, text string, start int) token.Token {
	return token.Token{
		Category: token.Category(category),
		Rule:     rule,
		Text:     text,
		Start:    start,
		End:      start + len(text),
	}
}

func plain(text string, start int) token.Token {
	return tok(string(token.PlainText), "", text, start)
}

func assertTokens(t *testing.T, expected, actual []token.Token) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func compile(t *testing.T, rules ...lang.Rule) *lang.Grammar {
	t.Helper()
	g, err := lang.Compile("test", rules)
	require.NoError(t, err)
	return g
}

func TestEndToEnd(t *testing.T) {
	g := compile(t,
		lang.NewRule("keyword", `\bif\b`),
		lang.NewRule("identifier", `[a-zA-Z_]+`),
	)

	assertTokens(t, []token.Token{
		tok("keyword", "keyword", "if", 0),
		plain(" ", 2),
		tok("identifier", "identifier", "cond", 3),
	}, tokenizer.Tokenize(g, "if cond"))
}

func TestPriorityAtSameOffset(t *testing.T) {
	g := compile(t,
		lang.NewRule("first", `ab`),
		lang.NewRule("second", `a[a-z]`),
	)

	tokens := tokenizer.Tokenize(g, "ab")
	require.Len(t, tokens, 1)
	assert.Equal(t, token.Category("first"), tokens[0].Category)
}

func TestLeftmostMatchBeatsPriority(t *testing.T) {
	g := compile(t,
		lang.NewRule("a", `a`),
		lang.NewRule("b", `b`),
	)

	assertTokens(t, []token.Token{
		plain("12", 0),
		tok("b", "b", "b", 2),
		plain("45", 3),
		tok("a", "a", "a", 5),
	}, tokenizer.Tokenize(g, "12b45a"))
}

func TestGreedyComment(t *testing.T) {
	g := compile(t, lang.Rule{
		Name:      "comment",
		Patterns:  []string{`\/\*[^]*?\*\/`},
		Greedy:    true,
		Multiline: true,
	})

	assertTokens(t, []token.Token{
		tok("comment", "comment", "/* a */", 0),
		plain(" b ", 7),
		tok("comment", "comment", "/* c */", 10),
	}, tokenizer.Tokenize(g, "/* a */ b /* c */"))
}

func TestMultilineBlockComment(t *testing.T) {
	g := compile(t, lang.Rule{
		Name:     "comment",
		Patterns: []string{`\/\/.*|\/\*[^]*?\*\/`},
		Greedy:   true,
	})

	input := "/* one\ntwo */\n// three\nx"
	assertTokens(t, []token.Token{
		tok("comment", "comment", "/* one\ntwo */", 0),
		plain("\n", 13),
		tok("comment", "comment", "// three", 14),
		plain("\nx", 22),
	}, tokenizer.Tokenize(g, input))
}

func TestGreedyPrefersLongestAlternative(t *testing.T) {
	greedy := compile(t, lang.Rule{Name: "op", Patterns: []string{`=`, `==`}, Greedy: true})
	assertTokens(t, []token.Token{tok("op", "op", "==", 0)}, tokenizer.Tokenize(greedy, "=="))

	split := compile(t, lang.Rule{Name: "op", Patterns: []string{`=|==`}, Greedy: true})
	assertTokens(t, []token.Token{tok("op", "op", "==", 0)}, tokenizer.Tokenize(split, "=="))

	lazy := compile(t, lang.Rule{Name: "op", Patterns: []string{`=`, `==`}})
	assertTokens(t, []token.Token{
		tok("op", "op", "=", 0),
		tok("op", "op", "=", 1),
	}, tokenizer.Tokenize(lazy, "=="))
}

func TestAlternativesShareCategory(t *testing.T) {
	g := compile(t, lang.Rule{
		Name:     "control-flow",
		Alias:    "keyword",
		Patterns: []string{`\bif\b`, `\belse\b`, `\breturn\b`},
	})

	assertTokens(t, []token.Token{
		tok("keyword", "control-flow", "return", 0),
		plain(" x ", 6),
		tok("keyword", "control-flow", "if", 9),
		plain(" y ", 11),
		tok("keyword", "control-flow", "else", 14),
	}, tokenizer.Tokenize(g, "return x if y else"))
}

func TestLookbehind(t *testing.T) {
	g := compile(t, lang.Rule{
		Name:       "function",
		Patterns:   []string{`(\bfn\s+)[a-zA-Z_]+`},
		Lookbehind: true,
	})

	tokens := tokenizer.Tokenize(g, "fn add")
	assertTokens(t, []token.Token{
		plain("fn ", 0),
		tok("function", "function", "add", 3),
	}, tokens)
	assert.Equal(t, "fn add", token.Join(tokens))
}

func TestLookbehindPrefixOwnedByPreviousToken(t *testing.T) {
	g := compile(t,
		lang.NewRule("keyword", `\bfn\b`),
		lang.Rule{Name: "function", Patterns: []string{`(\bfn\s+)[a-zA-Z_]+`}, Lookbehind: true},
	)

	assertTokens(t, []token.Token{
		tok("keyword", "keyword", "fn", 0),
		plain(" ", 2),
		tok("function", "function", "add", 3),
	}, tokenizer.Tokenize(g, "fn add"))
}

func TestUnmatchedTextIsMergedPlainText(t *testing.T) {
	g := compile(t, lang.NewRule("ident", `[a-z]+`))

	assertTokens(t, []token.Token{
		tok("ident", "ident", "ab", 0),
		plain(" @@ ", 2),
		tok("ident", "ident", "cd", 6),
	}, tokenizer.Tokenize(g, "ab @@ cd"))

	assertTokens(t, []token.Token{plain("@", 0)}, tokenizer.Tokenize(g, "@"))
}

func TestEmptyInput(t *testing.T) {
	g := compile(t, lang.NewRule("ident", `[a-z]+`))
	assert.Empty(t, tokenizer.Tokenize(g, ""))
}

func TestEmptyGrammar(t *testing.T) {
	g := compile(t)
	assertTokens(t, []token.Token{plain("anything", 0)}, tokenizer.Tokenize(g, "anything"))
}

func TestZeroWidthMatchesAreSkipped(t *testing.T) {
	// matches empty only between a digit and a '!', which compiling cannot see
	g := compile(t, lang.NewRule("bang", `(?<=\d)x?(?=!)|y`))

	tokens := tokenizer.Tokenize(g, "1!y 2x!")
	assertTokens(t, []token.Token{
		plain("1!", 0),
		tok("bang", "bang", "y", 2),
		plain(" 2", 3),
		tok("bang", "bang", "x", 5),
		plain("!", 6),
	}, tokens)
}

func TestMatchTimeoutIsNoMatch(t *testing.T) {
	g, err := lang.Compile("test", []lang.Rule{
		lang.NewRule("backtrack", `(a+)+b`),
		lang.NewRule("c", `c`),
	}, lang.WithMatchTimeout(5*time.Millisecond))
	require.NoError(t, err)

	input := strings.Repeat("a", 40) + "c"
	done := make(chan []token.Token, 1)
	go func() { done <- tokenizer.Tokenize(g, input) }()

	select {
	case tokens := <-done:
		assert.Equal(t, input, token.Join(tokens))
		require.NotEmpty(t, tokens)
		assert.Equal(t, tok("c", "c", "c", 40), tokens[len(tokens)-1])
	case <-time.After(10 * time.Second):
		t.Fatal("tokenizing did not stop at the match timeout")
	}
}

func TestGreedyKeepsInlineOptions(t *testing.T) {
	for _, greedy := range []bool{false, true} {
		g := compile(t, lang.Rule{Name: "x", Patterns: []string{`(?i)ab|cd`}, Greedy: greedy})
		assertTokens(t, []token.Token{tok("x", "x", "CD", 0)}, tokenizer.Tokenize(g, "CD"))
	}
}

func TestGreedyBackreferenceStaysWhole(t *testing.T) {
	g := compile(t, lang.Rule{Name: "quoted", Patterns: []string{`(['"])\w+\1|<\w+>`}, Greedy: true})
	assert.Equal(t, 1, g.Rule(0).Alternatives())

	assertTokens(t, []token.Token{
		tok("quoted", "quoted", `'ab'`, 0),
		plain(" ", 4),
		tok("quoted", "quoted", "<cd>", 5),
	}, tokenizer.Tokenize(g, `'ab' <cd>`))
}

func TestDotStopsAtCarriageReturn(t *testing.T) {
	g := lang.MustCompile("rue", languages.Rue())

	assertTokens(t, []token.Token{
		tok("comment", "comment", "// hi", 0),
		plain("\r\n", 5),
		tok("keyword", "binding", "let", 7),
	}, tokenizer.Tokenize(g, "// hi\r\nlet"))

	multiline := compile(t, lang.Rule{Name: "any", Patterns: []string{`#.+`}, Multiline: true})
	assertTokens(t, []token.Token{tok("any", "any", "#a\r\nb", 0)}, tokenizer.Tokenize(multiline, "#a\r\nb"))
}

func TestByteOffsetsWithMultibyteInput(t *testing.T) {
	g := compile(t, lang.NewRule("word", `\w+`))

	assertTokens(t, []token.Token{
		tok("word", "word", "héllo", 0),
		plain(" ", 6),
		tok("word", "word", "wörld", 7),
	}, tokenizer.Tokenize(g, "héllo wörld"))
}

func TestInvalidUTF8RoundTrips(t *testing.T) {
	g := compile(t, lang.NewRule("letter", `[a-z]`))

	input := "a\xffb"
	tokens := tokenizer.Tokenize(g, input)
	assertTokens(t, []token.Token{
		tok("letter", "letter", "a", 0),
		plain("\xff", 1),
		tok("letter", "letter", "b", 2),
	}, tokens)
	assert.Equal(t, input, token.Join(tokens))
}

const rueSource = "fun add(a: Int) {\n  return a.b // done\n}"

func TestRue(t *testing.T) {
	g := lang.MustCompile("rue", languages.Rue())

	assertTokens(t, []token.Token{
		tok("keyword", "binding", "fun", 0),
		plain(" ", 3),
		tok("function", "function", "add", 4),
		tok("punctuation", "punctuation", "(", 7),
		tok("property", "field", "a", 8),
		tok("punctuation", "punctuation", ":", 9),
		plain(" ", 10),
		tok("builtin", "builtin", "Int", 11),
		tok("punctuation", "punctuation", ")", 14),
		plain(" ", 15),
		tok("punctuation", "punctuation", "{", 16),
		plain("\n  ", 17),
		tok("keyword", "control-flow", "return", 20),
		plain(" a", 26),
		tok("operator", "operator", ".", 28),
		tok("property", "field-access", "b", 29),
		plain(" ", 30),
		tok("comment", "comment", "// done", 31),
		plain("\n", 38),
		tok("punctuation", "punctuation", "}", 39),
	}, tokenizer.Tokenize(g, rueSource))
}

func TestRueCategories(t *testing.T) {
	g := lang.MustCompile("rue", languages.Rue())

	categories := func(src string) map[string]token.Category {
		out := make(map[string]token.Category)
		for _, tk := range tokenizer.Tokenize(g, src) {
			if !tk.IsPlain() {
				out[tk.Text] = tk.Category
			}
		}
		return out
	}

	got := categories(`let MAX_SIZE = 0x1F; const ok = true; x = nil; y = Point { z: "s" }; print(Point)`)
	assert.Equal(t, token.Category("keyword"), got["let"])
	assert.Equal(t, token.Category("constant"), got["MAX_SIZE"])
	assert.Equal(t, token.Category("number"), got["0x1F"])
	assert.Equal(t, token.Category("boolean"), got["true"])
	assert.Equal(t, token.Category("constant"), got["nil"])
	assert.Equal(t, token.Category("class-name"), got["Point"])
	assert.Equal(t, token.Category("property"), got["z"])
	assert.Equal(t, token.Category("string"), got[`"s"`])
	assert.Equal(t, token.Category("function"), got["print"])
}

func TestRoundTripAndDeterminism(t *testing.T) {
	grammars := []*lang.Grammar{
		lang.MustCompile("rue", languages.Rue()),
		compile(t,
			lang.NewRule("keyword", `\b(?:if|else)\b`),
			lang.Rule{Name: "function", Patterns: []string{`(\bfn\s+)\w+`}, Lookbehind: true},
			lang.Rule{Name: "comment", Patterns: []string{`//.*|/\*[^]*?\*/`}, Greedy: true},
		),
	}

	alphabet := []string{"fun", "fn", "if", "else", " ", "\n", "x", "Int", "(", ")", "{", "}", ":", ".", "/*", "*/", "//", "\"", "0x1", "é", "@", "<", ">", "=", "\t"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 300; i++ {
		var sb strings.Builder
		for n := rng.Intn(40); n > 0; n-- {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		input := sb.String()

		for _, g := range grammars {
			tokens := tokenizer.Tokenize(g, input)
			require.Equal(t, input, token.Join(tokens), "round trip of %q with %s", input, g.Name())

			prev := 0
			for j, tk := range tokens {
				require.Equal(t, prev, tk.Start, "token %d of %q is not contiguous", j, input)
				require.Greater(t, tk.End, tk.Start, "token %d of %q is empty", j, input)
				require.Equal(t, input[tk.Start:tk.End], tk.Text)
				if j > 0 && tk.IsPlain() {
					require.False(t, tokens[j-1].IsPlain(), "adjacent plain-text runs in %q", input)
				}
				prev = tk.End
			}

			assertTokens(t, tokens, tokenizer.Tokenize(g, input))
		}
	}
}

func TestConcurrentTokenize(t *testing.T) {
	g := lang.MustCompile("rue", languages.Rue())
	expected := tokenizer.Tokenize(g, rueSource)

	var wg sync.WaitGroup
	results := make([][]token.Token, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tokenizer.Tokenize(g, rueSource)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assertTokens(t, expected, got)
	}
}

func TestTokenizeLanguage(t *testing.T) {
	reg := registry.New()
	require.NoError(t, languages.RegisterBuiltins(reg))

	tokens, err := tokenizer.TokenizeLanguage(reg, "rue", "fun f")
	require.NoError(t, err)
	assert.Equal(t, "fun f", token.Join(tokens))

	_, err = tokenizer.TokenizeLanguage(reg, "cobol", "x")
	assert.ErrorIs(t, err, errors.ErrUnknownLanguage)
}
