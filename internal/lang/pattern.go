// SPDX-License-Identifier: Apache-2.0
package lang

import (
	"errors"
	"strings"
)

var (
	errNoPrefixCapture   = errors.New("pattern does not start with a prefix capture group")
	errTopLevelAlternate = errors.New("pattern has a top-level alternation")
	errEmptyMain         = errors.New("nothing follows the prefix capture group")
)

// shape is the top-level structure of a pattern: where its top-level '|'
// separators are and which bytes the first top-level capture group spans.
type shape struct {
	alternations []int
	captureStart int
	captureEnd   int

	options    []int // offsets of top-level inline option groups such as "(?i)"
	references bool  // backreferences or conditionals tie the branches together
}

// scanShape walks src once, skipping escapes and character classes.
func scanShape(src string) shape {
	sh := shape{captureStart: -1, captureEnd: -1}

	var stack []bool // true for groups that are the first top-level capture
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) && isReference(src[i+1:]) {
				sh.references = true
			}
			i++
		case '[':
			i = classEnd(src, i)
		case '|':
			if len(stack) == 0 {
				sh.alternations = append(sh.alternations, i)
			}
		case '(':
			if strings.HasPrefix(src[i:], "(?(") {
				sh.references = true
			}
			if len(stack) == 0 && inlineOptions(src[i:]) > 0 {
				sh.options = append(sh.options, i)
			}
			first := len(stack) == 0 && sh.captureStart < 0 && isCapture(src[i:])
			if first {
				sh.captureStart = i
			}
			stack = append(stack, first)
		case ')':
			if len(stack) == 0 {
				continue
			}
			if stack[len(stack)-1] {
				sh.captureEnd = i + 1
			}
			stack = stack[:len(stack)-1]
		}
	}

	return sh
}

// classEnd returns the offset of the ']' closing the class opened at src[start].
func classEnd(src string, start int) int {
	i := start + 1
	if i < len(src) && src[i] == '^' {
		i++
	}
	for ; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return len(src)
}

// isCapture reports whether the group opening at s[0] captures.
func isCapture(s string) bool {
	if !strings.HasPrefix(s, "(?") {
		return true
	}
	switch {
	case strings.HasPrefix(s, "(?<="), strings.HasPrefix(s, "(?<!"):
		return false
	case strings.HasPrefix(s, "(?<"), strings.HasPrefix(s, "(?'"), strings.HasPrefix(s, "(?P<"):
		return true
	}
	return false
}

// isReference reports whether the escape following a backslash refers back
// to a group: "\1" to "\9", "\k<name>" or "\k'name'".
func isReference(s string) bool {
	switch {
	case s[0] >= '1' && s[0] <= '9':
		return true
	case strings.HasPrefix(s, "k<"), strings.HasPrefix(s, "k'"):
		return true
	}
	return false
}

// inlineOptions returns the length of the inline option group at the start
// of s, such as "(?i)" or "(?s-i)", or 0 when s does not start with one.
func inlineOptions(s string) int {
	if !strings.HasPrefix(s, "(?") {
		return 0
	}
	for i := 2; i < len(s); i++ {
		switch {
		case s[i] == ')':
			if i == 2 {
				return 0
			}
			return i + 1
		case strings.IndexByte("imnsx-", s[i]) < 0:
			return 0
		}
	}
	return 0
}

// splitAlternatives splits src at its top-level '|' separators. A leading
// inline option group is repeated on every branch. Patterns whose branches
// depend on each other, through backreferences, conditionals or options set
// after the start, are returned whole.
func splitAlternatives(src string) []string {
	sh := scanShape(src)
	if len(sh.alternations) == 0 || sh.references {
		return []string{src}
	}

	lead := ""
	for _, at := range sh.options {
		if at != 0 || lead != "" {
			return []string{src}
		}
		lead = src[:inlineOptions(src)]
	}

	parts := make([]string, 0, len(sh.alternations)+1)
	prev := 0
	for _, at := range sh.alternations {
		parts = append(parts, src[prev:at])
		prev = at + 1
	}
	parts = append(parts, src[prev:])
	for i := 1; i < len(parts); i++ {
		parts[i] = lead + parts[i]
	}
	return parts
}

// splitLookbehind cuts "(prefix)main" after its first top-level capture group.
func splitLookbehind(src string) (prefix, main string, err error) {
	sh := scanShape(src)
	switch {
	case len(sh.alternations) > 0:
		return "", "", errTopLevelAlternate
	case sh.captureStart < 0 || sh.captureEnd < 0:
		return "", "", errNoPrefixCapture
	case sh.captureEnd == len(src):
		return "", "", errEmptyMain
	}
	return src[:sh.captureEnd], src[sh.captureEnd:], nil
}

// lookbehindSource turns "(prefix)main" into a pattern matching main only
// when prefix matches immediately before it.
func lookbehindSource(src string) (string, error) {
	prefix, main, err := splitLookbehind(src)
	if err != nil {
		return "", err
	}
	return "(?<=" + prefix + ")(?:" + main + ")", nil
}

// lineDot is what '.' matches in JavaScript without the s flag.
const lineDot = `[^\n\r\u2028\u2029]`

// normalize rewrites JavaScript-only constructs found in Prism grammars into
// their .NET equivalents: "[^]" (any character) and "[]" (never matches).
// Unless dotAll is set, '.' is narrowed to JavaScript's set of non line
// terminators, which excludes '\r'.
func normalize(src string, dotAll bool) string {
	if !strings.Contains(src, "[]") && !strings.Contains(src, "[^]") &&
		(dotAll || !strings.Contains(src, ".")) {
		return src
	}

	var sb strings.Builder
	for i := 0; i < len(src); i++ {
		switch {
		case src[i] == '\\' && i+1 < len(src):
			sb.WriteString(src[i : i+2])
			i++
		case strings.HasPrefix(src[i:], "[^]"):
			sb.WriteString(`[\s\S]`)
			i += 2
		case strings.HasPrefix(src[i:], "[]"):
			sb.WriteString(`(?!)`)
			i++
		case src[i] == '.' && !dotAll:
			sb.WriteString(lineDot)
		case src[i] == '[':
			end := classEnd(src, i)
			if end >= len(src) {
				sb.WriteString(src[i:])
				return sb.String()
			}
			sb.WriteString(src[i : end+1])
			i = end
		default:
			sb.WriteByte(src[i])
		}
	}
	return sb.String()
}
