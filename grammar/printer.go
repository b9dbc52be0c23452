// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

var bareName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

func name(s string) string {
	if bareName.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

// String prints the file in canonical form: one rule per line, single
// spaces between parts, comments dropped.
func (f *File) String() string {
	var b strings.Builder
	b.WriteString("language " + name(f.Language) + "\n")
	if len(f.Rules) > 0 {
		b.WriteString("\n")
	}
	for _, r := range f.Rules {
		b.WriteString(r.String() + "\n")
	}
	return b.String()
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(name(r.Name) + " ")

	if len(r.Patterns) == 1 {
		b.WriteString(r.Patterns[0].Regex)
	} else {
		b.WriteString("[")
		for _, p := range r.Patterns {
			b.WriteString(" " + p.Regex)
		}
		b.WriteString(" ]")
	}

	for _, opt := range r.Options {
		b.WriteString(" " + opt.String())
	}
	b.WriteString(";")
	return b.String()
}

func (o *Option) String() string {
	if o.Alias != nil {
		return "alias " + name(*o.Alias)
	}
	return o.Flag
}
