// SPDX-License-Identifier: Apache-2.0
package languages

import "ruelex/internal/lang"

const identifier = `[a-zA-Z_][a-zA-Z0-9_]*`

// Rue returns the highlighting rules of the Rue language in priority order.
func Rue() []lang.Rule {
	return []lang.Rule{
		{
			Name:       "function",
			Patterns:   []string{`(\bfun\s+)` + identifier},
			Lookbehind: true,
		},
		{
			Name:     "function-call",
			Alias:    "function",
			Patterns: []string{`\b` + identifier + `(?=\s*(?:\(|<.*?>\())`},
		},
		{
			Name:     "field",
			Alias:    "property",
			Patterns: []string{`(?!\b(?:let|const))\b` + identifier + `(?=\s*:)`},
		},
		{
			Name:       "field-access",
			Alias:      "property",
			Patterns:   []string{`\b(\.)(` + identifier + `)`},
			Lookbehind: true,
		},
		lang.NewRule("string", `"[^"]*"`),
		{
			Name: "comment",
			// "[^]" already spans lines; '.' has to stop at the end of a line comment
			Patterns: []string{`\/\/.*|\/\*[^]*?\*\/`},
			Greedy:   true,
		},
		lang.NewRule("number", `\b(?:0[xX][0-9a-fA-F_]+|[0-9][0-9_]*)\b`),
		lang.NewRule("operator", `[+\-*?%!\^~]|<[<=]?|>[>=]?|=[=>]?|!=?|\.(?:\.\.)?|::|->?|&&?|\|\|?`),
		lang.NewRule("punctuation", `[(){}[\],:]`),
		{
			Name:  "control-flow",
			Alias: "keyword",
			Patterns: []string{
				`\bif\b`,
				`\belse\b`,
				`\breturn\b`,
				`\braise\b`,
				`\bassert\b`,
				`\bassume\b`,
			},
		},
		keywords("binding", "let", "const", "fun"),
		keywords("type", "type", "struct", "enum", "as", "is"),
		keywords("module", "import", "mod"),
		keywords("modifier", "inline", "export"),
		lang.NewRule("boolean", `\b(?:false|true)\b`),
		{
			Name:     "null",
			Alias:    "constant",
			Patterns: []string{`\bnil\b`},
		},
		lang.NewRule("builtin", `\b(?:Int|Any|Bytes32|Bytes|PublicKey|Bool)\b`),
		lang.NewRule("class-name", `\b[A-Z][a-z][a-zA-Z0-9_]*\b`),
		lang.NewRule("constant", `\b[A-Z][A-Z0-9_]*\b`),
	}
}

func keywords(name string, words ...string) lang.Rule {
	pattern := `\b(?:`
	for i, word := range words {
		if i > 0 {
			pattern += "|"
		}
		pattern += word
	}
	return lang.Rule{
		Name:     name,
		Alias:    "keyword",
		Patterns: []string{pattern + `)\b`},
	}
}
