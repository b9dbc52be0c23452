// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var GrammarLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`},

		// Regex literals, JavaScript style: /source/flags
		{Name: "Regex", Pattern: `/(?:\\.|\[(?:\\.|[^\]\\\n])*\]|[^/\\\n\[])+/[a-zA-Z]*`},

		{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"`},

		// Rule names may contain dashes (function-call, class-name)
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},

		{Name: "Punctuation", Pattern: `[;\[\]]`},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
