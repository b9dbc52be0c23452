// SPDX-License-Identifier: Apache-2.0
package errors

// Error codes for grammar registration and loading.
// These codes appear in diagnostics printed by the CLI and in RuleError values.
//
// Error code ranges:
// E0001-E0099: Registry errors
// E0100-E0199: Rule validation errors
// E0200-E0299: Grammar file errors

const (
	// E0001: Lookup of a language that was never registered
	ErrorUnknownLanguage = "E0001"

	// E0002: Second registration of the same language
	ErrorDuplicateLanguage = "E0002"

	// E0100: Rule without a name
	ErrorEmptyRuleName = "E0100"

	// E0101: Rule without a pattern, or with an empty pattern source
	ErrorEmptyPattern = "E0101"

	// E0102: Two rules with the same name in one grammar
	ErrorDuplicateRule = "E0102"

	// E0103: Pattern rejected by the regular expression compiler
	ErrorBadPattern = "E0103"

	// E0104: Lookbehind pattern without a leading prefix capture
	ErrorLookbehindDecomposition = "E0104"

	// E0105: Pattern able to match the empty string
	ErrorZeroWidthPattern = "E0105"

	// E0106: Unknown regex literal flag
	ErrorBadFlag = "E0106"

	// E0200: Grammar file does not parse
	ErrorGrammarSyntax = "E0200"

	// E0201: Grammar file extension is not a known format
	ErrorUnknownGrammarFormat = "E0201"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnknownLanguage:
		return "Language is not registered"
	case ErrorDuplicateLanguage:
		return "Language is already registered"
	case ErrorEmptyRuleName:
		return "Rule has an empty name"
	case ErrorEmptyPattern:
		return "Rule has an empty pattern"
	case ErrorDuplicateRule:
		return "Rule name is used twice in one grammar"
	case ErrorBadPattern:
		return "Pattern is not a valid regular expression"
	case ErrorLookbehindDecomposition:
		return "Lookbehind pattern cannot be split into a prefix capture and a main pattern"
	case ErrorZeroWidthPattern:
		return "Pattern can match the empty string"
	case ErrorBadFlag:
		return "Unknown pattern flag"
	case ErrorGrammarSyntax:
		return "Grammar file syntax error"
	case ErrorUnknownGrammarFormat:
		return "Grammar file format is not supported"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Registry"
	case code >= "E0100" && code < "E0200":
		return "Rule"
	case code >= "E0200" && code < "E0300":
		return "Grammar File"
	default:
		return "Unknown"
	}
}
