package lsp

import (
	stderrors "errors"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"ruelex/internal/errors"
	"ruelex/internal/loader"
)

// GrammarDiagnostics checks a grammar file and converts the first problem
// into an LSP diagnostic. A valid grammar yields an empty list, which clears
// earlier diagnostics in the client.
func GrammarDiagnostics(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	_, err := loader.Check(uri, text)
	if err == nil {
		return diagnostics
	}

	var loadErr *loader.LoadError
	if !stderrors.As(err, &loadErr) {
		return append(diagnostics, protocol.Diagnostic{
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("ruelex"),
			Message:  err.Error(),
		})
	}

	return append(diagnostics, ConvertDiagnostic(loadErr.Diagnostic()))
}

// ConvertDiagnostic transforms a ruelex diagnostic into an LSP diagnostic.
func ConvertDiagnostic(d errors.Diagnostic) protocol.Diagnostic {
	length := d.Length
	if length < 1 {
		length = 1
	}

	diagnostic := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      uint32(max(d.Position.Line-1, 0)),   // Convert to 0-based indexing
				Character: uint32(max(d.Position.Column-1, 0)), // Convert to 0-based indexing
			},
			End: protocol.Position{
				Line:      uint32(max(d.Position.Line-1, 0)),
				Character: uint32(max(d.Position.Column-1, 0) + length),
			},
		},
		Severity: ptrSeverity(severityOf(d.Level)),
		Source:   ptrString("ruelex"),
		Message:  d.Message,
	}
	if d.Code != "" {
		diagnostic.Code = &protocol.IntegerOrString{Value: d.Code}
	}
	return diagnostic
}

func severityOf(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note, errors.Help:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
