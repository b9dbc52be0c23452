package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"ruelex/internal/tokenizer"
)

var log = commonlog.GetLogger("ruelex.lsp")

// GrammarLanguageID marks a document as a grammar definition whatever its
// content looks like.
const GrammarLanguageID = "ruelex-grammar"

// Handler implements the LSP server handlers. It highlights documents of
// every language in its registry and reports problems in grammar files.
type Handler struct {
	mu        sync.RWMutex
	registry  tokenizer.Lookuper
	documents map[protocol.DocumentUri]*document
	name      string
	version   string
}

// NewHandler creates a handler serving the languages registered in reg.
func NewHandler(reg tokenizer.Lookuper, name, version string) *Handler {
	return &Handler{
		registry:  reg,
		documents: make(map[protocol.DocumentUri]*document),
		name:      name,
		version:   version,
	}
}

// Protocol wires the handler methods into a glsp protocol handler.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    h.name,
			Version: &h.version,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen stores the opened document and checks it when it is a
// grammar file
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("opened %s (%s)", uri, params.TextDocument.LanguageID)

	doc := &document{
		language:   h.languageOf(uri, params.TextDocument.LanguageID),
		languageID: params.TextDocument.LanguageID,
		text:       params.TextDocument.Text,
	}

	h.mu.Lock()
	h.documents[uri] = doc
	text := doc.text
	check, publish := doc.grammarCheck(uri)
	h.mu.Unlock()

	if publish {
		h.publishGrammarDiagnostics(ctx, uri, text, check)
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Debugf("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.documents, params.TextDocument.URI)

	return nil
}

// TextDocumentDidChange applies content changes in order
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	doc, ok := h.documents[uri]
	if !ok {
		doc = &document{language: h.languageOf(uri, "")}
		h.documents[uri] = doc
	}
	for _, change := range params.ContentChanges {
		doc.text = applyChange(doc.text, change)
	}
	text := doc.text
	check, publish := doc.grammarCheck(uri)
	h.mu.Unlock()

	if publish {
		h.publishGrammarDiagnostics(ctx, uri, text, check)
	}
	return nil
}

// TextDocumentSemanticTokensFull tokenizes the whole document with the
// grammar of its language. Documents of unknown languages get no tokens.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI

	doc, err := h.document(uri)
	if err != nil {
		return nil, err
	}

	tokens, err := tokenizer.TokenizeLanguage(h.registry, doc.language, doc.text)
	if err != nil {
		log.Debugf("no semantic tokens for %s: %s", uri, err)
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(tokens)),
	}, nil
}

// document returns the open document for uri, reading it from disk when the
// client never sent it.
func (h *Handler) document(uri protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	doc, ok := h.documents[uri]
	h.mu.RUnlock()
	if ok {
		return &document{language: doc.language, text: doc.text}, nil
	}

	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", uri, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return &document{language: h.languageOf(uri, ""), text: string(content)}, nil
}

// languageOf prefers the client's language id and falls back to the file
// extension.
func (h *Handler) languageOf(uri protocol.DocumentUri, languageID string) string {
	if languageID != "" {
		if _, err := h.registry.Lookup(languageID); err == nil {
			return languageID
		}
	}
	return strings.TrimPrefix(filepath.Ext(uri), ".")
}

// publishGrammarDiagnostics sends the problems of a grammar document, or an
// empty list when check is false.
func (h *Handler) publishGrammarDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string, check bool) {
	diagnostics := []protocol.Diagnostic{}
	if check {
		diagnostics = GrammarDiagnostics(uri, text)
	}

	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
