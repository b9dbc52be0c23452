// SPDX-License-Identifier: Apache-2.0

// Package loader reads grammar definitions from files, either the .grammar
// language of package grammar or YAML rule lists, and registers them.
package loader

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
	"ruelex/internal/errors"
	"ruelex/internal/lang"
)

var log = commonlog.GetLogger("ruelex.loader")

// Definition is one language as written in a grammar file.
type Definition struct {
	Path      string
	Source    string
	Language  string
	Rules     []lang.Rule
	Positions []errors.Position // file position of each rule, same order as Rules
}

// Registrar is satisfied by *registry.Registry.
type Registrar interface {
	Register(language string, rules []lang.Rule) error
}

// LoadError is a failure to load one grammar file. It keeps the file source
// so callers can render a diagnostic.
type LoadError struct {
	Path     string
	Source   string
	Position errors.Position
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Position.Line, e.Position.Column, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Diagnostic renders the error as a diagnostic for its file.
func (e *LoadError) Diagnostic() errors.Diagnostic {
	return errors.FromError(e.Err, e.Position)
}

// Parse decodes a grammar definition, choosing the format by extension.
func Parse(path, source string) (*Definition, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".grammar":
		return parseGrammar(path, source)
	case ".yaml", ".yml":
		return parseYAML(path, source)
	default:
		return nil, &LoadError{
			Path:     path,
			Source:   source,
			Position: errors.Position{Line: 1, Column: 1},
			Err:      fmt.Errorf("%w %q", errors.ErrGrammarFormat, filepath.Ext(path)),
		}
	}
}

// Check parses the file and compiles its rules without registering them.
func Check(path, source string, opts ...lang.Option) (*Definition, error) {
	def, err := Parse(path, source)
	if err != nil {
		return nil, err
	}
	if _, err := lang.Compile(def.Language, def.Rules, opts...); err != nil {
		return nil, def.wrap(err)
	}
	return def, nil
}

// LoadFile parses the grammar at path and registers it with reg.
func LoadFile(reg Registrar, path string) (*Definition, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar %s: %w", path, err)
	}

	def, err := Parse(path, string(source))
	if err != nil {
		return nil, err
	}
	if err := reg.Register(def.Language, def.Rules); err != nil {
		return nil, def.wrap(err)
	}

	log.Infof("loaded language %q from %s (%d rules)", def.Language, path, len(def.Rules))
	return def, nil
}

// LoadDir loads every grammar file in dir, in name order. It stops at the
// first failing file.
func LoadDir(reg Registrar, dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsGrammarFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	var defs []*Definition
	for _, path := range paths {
		def, err := LoadFile(reg, path)
		if err != nil {
			return defs, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// IsGrammarFile reports whether name has a grammar file extension.
func IsGrammarFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".grammar", ".yaml", ".yml":
		return true
	}
	return false
}

// IsGrammarSource reports whether source, read from path, is a grammar
// definition. A YAML document only counts when it has a top-level language or
// rules key, so unrelated YAML files are left alone.
func IsGrammarSource(path, source string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".grammar":
		return true
	case ".yaml", ".yml":
		return hasGrammarKeys(source)
	}
	return false
}

// wrap attaches the file position of the offending rule to err.
func (d *Definition) wrap(err error) error {
	pos := errors.Position{Line: 1, Column: 1}

	var ruleErr *errors.RuleError
	if stderrors.As(err, &ruleErr) && ruleErr.Index >= 0 && ruleErr.Index < len(d.Positions) {
		pos = d.Positions[ruleErr.Index]
	}
	return &LoadError{Path: d.Path, Source: d.Source, Position: pos, Err: err}
}
