// SPDX-License-Identifier: Apache-2.0

// Package registry holds compiled grammars by language name. Registration is
// serialized; lookups read an immutable snapshot and never lock.
package registry

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
	"ruelex/internal/errors"
	"ruelex/internal/lang"
)

var log = commonlog.GetLogger("ruelex.registry")

type snapshot map[string]*lang.Grammar

// Registry maps language names to grammars. It is append-only.
type Registry struct {
	mu             sync.Mutex // serializes writers
	grammars       atomic.Pointer[snapshot]
	allowOverwrite bool
	compileOpts    []lang.Option
}

type Option func(*Registry)

// AllowOverwrite lets a later registration replace an existing language
// instead of failing with ErrDuplicateLanguage.
func AllowOverwrite() Option {
	return func(r *Registry) {
		r.allowOverwrite = true
	}
}

// WithCompileOptions passes opts to lang.Compile for every Register call.
func WithCompileOptions(opts ...lang.Option) Option {
	return func(r *Registry) {
		r.compileOpts = append(r.compileOpts, opts...)
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	empty := snapshot{}
	r.grammars.Store(&empty)
	return r
}

// Register compiles rules and stores the grammar under language.
func (r *Registry) Register(language string, rules []lang.Rule) error {
	if !r.allowOverwrite && r.Has(language) {
		return errors.DuplicateLanguage(language)
	}

	g, err := lang.Compile(language, rules, r.compileOpts...)
	if err != nil {
		return err
	}
	return r.Add(g)
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(language string, rules []lang.Rule) {
	if err := r.Register(language, rules); err != nil {
		panic(err)
	}
}

// Add stores an already compiled grammar under its own name.
func (r *Registry) Add(g *lang.Grammar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.grammars.Load()
	if _, exists := current[g.Name()]; exists && !r.allowOverwrite {
		return errors.DuplicateLanguage(g.Name())
	}

	next := make(snapshot, len(current)+1)
	for name, grammar := range current {
		next[name] = grammar
	}
	next[g.Name()] = g
	r.grammars.Store(&next)

	log.Debugf("registered language %q with %d rules", g.Name(), g.Len())
	return nil
}

// Lookup returns the grammar registered for language.
func (r *Registry) Lookup(language string) (*lang.Grammar, error) {
	g, ok := (*r.grammars.Load())[language]
	if !ok {
		return nil, errors.UnknownLanguage(language)
	}
	return g, nil
}

func (r *Registry) Has(language string) bool {
	_, ok := (*r.grammars.Load())[language]
	return ok
}

// Languages returns the registered language names, sorted.
func (r *Registry) Languages() []string {
	current := *r.grammars.Load()
	names := make([]string, 0, len(current))
	for name := range current {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
