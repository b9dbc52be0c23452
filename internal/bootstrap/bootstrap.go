// SPDX-License-Identifier: Apache-2.0

// Package bootstrap builds the language registry a ruelex process serves
// from its configuration.
package bootstrap

import (
	"fmt"

	"github.com/tliron/commonlog"
	"ruelex/internal/config"
	"ruelex/internal/lang"
	"ruelex/internal/languages"
	"ruelex/internal/loader"
	"ruelex/internal/registry"
)

var log = commonlog.GetLogger("ruelex.bootstrap")

// Registry registers the builtin languages and then the grammar files of
// every configured directory, in order. A failing grammar file is returned
// as the wrapped *loader.LoadError.
func Registry(cfg *config.Config) (*registry.Registry, error) {
	opts := []registry.Option{registry.WithCompileOptions(lang.WithMatchTimeout(cfg.MatchTimeout))}
	if cfg.AllowOverwrite {
		opts = append(opts, registry.AllowOverwrite())
	}
	reg := registry.New(opts...)

	if err := languages.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	for _, dir := range cfg.GrammarDirs {
		defs, err := loader.LoadDir(reg, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load grammars from %s: %w", dir, err)
		}
		log.Debugf("loaded %d grammar(s) from %s", len(defs), dir)
	}
	return reg, nil
}
