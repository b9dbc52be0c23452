// SPDX-License-Identifier: Apache-2.0

// Package languages contains the grammars compiled into the binary.
package languages

import (
	"fmt"
	"sort"

	"ruelex/internal/lang"
)

// Registrar is satisfied by *registry.Registry.
type Registrar interface {
	Register(language string, rules []lang.Rule) error
}

// Builtins maps every built-in language name to its rule constructor.
var Builtins = map[string]func() []lang.Rule{
	"rue": Rue,
}

// RegisterBuiltins registers every built-in language with reg.
func RegisterBuiltins(reg Registrar) error {
	names := make([]string, 0, len(Builtins))
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := reg.Register(name, Builtins[name]()); err != nil {
			return fmt.Errorf("failed to register built-in language %s: %w", name, err)
		}
	}
	return nil
}
