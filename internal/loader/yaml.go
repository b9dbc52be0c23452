// SPDX-License-Identifier: Apache-2.0
package loader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"ruelex/internal/errors"
	"ruelex/internal/lang"
)

type yamlFile struct {
	Language string     `yaml:"language"`
	Rules    []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Name       string   `yaml:"name"`
	Alias      string   `yaml:"alias"`
	Pattern    string   `yaml:"pattern"`
	Patterns   []string `yaml:"patterns"`
	Lookbehind bool     `yaml:"lookbehind"`
	Greedy     bool     `yaml:"greedy"`
	IgnoreCase bool     `yaml:"ignore-case"`
	Multiline  bool     `yaml:"multiline"`
}

// grammarKeys are the top-level keys of a YAML grammar.
var grammarKeys = map[string]bool{"language": true, "rules": true}

func hasGrammarKeys(source string) bool {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		// a grammar in the middle of an edit does not parse but still
		// starts its lines with the keys
		for _, line := range strings.Split(source, "\n") {
			key, _, found := strings.Cut(line, ":")
			if found && grammarKeys[key] {
				return true
			}
		}
		return false
	}

	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return false
	}
	mapping := root.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if grammarKeys[mapping.Content[i].Value] {
			return true
		}
	}
	return false
}

func parseYAML(path, source string) (*Definition, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		return nil, &LoadError{
			Path:     path,
			Source:   source,
			Position: yamlErrorPosition(err),
			Err:      fmt.Errorf("%w: %s", errors.ErrGrammarSyntax, err),
		}
	}

	var file yamlFile
	if err := root.Decode(&file); err != nil {
		return nil, &LoadError{
			Path:     path,
			Source:   source,
			Position: errors.Position{Line: 1, Column: 1},
			Err:      fmt.Errorf("%w: %s", errors.ErrGrammarSyntax, err),
		}
	}
	if file.Language == "" {
		return nil, &LoadError{
			Path:     path,
			Source:   source,
			Position: errors.Position{Line: 1, Column: 1},
			Err:      fmt.Errorf("%w: missing language name", errors.ErrGrammarSyntax),
		}
	}

	positions := rulePositions(&root)
	def := &Definition{Path: path, Source: source, Language: file.Language}
	for i, r := range file.Rules {
		patterns := r.Patterns
		if r.Pattern != "" {
			patterns = append([]string{r.Pattern}, patterns...)
		}

		def.Rules = append(def.Rules, lang.Rule{
			Name:       r.Name,
			Alias:      r.Alias,
			Patterns:   patterns,
			Lookbehind: r.Lookbehind,
			Greedy:     r.Greedy,
			IgnoreCase: r.IgnoreCase,
			Multiline:  r.Multiline,
		})

		pos := errors.Position{Line: 1, Column: 1}
		if i < len(positions) {
			pos = positions[i]
		}
		def.Positions = append(def.Positions, pos)
	}

	return def, nil
}

// rulePositions returns the position of every item of the top-level "rules"
// sequence.
func rulePositions(root *yaml.Node) []errors.Position {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != "rules" {
			continue
		}
		var positions []errors.Position
		for _, item := range mapping.Content[i+1].Content {
			positions = append(positions, errors.Position{Line: item.Line, Column: item.Column})
		}
		return positions
	}
	return nil
}

func yamlErrorPosition(err error) errors.Position {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil && line > 0 {
		return errors.Position{Line: line, Column: 1}
	}
	return errors.Position{Line: 1, Column: 1}
}
