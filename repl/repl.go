// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ruelex/internal/render"
	"ruelex/internal/tokenizer"
)

const PROMPT = ">> "

// Start reads lines from in and prints the tokens of each one to out. The
// commands ":lang NAME" switch the language and ":quit" ends the session.
func Start(in io.Reader, out io.Writer, reg tokenizer.Lookuper, language string) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "%s%s", language, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		switch {
		case line == ":quit":
			return nil
		case strings.HasPrefix(line, ":lang "):
			name := strings.TrimSpace(strings.TrimPrefix(line, ":lang "))
			if _, err := reg.Lookup(name); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			language = name
			continue
		}

		tokens, err := tokenizer.TokenizeLanguage(reg, language, line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if err := render.Dump(out, tokens); err != nil {
			return err
		}
	}
}
