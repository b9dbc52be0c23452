// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %s", err))
		os.Exit(1)
	}
}
