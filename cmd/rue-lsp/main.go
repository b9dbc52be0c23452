// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp/server"
	"ruelex/internal/bootstrap"
	"ruelex/internal/config"
	"ruelex/internal/lsp"
)

const lsName = "rue-lsp" // Name identifier for the language server

var version = "0.1.0"

var log = commonlog.GetLogger("ruelex.rue-lsp")

func main() {
	vp := config.New()

	cmd := &cobra.Command{
		Use:           lsName,
		Short:         "Language server providing semantic highlighting for Rue and loaded grammars",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(vp)
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs go to stderr
			commonlog.Configure(max(cfg.Verbosity, 1), nil)

			reg, err := bootstrap.Registry(cfg)
			if err != nil {
				return err
			}

			handler := lsp.NewHandler(reg, lsName, version)
			s := server.NewServer(handler.Protocol(), lsName, cfg.Verbosity > 1)

			log.Infof("starting %s %s with languages %v", lsName, version, reg.Languages())
			return s.RunStdio()
		},
	}

	if err := config.InitFlags(cmd.Flags(), vp); err != nil {
		panic(err)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error starting language server:", err)
		os.Exit(1)
	}
}
