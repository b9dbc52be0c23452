// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"ruelex/internal/config"
	"ruelex/internal/lang"
	"ruelex/internal/loader"
	"ruelex/internal/render"
	"ruelex/internal/tokenizer"
	"ruelex/repl"
)

func (a *app) tokensCommand() *cobra.Command {
	var (
		language string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a file (\"-\" reads standard input)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			name, err := languageFor(args[0], language)
			if err != nil {
				return err
			}

			tokens, err := tokenizer.TokenizeLanguage(a.reg, name, source)
			if err != nil {
				return err
			}
			if asJSON {
				return render.DumpJSON(a.stdout, tokens)
			}
			return render.Dump(a.stdout, tokens)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Language of the input (default: file extension)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tokens as JSON")
	return cmd
}

func (a *app) renderCommand() *cobra.Command {
	var (
		language string
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render highlighted files with a chroma formatter or as Prism HTML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args, language, outDir)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&language, "language", "l", "", "Language of the inputs (default: file extension)")
	flags.StringVarP(&outDir, "output", "o", "", "Write one file per input into this directory instead of standard output")
	flags.StringP(config.Format, "f", "terminal256", "Output format: prism or a chroma formatter ("+strings.Join(render.Formats(), ", ")+")")
	flags.StringP(config.Style, "s", "monokai", "Chroma style")
	if err := a.vp.BindPFlag(config.Format, flags.Lookup(config.Format)); err != nil {
		panic(err)
	}
	if err := a.vp.BindPFlag(config.Style, flags.Lookup(config.Style)); err != nil {
		panic(err)
	}
	return cmd
}

// render highlights every file concurrently. Output to standard output keeps
// the argument order.
func (a *app) render(ctx context.Context, paths []string, language, outDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outputs := make([]bytes.Buffer, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			source, err := a.readInput(path)
			if err != nil {
				return err
			}
			name, err := languageFor(path, language)
			if err != nil {
				return err
			}
			tokens, err := tokenizer.TokenizeLanguage(a.reg, name, source)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := render.Write(&outputs[i], tokens, a.cfg.Format, a.cfg.Style); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if outDir == "" {
				return nil
			}
			target := filepath.Join(outDir, filepath.Base(path)+outputExtension(a.cfg.Format))
			log.Debugf("writing %s", target)
			return os.WriteFile(target, outputs[i].Bytes(), 0o644)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if outDir == "" {
		for i := range outputs {
			if _, err := outputs[i].WriteTo(a.stdout); err != nil {
				return err
			}
		}
	}
	return nil
}

func outputExtension(format string) string {
	switch format {
	case "html", "prism":
		return ".html"
	case "json":
		return ".json"
	case "svg":
		return ".svg"
	default:
		return ".txt"
	}
}

func (a *app) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the registered languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.reg.Languages() {
				g, err := a.reg.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s %d rules\n", color.New(color.Bold).Sprintf("%-16s", name), g.Len())
			}
			return nil
		},
	}
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check GRAMMAR...",
		Short: "Validate grammar files without registering them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			failed := 0

			for _, path := range args {
				source, err := a.readInput(path)
				if err != nil {
					return err
				}

				def, err := loader.Check(path, source, lang.WithMatchTimeout(a.cfg.MatchTimeout))
				if err != nil {
					failed++
					a.report(err)
					fmt.Fprintln(a.stderr, color.RedString("%s: %s", path, err))
					continue
				}
				fmt.Fprintf(a.stdout, "%s %s (%s, %d rules)\n", color.GreenString("ok"), path, def.Language, len(def.Rules))
			}

			duration := formatDuration(time.Since(startTime))
			if failed > 0 {
				return fmt.Errorf("%d of %d grammar file(s) failed after %s", failed, len(args), duration)
			}
			fmt.Fprintln(a.stdout, color.GreenString("Checked %d grammar file(s) in %s", len(args), duration))
			return nil
		},
	}
}

func (a *app) replCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Tokenize lines typed at a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.reg.Lookup(language); err != nil {
				return err
			}
			return repl.Start(a.stdin, a.stdout, a.reg, language)
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "rue", "Language to start with")
	return cmd
}
