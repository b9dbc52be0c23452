// SPDX-License-Identifier: Apache-2.0
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	"ruelex/internal/bootstrap"
	"ruelex/internal/config"
	"ruelex/internal/errors"
	"ruelex/internal/loader"
	"ruelex/internal/registry"
)

var log = commonlog.GetLogger("ruelex.cli")

type app struct {
	vp  *viper.Viper
	cfg *config.Config
	reg *registry.Registry

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		vp:     config.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "ruelex",
		Short:         "Pattern based syntax highlighting for Rue and other languages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := config.InitFlags(root.PersistentFlags(), a.vp); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.tokensCommand(),
		a.renderCommand(),
		a.languagesCommand(),
		a.checkCommand(),
		a.replCommand(),
	)
	return root
}

// setup resolves the configuration and builds the registry.
func (a *app) setup() error {
	cfg, err := config.Load(a.vp)
	if err != nil {
		return err
	}
	a.cfg = cfg
	commonlog.Configure(cfg.Verbosity, nil)

	reg, err := bootstrap.Registry(cfg)
	if err != nil {
		a.report(err)
		return err
	}
	a.reg = reg
	return nil
}

// report prints err as a source diagnostic when it points into a grammar
// file.
func (a *app) report(err error) {
	var loadErr *loader.LoadError
	if !stderrors.As(err, &loadErr) {
		return
	}
	reporter := errors.NewReporter(loadErr.Path, loadErr.Source)
	fmt.Fprint(a.stderr, reporter.Format(loadErr.Diagnostic()))
}

// readInput reads path, or standard input for "-".
func (a *app) readInput(path string) (string, error) {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(a.stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// languageFor picks the explicit language or derives it from the extension.
func languageFor(path, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return ext, nil
	}
	return "", fmt.Errorf("cannot tell the language of %s, use --language", path)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
