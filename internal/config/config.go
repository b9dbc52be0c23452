// SPDX-License-Identifier: Apache-2.0

// Package config resolves ruelex settings from flags, RUELEX_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"ruelex/internal/lang"
)

const (
	ConfigFile     = "config"
	GrammarDirs    = "grammar-dirs"
	MatchTimeout   = "match-timeout"
	Format         = "format"
	Style          = "style"
	AllowOverwrite = "allow-overwrite"
	Verbosity      = "verbosity"

	EnvPrefix = "RUELEX"
)

// Config is the resolved configuration of one ruelex process.
type Config struct {
	GrammarDirs    []string
	MatchTimeout   time.Duration
	Format         string
	Style          string
	AllowOverwrite bool
	Verbosity      int
}

// New returns a viper instance with the ruelex defaults and environment
// bindings in place.
func New() *viper.Viper {
	vp := viper.New()
	vp.SetDefault(GrammarDirs, []string{})
	vp.SetDefault(MatchTimeout, lang.DefaultMatchTimeout)
	vp.SetDefault(Format, "terminal256")
	vp.SetDefault(Style, "monokai")
	vp.SetDefault(AllowOverwrite, false)
	vp.SetDefault(Verbosity, 0)

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()
	return vp
}

// InitFlags registers the global flags on flags and binds them to vp.
func InitFlags(flags *pflag.FlagSet, vp *viper.Viper) error {
	flags.String(ConfigFile, "", `Configuration file (default "./ruelex.yaml" if present)`)
	flags.StringSlice(GrammarDirs, nil, "Directory of .grammar/.yaml files to load (repeatable)")
	flags.Duration(MatchTimeout, lang.DefaultMatchTimeout, "Time limit of a single pattern search, 0 for none")
	flags.Bool(AllowOverwrite, false, "Let grammar files replace builtin languages")
	flags.CountP(Verbosity, "v", "Increase log verbosity (repeatable)")

	return vp.BindPFlags(flags)
}

// Load reads the config file, if any, and populates a Config from vp.
func Load(vp *viper.Viper) (*Config, error) {
	if file := vp.GetString(ConfigFile); file != "" {
		vp.SetConfigFile(file)
		if err := vp.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else {
		vp.SetConfigName("ruelex")
		vp.SetConfigType("yaml")
		vp.AddConfigPath(".")
		if err := vp.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	c := &Config{
		GrammarDirs:    vp.GetStringSlice(GrammarDirs),
		MatchTimeout:   vp.GetDuration(MatchTimeout),
		Format:         vp.GetString(Format),
		Style:          vp.GetString(Style),
		AllowOverwrite: vp.GetBool(AllowOverwrite),
		Verbosity:      vp.GetInt(Verbosity),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	// zero turns the guard off
	if c.MatchTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", MatchTimeout, c.MatchTimeout)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%s must not be negative", Verbosity)
	}
	return nil
}
