// Package config resolves capnp-fetch settings from flags, the environment
// provided by the host build, and an optional capnp-fetch.yml.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/simonhull/capnp-fetch/internal/acquire"
)

// DefaultSourceDir is the vendored capnproto tree, relative to the package root.
const DefaultSourceDir = "capnproto"

// Config holds the resolved settings for one run.
type Config struct {
	OutDir    string // raw, validated later by acquire.ResolveOutDir
	SourceDir string
	Policy    acquire.Policy
	Profile   string
	Jobs      int
	Progress  bool
	Verbose   bool
}

// flag name -> viper key
var flagKeys = map[string]string{
	"out-dir":        "out_dir",
	"source-dir":     "source_dir",
	"deny-net-fetch": "deny_net_fetch",
	"progress":       "progress",
	"verbose":        "verbose",
}

// Load reads capnp-fetch.yml from the working directory if present, then
// layers environment variables and any flags set on flags over it.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("capnp-fetch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("source_dir", DefaultSourceDir)

	// Environment provided by the host build
	if err := v.BindEnv("out_dir", "OUT_DIR"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("deny_net_fetch", "CAPNP_FETCH_DENY_NET_FETCH", "CARGO_FEATURE_DENY_NET_FETCH"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("profile", "PROFILE"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("num_jobs", "NUM_JOBS"); err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read capnp-fetch.yml: %w", err)
		}
	}

	jobs, err := acquire.ParseJobs(v.GetString("num_jobs"))
	if err != nil {
		return nil, fmt.Errorf("NUM_JOBS: %w", err)
	}

	cfg := &Config{
		OutDir:    v.GetString("out_dir"),
		SourceDir: strings.TrimSpace(v.GetString("source_dir")),
		Policy: acquire.Policy{
			DenyNetFetch: v.GetBool("deny_net_fetch"),
		},
		Profile:  v.GetString("profile"),
		Jobs:     jobs,
		Progress: v.GetBool("progress"),
		Verbose:  v.GetBool("verbose"),
	}

	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("source_dir must not be empty")
	}

	return cfg, nil
}
