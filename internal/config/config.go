// Package config loads the session's HCL configuration: the optional
// rule toggles plus the session's size and seed.
//
// File-not-found falls back to defaults rather than erroring,
// gohcl.DecodeBody drives the parse, and a post-decode defaulting pass
// fills zero-valued fields DecodeBody left untouched (HCL has no
// concept of "default" on an `optional` tag beyond the zero value).
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/uecda-go/daihinmin/internal/rules"
)

// SessionConfig is the complete configuration for one hosted session.
type SessionConfig struct {
	Session SessionSettings `hcl:"session,block"`
	Rules   RuleSettings    `hcl:"rules,block"`
}

// SessionSettings controls session-wide, non-rule parameters.
type SessionSettings struct {
	Port         int    `hcl:"port,optional"`
	NumGames     int    `hcl:"num_games,optional"`
	Seed         int64  `hcl:"seed,optional"`
	TurnTimeoutS int    `hcl:"turn_timeout_seconds,optional"`
	JournalPath  string `hcl:"journal_path,optional"`
}

// RuleSettings carries the optional rule variants (spec §9, SPEC_FULL.md
// item 1): all default false except ShibariEnabled.
type RuleSettings struct {
	ElevenBack     bool `hcl:"eleven_back,optional"`
	FiveSkip       bool `hcl:"five_skip,optional"`
	SixDiscard     bool `hcl:"six_discard,optional"`
	ShibariEnabled *bool `hcl:"shibari_enabled,optional"`
}

// ToRulesConfig converts the HCL-decoded settings to rules.Config.
func (r RuleSettings) ToRulesConfig() rules.Config {
	shibari := true
	if r.ShibariEnabled != nil {
		shibari = *r.ShibariEnabled
	}
	return rules.Config{
		ElevenBack:     r.ElevenBack,
		FiveSkip:       r.FiveSkip,
		SixDiscard:     r.SixDiscard,
		ShibariEnabled: shibari,
	}
}

// DefaultSessionConfig returns the reference defaults: port 42485 (spec
// §6), one game, suit-lock on and everything else off.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		Session: SessionSettings{
			Port:         42485,
			NumGames:     1,
			Seed:         0,
			TurnTimeoutS: 60,
			JournalPath:  "session.jsonl",
		},
		Rules: RuleSettings{},
	}
}

// Load reads filename as HCL, falling back to DefaultSessionConfig if the
// file doesn't exist.
func Load(filename string) (*SessionConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultSessionConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	var cfg SessionConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *SessionConfig) {
	if cfg.Session.Port == 0 {
		cfg.Session.Port = 42485
	}
	if cfg.Session.NumGames == 0 {
		cfg.Session.NumGames = 1
	}
	if cfg.Session.TurnTimeoutS == 0 {
		cfg.Session.TurnTimeoutS = 60
	}
	if cfg.Session.JournalPath == "" {
		cfg.Session.JournalPath = "session.jsonl"
	}
}

// Validate reports whether the session configuration is usable.
func (c *SessionConfig) Validate() error {
	if c.Session.Port < 1 || c.Session.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Session.Port)
	}
	if c.Session.NumGames < 0 {
		return fmt.Errorf("config: num_games must be non-negative, got %d", c.Session.NumGames)
	}
	return nil
}
