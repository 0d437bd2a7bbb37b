package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, 42485, cfg.Session.Port)
	assert.Equal(t, 1, cfg.Session.NumGames)
	assert.False(t, cfg.Rules.ElevenBack)
}

func TestDefaultSessionConfigEnablesShibariOnly(t *testing.T) {
	rc := DefaultSessionConfig().Rules.ToRulesConfig()
	assert.True(t, rc.ShibariEnabled)
	assert.False(t, rc.ElevenBack)
	assert.False(t, rc.FiveSkip)
	assert.False(t, rc.SixDiscard)
}

func TestLoadParsesHCLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.hcl")
	body := `
session {
  port = 5000
  num_games = 7
  seed = 42
}

rules {
  eleven_back = true
  shibari_enabled = false
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Session.Port)
	assert.Equal(t, 7, cfg.Session.NumGames)
	assert.Equal(t, int64(42), cfg.Session.Seed)
	assert.True(t, cfg.Rules.ElevenBack)

	rc := cfg.Rules.ToRulesConfig()
	assert.False(t, rc.ShibariEnabled)
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Session.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeNumGames(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Session.NumGames = -1
	assert.Error(t, cfg.Validate())
}
