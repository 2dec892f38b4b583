package goconflict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(`
configuration: runtimeClasspath
failOnVersionConflict: true
autoUpgradeCapabilities: true
selectHighestCapability: true
maxRestarts: 4
replacements:
  org:old: org:new
`))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Configuration:           "runtimeClasspath",
		FailOnVersionConflict:   true,
		AutoUpgradeCapabilities: true,
		SelectHighestCapability: true,
		MaxRestarts:             4,
		Replacements:            map[string]string{"org:old": "org:new"},
	}, c)

	cfg, err := newSessionConfig(c.Options()...)
	require.NoError(t, err)
	assert.Equal(t, "runtimeClasspath", cfg.configuration)
	assert.True(t, cfg.failOnVersionConflict)
	assert.True(t, cfg.autoUpgrade)
	assert.True(t, cfg.selectHighest)
	assert.Equal(t, 4, cfg.maxRestarts)
	assert.Len(t, cfg.replacements, 1)
}

func TestParseConfig_Empty(t *testing.T) {
	c, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, c.Options())
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "failOnConflict: true"},
		{"wrong type", "maxRestarts: many"},
		{"negative restarts", "maxRestarts: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conflicts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("configuration: test\n"), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Configuration)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
