package geolite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataDir(t *testing.T) {
	t.Setenv(envDataDir, "")
	assert.Equal(t, "data", ResolveDataDir(""))
	assert.Equal(t, "/srv/geo", ResolveDataDir("/srv/geo"))

	t.Setenv(envDataDir, "/var/lib/geolite")
	assert.Equal(t, "/var/lib/geolite", ResolveDataDir(""))
	assert.Equal(t, "/srv/geo", ResolveDataDir("/srv/geo"))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := map[string]Option{
		"PollInterval":      WithPollInterval(0),
		"SettleDelay":       WithSettleDelay(-time.Second),
		"MinReloadInterval": WithMinReloadInterval(-time.Second),
	}
	for name, opt := range tests {
		cfg := DefaultConfig()
		opt(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}

	cfg := DefaultConfig()
	cfg.DataDir = ""
	assert.Error(t, cfg.Validate())
	WithSource(NewDirSource(t.TempDir(), false))(&cfg)
	assert.NoError(t, cfg.Validate())
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	logger := NoopLogger()
	for _, opt := range []Option{
		WithMmap(true),
		WithLogger(logger),
		WithPollInterval(time.Second),
		WithSettleDelay(2 * time.Second),
		WithMinReloadInterval(time.Minute),
	} {
		opt(&cfg)
	}
	assert.True(t, cfg.Mmap)
	assert.Same(t, logger, cfg.Logger)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.Equal(t, time.Minute, cfg.MinReloadInterval)
}
