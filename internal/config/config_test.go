package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizkit/quizkit/internal/config"
)

type testConfig struct {
	HTTP struct {
		Port int32
	}

	Store struct {
		Driver string
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults survive without file or env", func(t *testing.T) {
		c := defaults()

		require.NoError(t, config.Load("", &c))
		assert.Equal(t, int32(8080), c.HTTP.Port)
		assert.Equal(t, "memory", c.Store.Driver)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		c := defaults()

		file := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte("http:\n  port: 9999\n"), 0o600))

		require.NoError(t, config.Load(file, &c))
		assert.Equal(t, int32(9999), c.HTTP.Port)
		assert.Equal(t, "memory", c.Store.Driver, "untouched keys keep their defaults")
	})

	t.Run("environment overrides file", func(t *testing.T) {
		c := defaults()

		file := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte("store:\n  driver: sqlite\n"), 0o600))
		t.Setenv("STORE_DRIVER", "postgres")

		require.NoError(t, config.Load(file, &c))
		assert.Equal(t, "postgres", c.Store.Driver)
	})

	t.Run("missing file fails", func(t *testing.T) {
		c := defaults()

		assert.Error(t, config.Load(filepath.Join(t.TempDir(), "nope.yaml"), &c))
	})
}

func defaults() testConfig {
	var c testConfig
	c.HTTP.Port = 8080
	c.Store.Driver = "memory"
	return c
}
