package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		require.Equal(t, DefaultExpectedCourses, cfg.ExpectedCourses)
		require.Equal(t, 19, cfg.TableSize())
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"expected_courses": 100,
			"listen_address": ":9090",
			"gossip": {"enabled": true, "bind_port": 7000, "seeds": ["10.0.0.1:7000"]}
		}`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 100, cfg.ExpectedCourses)
		require.Equal(t, DefaultLoadFactor, cfg.LoadFactor)
		require.Equal(t, ":9090", cfg.ListenAddress)
		require.Equal(t, 67, cfg.TableSize())
		require.Equal(t, GossipConfig{
			Enabled:     true,
			BindAddress: "0.0.0.0",
			BindPort:    7000,
			Seeds:       []string{"10.0.0.1:7000"},
		}, cfg.Gossip)
	})

	t.Run("EnvironmentOverridesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"expected_courses": 100}`), 0o644))
		t.Setenv("COURSEDB_EXPECTED_COURSES", "10")
		t.Setenv("COURSEDB_GOSSIP_SEEDS", "a:1, b:2,")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 10, cfg.ExpectedCourses)
		require.Equal(t, []string{"a:1", "b:2"}, cfg.Gossip.Seeds)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestLoadConfigRejectsUnusableLoadFactor(t *testing.T) {
	for _, loadFactor := range []string{"NaN", "+Inf", "1e-300"} {
		t.Setenv("COURSEDB_LOAD_FACTOR", loadFactor)
		_, err := LoadConfig("")
		require.Error(t, err, "load factor %s", loadFactor)
	}
}

func TestConfigApplyEnv(t *testing.T) {
	env := map[string]string{
		"COURSEDB_LOAD_FACTOR":      "2",
		"COURSEDB_LOG_LEVEL":        "debug",
		"COURSEDB_GOSSIP_ENABLED":   "true",
		"COURSEDB_GOSSIP_NODE_NAME": "node1",
		"COURSEDB_GOSSIP_BIND_PORT": "7001",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.Equal(t, 2.0, cfg.LoadFactor)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.Gossip.Enabled)
	require.Equal(t, "node1", cfg.Gossip.NodeName)
	require.Equal(t, 7001, cfg.Gossip.BindPort)

	env["COURSEDB_GOSSIP_BIND_PORT"] = "port"
	require.Error(t, DefaultConfig().applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.LoadFactor = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExpectedCourses = -1
	require.Error(t, cfg.Validate())

	for _, loadFactor := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg = DefaultConfig()
		cfg.LoadFactor = loadFactor
		require.Error(t, cfg.Validate(), "load factor %v", loadFactor)
	}

	// 20 courses at this load factor would need far more than 2^31 buckets.
	cfg = DefaultConfig()
	cfg.LoadFactor = 1e-300
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ExpectedCourses = math.MaxInt32
	cfg.LoadFactor = 1
	require.NoError(t, cfg.Validate())
	cfg.LoadFactor = 0.5
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LogLevel = "loud"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Gossip.Enabled = true
	cfg.Gossip.BindPort = 0
	require.Error(t, cfg.Validate())
}
