package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "kabat", cfg.Scheme)
	assert.Equal(t, "kabat", cfg.CDRDefinition)
	assert.Equal(t, "auto", cfg.HeavyVGermline)
	assert.Equal(t, "auto", cfg.LightVGermline)
	assert.False(t, cfg.BackmutateVernier)
	assert.Zero(t, cfg.SapiensIterations)
	assert.InDelta(t, 0.10, cfg.MinFractionSubjects, 1e-9)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "graft.yaml")
		content := "scheme: imgt\nsapiens_iterations: 2\nbackmutate_vernier: true\noasis_db: /data/oasis.db\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "imgt", cfg.Scheme)
		assert.Equal(t, 2, cfg.SapiensIterations)
		assert.True(t, cfg.BackmutateVernier)
		assert.Equal(t, "/data/oasis.db", cfg.OASisDB)
		// Untouched fields keep their defaults.
		assert.Equal(t, "kabat", cfg.CDRDefinition)
		assert.Equal(t, 1, cfg.Workers)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scheme: [unclosed"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
