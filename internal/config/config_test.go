package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "AUTOSAVE", "SNAPSHOT_MAX_AGE", "REPORT_SEED", "REDIS_URI"} {
		t.Setenv(k, "")
	}

	c := Load()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, StoreRedis, c.StoreBackend)
	assert.True(t, c.Autosave)
	assert.Equal(t, 24*time.Hour, c.SnapshotMaxAge)
	assert.Equal(t, int64(1), c.ReportSeed)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("AUTOSAVE", "false")
	t.Setenv("SNAPSHOT_MAX_AGE", "2h")
	t.Setenv("REPORT_SEED", "42")
	t.Setenv("REDIS_URI", "redis://cache:6379")

	c := Load()

	assert.Equal(t, StoreMemory, c.StoreBackend)
	assert.False(t, c.Autosave)
	assert.Equal(t, 2*time.Hour, c.SnapshotMaxAge)
	assert.Equal(t, int64(42), c.ReportSeed)
	assert.Equal(t, "cache:6379", c.RedisAddr())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SNAPSHOT_MAX_AGE", "soon")
	t.Setenv("REPORT_SEED", "x")

	c := Load()

	assert.Equal(t, 24*time.Hour, c.SnapshotMaxAge)
	assert.Equal(t, int64(1), c.ReportSeed)
}
