package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.Capacity)
	assert.Equal(t, 20, cfg.Keys())
	assert.Equal(t, 100*time.Millisecond, cfg.WriterDelay)
	assert.Equal(t, 150*time.Millisecond, cfg.ReaderDelay)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memtable.yaml")

	raw := `
capacity: 8
writers: 3
writer_ops: 4
reader_delay: 5ms
loglevel: debug
histogram: true
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Capacity)
	assert.Equal(t, 3, cfg.Writers)
	assert.Equal(t, 4, cfg.WriterOps)
	assert.Equal(t, 5*time.Millisecond, cfg.ReaderDelay)
	assert.Equal(t, "debug", cfg.Loglevel)
	assert.True(t, cfg.Histogram)

	// untouched fields keep their defaults
	assert.Equal(t, 2, cfg.Readers)
	assert.Equal(t, 100, cfg.KeyStride)
	assert.Equal(t, 100*time.Millisecond, cfg.WriterDelay)
}

func TestFromFileErrors(t *testing.T) {
	cfg, err := FromFile("non_existent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)

	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("capacity: [1, 2"), 0644))

	cfg, err = FromFile(bad)
	assert.Error(t, err)
	assert.Nil(t, cfg)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("capacity: 0\n"), 0644))

	cfg, err = FromFile(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(*Config) {}, true},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, false},
		{"negative writers", func(c *Config) { c.Writers = -1 }, false},
		{"negative reader ops", func(c *Config) { c.ReaderOps = -1 }, false},
		{"negative delay", func(c *Config) { c.WriterDelay = -time.Second }, false},
		{"zero stride", func(c *Config) { c.KeyStride = 0 }, false},
		{"overlapping ranges", func(c *Config) { c.WriterOps = c.KeyStride + 1 }, false},
		{"no workers", func(c *Config) { c.Writers, c.Readers = 0, 0 }, true},
	}

	for _, test := range tests {
		cfg := Default()
		test.modify(&cfg)

		err := cfg.Validate()
		if test.valid {
			assert.NoError(t, err, test.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalid, test.name)
		}
	}
}
