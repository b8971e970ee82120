package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Capacity    int           `yaml:"capacity"`
	Writers     int           `yaml:"writers"`
	Readers     int           `yaml:"readers"`
	WriterOps   int           `yaml:"writer_ops"`
	ReaderOps   int           `yaml:"reader_ops"`
	WriterDelay time.Duration `yaml:"writer_delay"`
	ReaderDelay time.Duration `yaml:"reader_delay"`
	KeyStride   int           `yaml:"key_stride"`
	ValueFactor int           `yaml:"value_factor"`
	Loglevel    string        `yaml:"loglevel"`
	Histogram   bool          `yaml:"histogram"`
	CSV         string        `yaml:"csv"`
}

var ErrInvalid = errors.New("invalid config")

// Default reproduces the classic demonstration: two writers filling
// keys 100..109 and 200..209 while two readers poll them.
func Default() Config {
	return Config{
		Capacity:    50,
		Writers:     2,
		Readers:     2,
		WriterOps:   10,
		ReaderOps:   10,
		WriterDelay: 100 * time.Millisecond,
		ReaderDelay: 150 * time.Millisecond,
		KeyStride:   100,
		ValueFactor: 10,
		Loglevel:    "info",
	}
}

// FromFile reads a YAML file on top of Default.
func FromFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalid, c.Capacity)
	case c.Writers < 0 || c.Readers < 0:
		return fmt.Errorf("%w: worker counts must not be negative", ErrInvalid)
	case c.WriterOps < 0 || c.ReaderOps < 0:
		return fmt.Errorf("%w: operation counts must not be negative", ErrInvalid)
	case c.WriterDelay < 0 || c.ReaderDelay < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalid)
	case c.KeyStride <= 0:
		return fmt.Errorf("%w: key stride must be positive, got %d", ErrInvalid, c.KeyStride)
	case c.WriterOps > c.KeyStride:
		// writer ranges would overlap
		return fmt.Errorf("%w: writer ops %d exceed key stride %d", ErrInvalid, c.WriterOps, c.KeyStride)
	}

	return nil
}

// Keys is the number of distinct keys all writers try to insert.
func (c *Config) Keys() int { return c.Writers * c.WriterOps }
