package integrator

import (
	"runtime"
)

// Config holds the settings of a path tracing pass
type Config struct {
	MaxDepth  int // Maximum number of bounces per path
	Workers   int // Number of goroutines stepping chunks concurrently
	ChunkSize int // Number of path segments handled by one goroutine at a time
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() Config {
	return Config{
		MaxDepth:  8,
		Workers:   runtime.NumCPU(),
		ChunkSize: 4096,
	}
}

// normalize fills in zero or negative settings from the defaults
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.MaxDepth <= 0 {
		c.MaxDepth = def.MaxDepth
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	return c
}
