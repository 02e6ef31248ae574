package config

import (
	"os"
	"strconv"
)

// MPIConfig describes this process's place in a multi-participant run.
// Launch and coordination are owned by the external runner; the
// executor only needs to know whether it is the coordinating root (the
// only participant that writes output) and to join the finalize
// barrier at process end.
type MPIConfig struct {
	WorldRank uint
	WorldSize uint
}

// NewMPIConfig reads the participant layout published by the launcher.
// Absent environment, the process is a standalone world of one.
func NewMPIConfig() *MPIConfig {
	return &MPIConfig{
		WorldRank: uintFromEnv("EXPANDER_WORLD_RANK", 0),
		WorldSize: uintFromEnv("EXPANDER_WORLD_SIZE", 1),
	}
}

// IsRoot reports whether this process is the coordinating participant.
func (c *MPIConfig) IsRoot() bool {
	return c.WorldRank == 0
}

// Finalize is the process-wide barrier joined once after the command
// completes. Standalone runs have nothing to wait for.
func (c *MPIConfig) Finalize() {}

func uintFromEnv(key string, fallback uint) uint {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fallback
	}
	return uint(v)
}
