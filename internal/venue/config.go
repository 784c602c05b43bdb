package venue

import "time"

// Config holds configuration for the simulated venue.
type Config struct {
	// CommandBuffer is the size of the inbound command channel.
	CommandBuffer int `yaml:"command_buffer"`
	// Latency delays every acknowledgement, as seen by the caller.
	Latency time.Duration `yaml:"latency"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		CommandBuffer: 64,
		Latency:       150 * time.Millisecond,
	}
}
