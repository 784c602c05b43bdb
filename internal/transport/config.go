package transport

import (
	"time"

	"github.com/zappabad/orderticket/internal/venue"
)

const (
	ModeLoopback = "loopback"
	ModeHTTP     = "http"
)

// Config selects and tunes the transport.
type Config struct {
	// Mode is either "loopback" or "http".
	Mode string `yaml:"mode"`
	// Endpoint is the gateway base URL for the http mode.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds one http exchange.
	Timeout time.Duration `yaml:"timeout"`
	// Venue configures the simulated venue of the loopback mode.
	Venue venue.Config `yaml:"venue"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Mode:    ModeLoopback,
		Timeout: 5 * time.Second,
		Venue:   venue.DefaultConfig(),
	}
}
