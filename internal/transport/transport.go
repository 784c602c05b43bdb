// Package transport implements the boundary that turns a payload into a
// wire message and returns a confirmation token.
package transport

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/submit"
	"github.com/zappabad/orderticket/internal/venue"
)

// New builds the transport selected by cfg. The returned close function
// releases whatever the transport started.
func New(cfg Config, logger *zap.Logger) (submit.Transport, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Mode {
	case "", ModeLoopback:
		v := venue.NewService(cfg.Venue, logger.Named("venue"))
		return NewLoopback(v, logger), v.Close, nil
	case ModeHTTP:
		h, err := NewHTTP(cfg.Endpoint, cfg.Timeout, logger)
		if err != nil {
			return nil, nil, err
		}
		return h, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport mode %q", cfg.Mode)
	}
}
