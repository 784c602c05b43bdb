package transport

import (
	"context"

	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/venue"
)

// Loopback delivers messages to an in-process venue and returns the hex dump
// of the encoded frame as the confirmation token.
type Loopback struct {
	venue  *venue.Service
	logger *zap.Logger
}

// NewLoopback wraps a running venue.
func NewLoopback(v *venue.Service, logger *zap.Logger) *Loopback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loopback{venue: v, logger: logger}
}

// Send implements submit.Transport.
func (l *Loopback) Send(ctx context.Context, kind intent.Kind, p intent.Payload) (string, error) {
	ack, err := l.venue.Accept(ctx, kind, p)
	if err != nil {
		return "", err
	}
	b, err := Encode(Frame{MsgType: kind, Seq: ack.Seq, SentAt: ack.Time, Body: p})
	if err != nil {
		return "", err
	}
	l.logger.Debug("frame_encoded", zap.Stringer("kind", kind), zap.Int("bytes", len(b)))
	return Token(b), nil
}

// Lookup reports what the venue knows about a client order ID.
func (l *Loopback) Lookup(ctx context.Context, clOrdID string) (venue.Order, bool, error) {
	return l.venue.Lookup(ctx, clOrdID)
}
