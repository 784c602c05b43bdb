// Package submit gates submission of the active form on its validity and
// tracks the single submission that may be in flight.
package submit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/cell"
	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
)

// Transport encodes a payload into a wire message, exchanges it and returns
// the confirmation token. Timeouts are the transport's concern.
type Transport interface {
	Send(ctx context.Context, kind intent.Kind, p intent.Payload) (string, error)
}

// Source yields the latest state of the active form.
type Source interface {
	Current() form.State
}

// Receipt is handed to the sink for every confirmed submission.
type Receipt struct {
	Kind    intent.Kind
	ClOrdID string
	Token   string
	At      time.Time
}

// Sink receives confirmation tokens.
type Sink func(Receipt)

// Status is the observable state of the coordinator.
type Status struct {
	InFlight bool
	// Kind of the pending or most recent submission.
	Kind      intent.Kind
	Err       string
	LastToken string
	Sent      int
}

// Coordinator forwards the payload of the active form to the transport.
// At most one submission is pending; it cannot be cancelled once started.
type Coordinator struct {
	source    Source
	transport Transport
	sink      Sink
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	status *cell.Cell[Status]
	done   chan struct{}
}

// NewCoordinator creates a coordinator reading from source.
func NewCoordinator(source Source, t Transport, sink Sink, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	return &Coordinator{
		source:    source,
		transport: t,
		sink:      sink,
		logger:    logger,
		now:       time.Now,
		status:    cell.New(Status{}),
		done:      done,
	}
}

// Submit sends the current payload of the source. It returns false without
// doing anything when a submission is already in flight or the form is not
// valid; callers keep the trigger disabled in both cases.
func (c *Coordinator) Submit(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.status.Load()
	if st.InFlight {
		return false
	}
	cur := c.source.Current()
	if !cur.Valid() {
		return false
	}

	st.InFlight = true
	st.Kind = cur.Kind
	st.Err = ""
	c.status.Store(st)

	c.done = make(chan struct{})
	c.logger.Info("submit_started",
		zap.Stringer("kind", cur.Kind),
		zap.String("cl_ord_id", intent.ClientOrderID(cur.Verdict.Payload)))

	go c.run(ctx, cur.Kind, cur.Verdict.Payload, c.done)
	return true
}

func (c *Coordinator) run(ctx context.Context, kind intent.Kind, p intent.Payload, done chan struct{}) {
	defer close(done)

	token, err := c.send(ctx, kind, p)

	c.mu.Lock()
	st := c.status.Load()
	st.InFlight = false
	if err != nil {
		st.Err = err.Error()
	} else {
		st.Err = ""
		st.LastToken = token
		st.Sent++
	}
	c.status.Store(st)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("submit_failed", zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	c.logger.Info("submit_succeeded", zap.Stringer("kind", kind), zap.Int("token_len", len(token)))
	if c.sink != nil {
		c.sink(Receipt{
			Kind:    kind,
			ClOrdID: intent.ClientOrderID(p),
			Token:   token,
			At:      c.now(),
		})
	}
}

func (c *Coordinator) send(ctx context.Context, kind intent.Kind, p intent.Payload) (token string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport failed: %v", r)
		}
	}()
	return c.transport.Send(ctx, kind, p)
}

// InFlight reports whether a submission is pending.
func (c *Coordinator) InFlight() bool { return c.status.Load().InFlight }

// Status returns the current status.
func (c *Coordinator) Status() Status { return c.status.Load() }

// Subscribe follows status changes, starting with the current status.
func (c *Coordinator) Subscribe() (<-chan Status, func()) { return c.status.Subscribe() }

// Done returns a channel closed once the latest submission has resolved.
func (c *Coordinator) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// CanSubmit reports whether the trigger should be enabled.
func (c *Coordinator) CanSubmit() bool {
	return !c.InFlight() && c.source.Current().Valid()
}
