// Package venue simulates the counterparty behind the loopback transport.
// It remembers every client order ID it has seen, rejects duplicates and
// checks that cancel and amend requests refer to an open order.
package venue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/intent"
)

var (
	ErrDuplicateClOrdID = errors.New("duplicate client order id")
	ErrUnknownOrder     = errors.New("unknown original order")
	ErrOrderClosed      = errors.New("original order is not open")
	ErrAccountMismatch  = errors.New("account does not own original order")
	ErrUnsupported      = errors.New("unsupported message")
)

type cmdType int

const (
	cmdAccept cmdType = iota
	cmdLookup
)

type command struct {
	typ     cmdType
	kind    intent.Kind
	payload intent.Payload
	clOrdID string // for lookup
	respCh  chan<- response
}

type response struct {
	ack   Ack
	order Order
	found bool
	err   error
}

// Service owns the order registry; all access goes through its command loop.
type Service struct {
	cfg    Config
	logger *zap.Logger

	orders map[string]*Order
	seq    uint64

	cmdCh chan command

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewService starts a venue.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.CommandBuffer <= 0 {
		cfg.CommandBuffer = DefaultConfig().CommandBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		cfg:    cfg,
		logger: logger,
		orders: make(map[string]*Order),
		cmdCh:  make(chan command, cfg.CommandBuffer),
		closed: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.runCommandProcessor()

	return s
}

func (s *Service) runCommandProcessor() {
	defer s.wg.Done()

	for {
		select {
		case <-s.closed:
			return
		case cmd := <-s.cmdCh:
			s.processCommand(cmd)
		}
	}
}

func (s *Service) processCommand(cmd command) {
	var resp response

	switch cmd.typ {
	case cmdAccept:
		resp.ack, resp.err = s.accept(cmd.kind, cmd.payload)
		if resp.err != nil {
			s.logger.Info("venue_rejected", zap.Stringer("kind", cmd.kind), zap.Error(resp.err))
		} else {
			s.logger.Info("venue_accepted", zap.Stringer("kind", cmd.kind),
				zap.String("cl_ord_id", resp.ack.ClOrdID), zap.Uint64("seq", resp.ack.Seq))
		}
	case cmdLookup:
		if o, ok := s.orders[cmd.clOrdID]; ok {
			resp.order, resp.found = *o, true
		}
	}

	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

func (s *Service) accept(kind intent.Kind, p intent.Payload) (Ack, error) {
	clOrdID := intent.ClientOrderID(p)
	if _, dup := s.orders[clOrdID]; dup {
		return Ack{}, fmt.Errorf("%w: %s", ErrDuplicateClOrdID, clOrdID)
	}

	var rec Order
	switch p := p.(type) {
	case intent.NewOrderPayload:
		rec = Order{
			ClOrdID: p.ClOrdID,
			Account: p.Account,
			ISIN:    p.ISIN,
			Side:    p.Side,
			OrdType: p.OrdType,
			Qty:     p.Qty,
			Price:   p.Price,
			State:   StateOpen,
		}

	case intent.CancelPayload:
		orig, err := s.openOriginal(p.OrigClID, p.Account)
		if err != nil {
			return Ack{}, err
		}
		orig.State = StateCancelled
		rec = *orig
		rec.ClOrdID, rec.OrigClID = p.ClOrdID, p.OrigClID

	case intent.AmendPayload:
		orig, err := s.openOriginal(p.OrigClID, p.Account)
		if err != nil {
			return Ack{}, err
		}
		orig.State = StateReplaced
		rec = *orig
		rec.ClOrdID, rec.OrigClID, rec.State = p.ClOrdID, p.OrigClID, StateOpen
		if p.NewQty != nil {
			rec.Qty = *p.NewQty
		}
		if p.NewPrice != nil {
			rec.Price = p.NewPrice
		}

	default:
		return Ack{}, fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}

	s.seq++
	rec.Seq = s.seq
	s.orders[rec.ClOrdID] = &rec
	return Ack{Seq: s.seq, Kind: kind, ClOrdID: rec.ClOrdID, Time: time.Now().UnixNano()}, nil
}

func (s *Service) openOriginal(origClID, account string) (*Order, error) {
	orig, ok := s.orders[origClID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, origClID)
	}
	if orig.Account != account {
		return nil, fmt.Errorf("%w: %s", ErrAccountMismatch, origClID)
	}
	if orig.State != StateOpen {
		return nil, fmt.Errorf("%w: %s is %s", ErrOrderClosed, origClID, orig.State)
	}
	return orig, nil
}

// Accept hands one message to the venue and waits for its verdict.
func (s *Service) Accept(ctx context.Context, kind intent.Kind, p intent.Payload) (Ack, error) {
	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Ack{}, ctx.Err()
		case <-timer.C:
		}
	}

	resp, err := s.do(ctx, command{typ: cmdAccept, kind: kind, payload: p})
	if err != nil {
		return Ack{}, err
	}
	return resp.ack, resp.err
}

// Lookup returns what the venue knows about a client order ID.
func (s *Service) Lookup(ctx context.Context, clOrdID string) (Order, bool, error) {
	resp, err := s.do(ctx, command{typ: cmdLookup, clOrdID: clOrdID})
	if err != nil {
		return Order{}, false, err
	}
	return resp.order, resp.found, nil
}

func (s *Service) do(ctx context.Context, cmd command) (response, error) {
	respCh := make(chan response, 1)
	cmd.respCh = respCh

	select {
	case <-s.closed:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	case s.cmdCh <- cmd:
	}

	select {
	case <-s.closed:
		return response{}, context.Canceled
	case <-ctx.Done():
		return response{}, ctx.Err()
	case resp := <-respCh:
		return resp, nil
	}
}

// Close shuts down the venue and waits for the command loop to finish.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
