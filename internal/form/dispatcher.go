package form

import (
	"errors"

	"go.uber.org/zap"

	"github.com/zappabad/orderticket/internal/cell"
	"github.com/zappabad/orderticket/internal/intent"
)

var (
	ErrSwitchInFlight = errors.New("message type cannot change while a submission is in flight")
	ErrUnknownKind    = errors.New("unknown message type")
)

// Busy reports whether a submission built from the active form is pending.
type Busy interface {
	InFlight() bool
}

// Initial holds caller-supplied starting values per message kind.
type Initial map[intent.Kind]map[intent.Field]string

// Dispatcher owns the form of the active message kind. Switching kind
// discards the previous field model and mounts a fresh one.
type Dispatcher struct {
	initial Initial
	active  *Controller
	state   *cell.Cell[State]
	guard   Busy
	logger  *zap.Logger
}

// NewDispatcher mounts the form for kind.
func NewDispatcher(kind intent.Kind, initial Initial, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		initial: initial,
		logger:  logger,
	}
	d.active = d.mount(kind)
	d.state = cell.New(d.active.State())
	return d
}

func (d *Dispatcher) mount(kind intent.Kind) *Controller {
	return NewController(intent.New(kind, d.initial[kind]))
}

// SetGuard installs the check consulted before switching kind.
func (d *Dispatcher) SetGuard(b Busy) { d.guard = b }

// Switch selects the active message kind. Selecting the current kind keeps
// its fields.
func (d *Dispatcher) Switch(kind intent.Kind) error {
	if _, ok := intent.ParseKind(kind.String()); !ok {
		return ErrUnknownKind
	}
	if d.guard != nil && d.guard.InFlight() {
		return ErrSwitchInFlight
	}
	if kind == d.active.Kind() {
		return nil
	}
	d.logger.Debug("form_switched", zap.Stringer("from", d.active.Kind()), zap.Stringer("to", kind))
	d.active = d.mount(kind)
	d.state.Store(d.active.State())
	return nil
}

// Reset remounts the active form with its initial values.
func (d *Dispatcher) Reset() error {
	if d.guard != nil && d.guard.InFlight() {
		return ErrSwitchInFlight
	}
	d.active = d.mount(d.active.Kind())
	d.state.Store(d.active.State())
	return nil
}

// SetField edits the active form.
func (d *Dispatcher) SetField(f intent.Field, v string) State {
	s := d.active.SetField(f, v)
	d.state.Store(s)
	return s
}

// Active returns the controller of the active form.
func (d *Dispatcher) Active() *Controller { return d.active }

// Kind returns the active message kind.
func (d *Dispatcher) Kind() intent.Kind { return d.active.Kind() }

// Current returns the latest state of the active form. Safe for concurrent use.
func (d *Dispatcher) Current() State { return d.state.Load() }

// Subscribe follows the state of whichever form is active.
func (d *Dispatcher) Subscribe() (<-chan State, func()) { return d.state.Subscribe() }
