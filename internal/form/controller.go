package form

import (
	"github.com/zappabad/orderticket/internal/cell"
	"github.com/zappabad/orderticket/internal/intent"
)

// State is what a form reports after every recompute.
type State struct {
	Kind    intent.Kind
	Verdict intent.Verdict
}

// Valid reports whether the form currently yields a payload.
func (s State) Valid() bool { return s.Verdict.Valid }

// Controller binds one field model to the validator. Every change replaces
// the model, revalidates the whole snapshot and publishes the new State.
// It is driven from a single goroutine; the published State may be read
// from any goroutine.
type Controller struct {
	model intent.Intent
	state *cell.Cell[State]
}

// NewController mounts a form on model. The initial verdict is published
// before NewController returns, so observers never wait for a first edit.
func NewController(model intent.Intent) *Controller {
	return &Controller{
		model: model,
		state: cell.New(evaluate(model)),
	}
}

func evaluate(m intent.Intent) State {
	return State{Kind: m.Kind(), Verdict: intent.Validate(m)}
}

// SetField replaces one raw value and returns the recomputed state.
func (c *Controller) SetField(f intent.Field, v string) State {
	c.model = intent.Apply(c.model, intent.Change{Field: f, Value: v})
	s := evaluate(c.model)
	c.state.Store(s)
	return s
}

// Kind returns the message kind of the form.
func (c *Controller) Kind() intent.Kind { return c.model.Kind() }

// Model returns the current raw field model.
func (c *Controller) Model() intent.Intent { return c.model }

// Value returns the raw value of one field.
func (c *Controller) Value(f intent.Field) string {
	v, _ := c.model.Value(f)
	return v
}

// State returns the latest published state.
func (c *Controller) State() State { return c.state.Load() }

// Subscribe returns a channel carrying the latest state, starting with the
// current one.
func (c *Controller) Subscribe() (<-chan State, func()) { return c.state.Subscribe() }
