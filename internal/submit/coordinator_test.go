package submit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/orderticket/internal/form"
	"github.com/zappabad/orderticket/internal/intent"
)

type fakeTransport struct {
	calls   atomic.Int32
	release chan struct{}
	token   string
	err     error
	panics  bool

	mu   sync.Mutex
	kind intent.Kind
	last intent.Payload
}

func (f *fakeTransport) Send(ctx context.Context, kind intent.Kind, p intent.Payload) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.kind, f.last = kind, p
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("encoder exploded")
	}
	return f.token, f.err
}

func cancelForm(t *testing.T) *form.Dispatcher {
	t.Helper()
	d := form.NewDispatcher(intent.KindCancel, form.Initial{
		intent.KindCancel: {
			intent.FieldAccount:  "A1",
			intent.FieldOrigClID: "O1",
			intent.FieldClOrdID:  "C3",
		},
	}, nil)
	require.True(t, d.Current().Valid())
	return d
}

func waitDone(t *testing.T, c *Coordinator) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not resolve")
	}
}

func TestSubmitSuccessForwardsToken(t *testing.T) {
	d := cancelForm(t)
	tr := &fakeTransport{token: "0a1b2c"}

	var receipts []Receipt
	var mu sync.Mutex
	c := NewCoordinator(d, tr, func(r Receipt) {
		mu.Lock()
		receipts = append(receipts, r)
		mu.Unlock()
	}, nil)

	require.True(t, c.Submit(context.Background()))
	waitDone(t, c)

	st := c.Status()
	assert.False(t, st.InFlight)
	assert.Empty(t, st.Err)
	assert.Equal(t, "0a1b2c", st.LastToken)
	assert.Equal(t, 1, st.Sent)
	assert.Equal(t, intent.KindCancel, st.Kind)

	tr.mu.Lock()
	assert.Equal(t, intent.KindCancel, tr.kind)
	assert.Equal(t, intent.CancelPayload{Account: "A1", OrigClID: "O1", Reason: intent.ReasonUserReq, ClOrdID: "C3"}, tr.last)
	tr.mu.Unlock()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, receipts, 1)
	assert.Equal(t, "0a1b2c", receipts[0].Token)
	assert.Equal(t, "C3", receipts[0].ClOrdID)
}

func TestSubmitWhileInFlightIsNoop(t *testing.T) {
	d := cancelForm(t)
	tr := &fakeTransport{token: "ff", release: make(chan struct{})}
	c := NewCoordinator(d, tr, nil, nil)
	d.SetGuard(c)

	require.True(t, c.Submit(context.Background()))
	assert.True(t, c.InFlight())
	assert.False(t, c.CanSubmit())
	assert.False(t, c.Submit(context.Background()))
	assert.ErrorIs(t, d.Switch(intent.KindAmend), form.ErrSwitchInFlight)

	close(tr.release)
	waitDone(t, c)

	assert.Equal(t, int32(1), tr.calls.Load())
	assert.False(t, c.InFlight())
	assert.True(t, c.CanSubmit())
}

func TestSubmitInvalidIsNoop(t *testing.T) {
	d := form.NewDispatcher(intent.KindAmend, nil, nil)
	tr := &fakeTransport{}
	c := NewCoordinator(d, tr, nil, nil)

	assert.False(t, c.Submit(context.Background()))
	assert.False(t, c.InFlight())
	assert.Equal(t, int32(0), tr.calls.Load())
	assert.Empty(t, c.Status().Err)
}

func TestSubmitFailureStoresMessage(t *testing.T) {
	d := cancelForm(t)
	tr := &fakeTransport{err: errors.New("venue rejected: unknown original order O1")}
	var (
		mu       sync.Mutex
		receipts []Receipt
	)
	sink := func(r Receipt) {
		mu.Lock()
		receipts = append(receipts, r)
		mu.Unlock()
	}
	c := NewCoordinator(d, tr, sink, nil)

	require.True(t, c.Submit(context.Background()))
	waitDone(t, c)

	st := c.Status()
	assert.False(t, st.InFlight)
	assert.Equal(t, "venue rejected: unknown original order O1", st.Err)
	assert.Zero(t, st.Sent)
	assert.Equal(t, int32(1), tr.calls.Load())
	mu.Lock()
	assert.Empty(t, receipts, "no receipt for a failed submission")
	mu.Unlock()

	// A later success clears the error.
	tr.err = nil
	tr.token = "beef"
	require.True(t, c.Submit(context.Background()))
	waitDone(t, c)
	assert.Empty(t, c.Status().Err)
	assert.Equal(t, "beef", c.Status().LastToken)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, receipts, 1)
	assert.Equal(t, "beef", receipts[0].Token)
	assert.Equal(t, "C3", receipts[0].ClOrdID)
}

func TestSubmitRecoversTransportPanic(t *testing.T) {
	d := cancelForm(t)
	c := NewCoordinator(d, &fakeTransport{panics: true}, nil, nil)

	require.True(t, c.Submit(context.Background()))
	waitDone(t, c)

	assert.False(t, c.InFlight())
	assert.Contains(t, c.Status().Err, "encoder exploded")
}

func TestSubscribeSeesInFlightTransitions(t *testing.T) {
	d := cancelForm(t)
	tr := &fakeTransport{token: "aa", release: make(chan struct{})}
	c := NewCoordinator(d, tr, nil, nil)

	ch, cancel := c.Subscribe()
	defer cancel()
	assert.False(t, (<-ch).InFlight)

	require.True(t, c.Submit(context.Background()))
	assert.True(t, (<-ch).InFlight)

	close(tr.release)
	waitDone(t, c)
	st := <-ch
	assert.False(t, st.InFlight)
	assert.Equal(t, "aa", st.LastToken)
}

func TestEditingWhileInFlightDoesNotChangePendingPayload(t *testing.T) {
	d := cancelForm(t)
	tr := &fakeTransport{token: "aa", release: make(chan struct{})}
	c := NewCoordinator(d, tr, nil, nil)

	require.True(t, c.Submit(context.Background()))
	d.SetField(intent.FieldClOrdID, "C4")
	close(tr.release)
	waitDone(t, c)

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.Equal(t, "C3", intent.ClientOrderID(tr.last))
}
