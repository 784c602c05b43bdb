package transport

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/orderticket/internal/intent"
	"github.com/zappabad/orderticket/internal/venue"
)

func marketOrder(clOrdID string) intent.NewOrderPayload {
	return intent.NewOrderPayload{
		Account: "A1", ISIN: "KR000", Side: intent.SideSell, OrdType: intent.OrdTypeMarket,
		Qty: 3, TIF: intent.TIFIOC, ShortCode: intent.ShortBorrowed, ClOrdID: clOrdID,
	}
}

func TestLoopbackTokenIsHexFrame(t *testing.T) {
	v := venue.NewService(venue.Config{}, nil)
	defer v.Close()
	l := NewLoopback(v, nil)

	token, err := l.Send(context.Background(), intent.KindNewOrder, marketOrder("C1"))
	require.NoError(t, err)

	raw, err := hex.DecodeString(token)
	require.NoError(t, err)

	var frame struct {
		MsgType string          `json:"MSG_TYPE"`
		Seq     uint64          `json:"SEQ"`
		Body    json.RawMessage `json:"BODY"`
	}
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "NEW_ORDER", frame.MsgType)
	assert.Equal(t, uint64(1), frame.Seq)
	assert.Contains(t, string(frame.Body), `"CL_ORD_ID":"C1"`)
	assert.NotContains(t, string(frame.Body), "PRICE")
}

func TestLoopbackSurfacesVenueRejection(t *testing.T) {
	v := venue.NewService(venue.Config{}, nil)
	defer v.Close()
	l := NewLoopback(v, nil)

	_, err := l.Send(context.Background(), intent.KindNewOrder, marketOrder("C1"))
	require.NoError(t, err)
	_, err = l.Send(context.Background(), intent.KindNewOrder, marketOrder("C1"))
	assert.ErrorIs(t, err, venue.ErrDuplicateClOrdID)
	assert.Contains(t, err.Error(), "C1")
}

func TestHTTPSend(t *testing.T) {
	var got sentBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"token":"deadbeef"}`))
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL+"/", time.Second, nil)
	require.NoError(t, err)

	token, err := h.Send(context.Background(), intent.KindCancel, intent.CancelPayload{
		Account: "A1", OrigClID: "O1", Reason: intent.ReasonUserReq, ClOrdID: "C3",
	})
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", token)
	assert.Equal(t, "CANCEL", got.Type)
	assert.Equal(t, "O1", got.Payload["ORIG_CL_ID"])
}

type sentBody struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func TestHTTPSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"market closed"}`))
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL, time.Second, nil)
	require.NoError(t, err)

	_, err = h.Send(context.Background(), intent.KindNewOrder, marketOrder("C1"))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "market closed")
}

func TestHTTPSendEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL, time.Second, nil)
	require.NoError(t, err)

	_, err = h.Send(context.Background(), intent.KindNewOrder, marketOrder("C1"))
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestNew(t *testing.T) {
	tr, closeFn, err := New(Config{Mode: ModeLoopback}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Loopback{}, tr)
	closeFn()

	_, _, err = New(Config{Mode: ModeHTTP}, nil)
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, _, err = New(Config{Mode: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
