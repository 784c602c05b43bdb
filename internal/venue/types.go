package venue

import (
	"github.com/shopspring/decimal"

	"github.com/zappabad/orderticket/internal/intent"
)

// OrderState is the lifecycle state of an order known to the venue.
type OrderState uint8

const (
	StateOpen OrderState = iota
	StateCancelled
	StateReplaced
)

func (s OrderState) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateCancelled:
		return "CANCELLED"
	case StateReplaced:
		return "REPLACED"
	default:
		return "UNKNOWN"
	}
}

// Order is a value copy of what the venue remembers about a client order ID.
type Order struct {
	ClOrdID  string
	OrigClID string // set for cancel and amend requests
	Account  string
	ISIN     string
	Side     intent.Side
	OrdType  intent.OrdType
	Qty      int64
	Price    *decimal.Decimal
	State    OrderState
	Seq      uint64
}

// Ack confirms that a message was accepted.
type Ack struct {
	Seq     uint64
	Kind    intent.Kind
	ClOrdID string
	Time    int64 // unix nanos
}
