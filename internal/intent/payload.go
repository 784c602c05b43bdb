package intent

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Payload is the validated, transport-ready form of an intent.
type Payload interface {
	Kind() Kind
	isPayload()
}

// NewOrderPayload is a canonical new order. Price is nil for MARKET orders.
type NewOrderPayload struct {
	Account   string           `json:"ACNT_NO"`
	ISIN      string           `json:"ISIN"`
	Side      Side             `json:"SIDE"`
	OrdType   OrdType          `json:"ORD_TYPE"`
	Qty       int64            `json:"QTY"`
	Price     *decimal.Decimal `json:"PRICE,omitempty"`
	TIF       TIF              `json:"TIF"`
	ShortCode ShortCode        `json:"SHORT_CD"`
	ClOrdID   string           `json:"CL_ORD_ID"`
}

func (NewOrderPayload) Kind() Kind { return KindNewOrder }
func (NewOrderPayload) isPayload() {}

// MarshalJSON writes PRICE as a JSON number, like QTY.
func (p NewOrderPayload) MarshalJSON() ([]byte, error) {
	type plain NewOrderPayload
	return json.Marshal(struct {
		plain
		Price json.RawMessage `json:"PRICE,omitempty"`
	}{plain: plain(p), Price: number(p.Price)})
}

// CancelPayload is a canonical cancel request.
type CancelPayload struct {
	Account  string `json:"ACNT_NO"`
	OrigClID string `json:"ORIG_CL_ID"`
	Reason   Reason `json:"REASON"`
	ClOrdID  string `json:"CL_ORD_ID"`
}

func (CancelPayload) Kind() Kind { return KindCancel }
func (CancelPayload) isPayload() {}

// AmendPayload is a canonical amend request. At least one of NewQty and
// NewPrice is set.
type AmendPayload struct {
	Account  string           `json:"ACNT_NO"`
	OrigClID string           `json:"ORIG_CL_ID"`
	NewQty   *int64           `json:"NEW_QTY,omitempty"`
	NewPrice *decimal.Decimal `json:"NEW_PRICE,omitempty"`
	ClOrdID  string           `json:"CL_ORD_ID"`
}

func (AmendPayload) Kind() Kind { return KindAmend }
func (AmendPayload) isPayload() {}

// MarshalJSON writes NEW_PRICE as a JSON number.
func (p AmendPayload) MarshalJSON() ([]byte, error) {
	type plain AmendPayload
	return json.Marshal(struct {
		plain
		NewPrice json.RawMessage `json:"NEW_PRICE,omitempty"`
	}{plain: plain(p), NewPrice: number(p.NewPrice)})
}

func number(d *decimal.Decimal) json.RawMessage {
	if d == nil {
		return nil
	}
	return json.RawMessage(d.String())
}

// FieldsOf renders a payload back into raw field strings. Validating the
// result yields an equivalent payload.
func FieldsOf(p Payload) Intent {
	switch p := p.(type) {
	case NewOrderPayload:
		f := NewOrderFields{
			Account:   p.Account,
			ISIN:      p.ISIN,
			Side:      string(p.Side),
			OrdType:   string(p.OrdType),
			Qty:       strconv.FormatInt(p.Qty, 10),
			TIF:       string(p.TIF),
			ShortCode: string(p.ShortCode),
			ClOrdID:   p.ClOrdID,
		}
		if p.Price != nil {
			f.Price = p.Price.String()
		}
		return f
	case CancelPayload:
		return CancelFields{
			Account:  p.Account,
			OrigClID: p.OrigClID,
			Reason:   string(p.Reason),
			ClOrdID:  p.ClOrdID,
		}
	case AmendPayload:
		f := AmendFields{
			Account:  p.Account,
			OrigClID: p.OrigClID,
			ClOrdID:  p.ClOrdID,
		}
		if p.NewQty != nil {
			f.NewQty = strconv.FormatInt(*p.NewQty, 10)
		}
		if p.NewPrice != nil {
			f.NewPrice = p.NewPrice.String()
		}
		return f
	}
	return nil
}

// ClientOrderID returns the CL_ORD_ID carried by p.
func ClientOrderID(p Payload) string {
	switch p := p.(type) {
	case NewOrderPayload:
		return p.ClOrdID
	case CancelPayload:
		return p.ClOrdID
	case AmendPayload:
		return p.ClOrdID
	}
	return ""
}
