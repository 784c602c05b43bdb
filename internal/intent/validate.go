package intent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorClass tells a missing value apart from a malformed one and from a
// violated cross-field rule.
type ErrorClass uint8

const (
	ClassMissing ErrorClass = iota
	ClassFormat
	ClassCrossField
)

func (c ErrorClass) String() string {
	switch c {
	case ClassMissing:
		return "missing"
	case ClassFormat:
		return "format"
	case ClassCrossField:
		return "cross_field"
	default:
		return "unknown"
	}
}

// FieldError is the single reason an intent is not valid.
type FieldError struct {
	Field Field
	Class ErrorClass
	Msg   string
}

func (e *FieldError) Error() string { return e.Msg }

// Verdict is the outcome of validating one snapshot of a field model.
// Exactly one of Payload and Err is set.
type Verdict struct {
	Valid   bool
	Payload Payload
	Err     *FieldError
}

// Error returns the human-readable reason, or "" for a valid verdict.
func (v Verdict) Error() string {
	if v.Err == nil {
		return ""
	}
	return v.Err.Msg
}

func valid(p Payload) Verdict { return Verdict{Valid: true, Payload: p} }

func invalid(f Field, c ErrorClass, msg string) Verdict {
	return Verdict{Err: &FieldError{Field: f, Class: c, Msg: msg}}
}

type required struct {
	field Field
	value string
	msg   string
}

// firstMissing walks reqs in order and reports the first blank one.
func firstMissing(reqs []required) (Verdict, bool) {
	for _, r := range reqs {
		if blank(r.value) {
			return invalid(r.field, ClassMissing, r.msg), true
		}
	}
	return Verdict{}, false
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func parseQty(s string) (int64, bool) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || q <= 0 {
		return 0, false
	}
	return q, true
}

func parsePrice(s string) (decimal.Decimal, bool) {
	p, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !p.IsPositive() {
		return decimal.Decimal{}, false
	}
	return p, true
}

func enumError(f Field, label string, options []string) Verdict {
	return invalid(f, ClassFormat, fmt.Sprintf("%s must be one of %s.", label, strings.Join(options, ", ")))
}

// Validate checks a field model and derives its payload. Required fields are
// checked in declaration order, then numeric and enumerated formats, then the
// cross-field rules of the kind. The first failure wins.
func Validate(m Intent) Verdict {
	switch m := m.(type) {
	case NewOrderFields:
		return validateNewOrder(m)
	case CancelFields:
		return validateCancel(m)
	case AmendFields:
		return validateAmend(m)
	}
	return invalid("", ClassMissing, "Select a message type.")
}

func validateNewOrder(f NewOrderFields) Verdict {
	if v, ok := firstMissing([]required{
		{FieldAccount, f.Account, "Account is required."},
		{FieldISIN, f.ISIN, "ISIN is required."},
		{FieldSide, f.Side, "Side is required."},
		{FieldOrdType, f.OrdType, "Order Type is required."},
		{FieldQty, f.Qty, "Qty is required."},
		{FieldTIF, f.TIF, "TIF is required."},
		{FieldShortCode, f.ShortCode, "Short Sell is required."},
		{FieldClOrdID, f.ClOrdID, "Client Order ID is required."},
	}); ok {
		return v
	}

	if !oneOf(f.Side, sideOptions) {
		return enumError(FieldSide, "Side", sideOptions)
	}
	if !oneOf(f.OrdType, ordTypeOptions) {
		return enumError(FieldOrdType, "Order Type", ordTypeOptions)
	}
	qty, ok := parseQty(f.Qty)
	if !ok {
		return invalid(FieldQty, ClassFormat, "Qty must be a positive integer.")
	}
	limit := OrdType(f.OrdType) == OrdTypeLimit
	var price decimal.Decimal
	if limit && !blank(f.Price) {
		if price, ok = parsePrice(f.Price); !ok {
			return invalid(FieldPrice, ClassFormat, "Price must be a positive number for LIMIT.")
		}
	}
	if !oneOf(f.TIF, tifOptions) {
		return enumError(FieldTIF, "TIF", tifOptions)
	}
	if !oneOf(f.ShortCode, shortOptions) {
		return enumError(FieldShortCode, "Short Sell", shortOptions)
	}

	if limit && blank(f.Price) {
		return invalid(FieldPrice, ClassCrossField, "Price is required for LIMIT orders.")
	}

	p := NewOrderPayload{
		Account:   strings.TrimSpace(f.Account),
		ISIN:      strings.TrimSpace(f.ISIN),
		Side:      Side(f.Side),
		OrdType:   OrdType(f.OrdType),
		Qty:       qty,
		TIF:       TIF(f.TIF),
		ShortCode: ShortCode(f.ShortCode),
		ClOrdID:   strings.TrimSpace(f.ClOrdID),
	}
	if limit {
		p.Price = &price
	}
	return valid(p)
}

func validateCancel(f CancelFields) Verdict {
	if v, ok := firstMissing([]required{
		{FieldAccount, f.Account, "Account is required."},
		{FieldOrigClID, f.OrigClID, "Orig Client ID is required."},
		{FieldReason, f.Reason, "Reason is required."},
		{FieldClOrdID, f.ClOrdID, "New Client ID is required."},
	}); ok {
		return v
	}
	if !oneOf(f.Reason, reasonOptions) {
		return enumError(FieldReason, "Reason", reasonOptions)
	}
	return valid(CancelPayload{
		Account:  strings.TrimSpace(f.Account),
		OrigClID: strings.TrimSpace(f.OrigClID),
		Reason:   Reason(f.Reason),
		ClOrdID:  strings.TrimSpace(f.ClOrdID),
	})
}

func validateAmend(f AmendFields) Verdict {
	if v, ok := firstMissing([]required{
		{FieldAccount, f.Account, "Account is required."},
		{FieldOrigClID, f.OrigClID, "Orig Client ID is required."},
		{FieldClOrdID, f.ClOrdID, "New Client ID is required."},
	}); ok {
		return v
	}

	p := AmendPayload{
		Account:  strings.TrimSpace(f.Account),
		OrigClID: strings.TrimSpace(f.OrigClID),
		ClOrdID:  strings.TrimSpace(f.ClOrdID),
	}
	if !blank(f.NewQty) {
		q, ok := parseQty(f.NewQty)
		if !ok {
			return invalid(FieldNewQty, ClassFormat, "New Qty must be a positive integer.")
		}
		p.NewQty = &q
	}
	if !blank(f.NewPrice) {
		pr, ok := parsePrice(f.NewPrice)
		if !ok {
			return invalid(FieldNewPrice, ClassFormat, "New Price must be a positive number.")
		}
		p.NewPrice = &pr
	}

	if p.NewQty == nil && p.NewPrice == nil {
		return invalid(FieldNewQty, ClassCrossField, "Provide NEW_QTY and/or NEW_PRICE.")
	}
	return valid(p)
}
