package intent

import "strings"

// Input tells the UI what kind of control a field needs.
type Input uint8

const (
	InputText Input = iota
	InputQty
	InputPrice
	InputSelect
)

// FieldSpec describes one labelled control of a form.
type FieldSpec struct {
	Field    Field
	Label    string
	Input    Input
	Options  []string
	Required bool
}

var catalogue = map[Kind][]FieldSpec{
	KindNewOrder: {
		{Field: FieldAccount, Label: "Account", Input: InputText, Required: true},
		{Field: FieldISIN, Label: "ISIN", Input: InputText, Required: true},
		{Field: FieldSide, Label: "Side", Input: InputSelect, Options: sideOptions, Required: true},
		{Field: FieldOrdType, Label: "Order Type", Input: InputSelect, Options: ordTypeOptions, Required: true},
		{Field: FieldQty, Label: "Qty", Input: InputQty, Required: true},
		{Field: FieldPrice, Label: "Price", Input: InputPrice},
		{Field: FieldTIF, Label: "TIF", Input: InputSelect, Options: tifOptions, Required: true},
		{Field: FieldShortCode, Label: "Short Sell", Input: InputSelect, Options: shortOptions, Required: true},
		{Field: FieldClOrdID, Label: "Client Ord ID", Input: InputText, Required: true},
	},
	KindCancel: {
		{Field: FieldAccount, Label: "Account", Input: InputText, Required: true},
		{Field: FieldOrigClID, Label: "Orig Client ID", Input: InputText, Required: true},
		{Field: FieldReason, Label: "Reason", Input: InputSelect, Options: reasonOptions, Required: true},
		{Field: FieldClOrdID, Label: "New Client ID", Input: InputText, Required: true},
	},
	KindAmend: {
		{Field: FieldAccount, Label: "Account", Input: InputText, Required: true},
		{Field: FieldOrigClID, Label: "Orig Client ID", Input: InputText, Required: true},
		{Field: FieldNewQty, Label: "New Qty", Input: InputQty},
		{Field: FieldNewPrice, Label: "New Price", Input: InputPrice},
		{Field: FieldClOrdID, Label: "New Client ID", Input: InputText, Required: true},
	},
}

// Catalogue returns the controls of a kind in display order. The returned
// slice must not be modified.
func Catalogue(kind Kind) []FieldSpec {
	return catalogue[kind]
}

// Sanitize strips characters a control of the given input kind never accepts:
// quantities keep digits, prices keep digits and dots.
func Sanitize(in Input, s string) string {
	switch in {
	case InputQty:
		return keep(s, func(r rune) bool { return r >= '0' && r <= '9' })
	case InputPrice:
		return keep(s, func(r rune) bool { return (r >= '0' && r <= '9') || r == '.' })
	default:
		return s
	}
}

func keep(s string, ok func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if ok(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
