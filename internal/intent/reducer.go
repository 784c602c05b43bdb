package intent

// Change replaces the raw value of one field.
type Change struct {
	Field Field
	Value string
}

// Apply returns the model with c applied. A change to a field the kind does
// not carry leaves the model untouched.
//
// Selecting MARKET also resets PRICE to "0". Selecting LIMIT afterwards does
// not bring the earlier price back, so the operator has to enter it again.
func Apply(m Intent, c Change) Intent {
	next, ok := m.with(c.Field, c.Value)
	if !ok {
		return m
	}
	if c.Field == FieldOrdType && OrdType(c.Value) == OrdTypeMarket {
		next, _ = next.with(FieldPrice, "0")
	}
	return next
}

// Enabled reports whether f accepts input in the current model. PRICE is
// locked while the order type is MARKET.
func Enabled(m Intent, f Field) bool {
	if o, ok := m.(NewOrderFields); ok && f == FieldPrice {
		return OrdType(o.OrdType) != OrdTypeMarket
	}
	_, ok := m.Value(f)
	return ok
}
