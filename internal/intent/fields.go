package intent

// Field names a single raw input. Names match the wire keys.
type Field string

const (
	FieldAccount   Field = "ACNT_NO"
	FieldISIN      Field = "ISIN"
	FieldSide      Field = "SIDE"
	FieldOrdType   Field = "ORD_TYPE"
	FieldQty       Field = "QTY"
	FieldPrice     Field = "PRICE"
	FieldTIF       Field = "TIF"
	FieldShortCode Field = "SHORT_CD"
	FieldClOrdID   Field = "CL_ORD_ID"
	FieldOrigClID  Field = "ORIG_CL_ID"
	FieldReason    Field = "REASON"
	FieldNewQty    Field = "NEW_QTY"
	FieldNewPrice  Field = "NEW_PRICE"
)

// Intent is the raw, possibly invalid field model of one message kind.
// It is a closed union: NewOrderFields, CancelFields or AmendFields.
type Intent interface {
	Kind() Kind
	// Value returns the raw value of f, or false if f does not belong to this kind.
	Value(f Field) (string, bool)
	with(f Field, v string) (Intent, bool)
}

// NewOrderFields is the raw model of a new order.
type NewOrderFields struct {
	Account   string
	ISIN      string
	Side      string
	OrdType   string
	Qty       string
	Price     string
	TIF       string
	ShortCode string
	ClOrdID   string
}

func (NewOrderFields) Kind() Kind { return KindNewOrder }

func (f NewOrderFields) Value(name Field) (string, bool) {
	switch name {
	case FieldAccount:
		return f.Account, true
	case FieldISIN:
		return f.ISIN, true
	case FieldSide:
		return f.Side, true
	case FieldOrdType:
		return f.OrdType, true
	case FieldQty:
		return f.Qty, true
	case FieldPrice:
		return f.Price, true
	case FieldTIF:
		return f.TIF, true
	case FieldShortCode:
		return f.ShortCode, true
	case FieldClOrdID:
		return f.ClOrdID, true
	}
	return "", false
}

func (f NewOrderFields) with(name Field, v string) (Intent, bool) {
	switch name {
	case FieldAccount:
		f.Account = v
	case FieldISIN:
		f.ISIN = v
	case FieldSide:
		f.Side = v
	case FieldOrdType:
		f.OrdType = v
	case FieldQty:
		f.Qty = v
	case FieldPrice:
		f.Price = v
	case FieldTIF:
		f.TIF = v
	case FieldShortCode:
		f.ShortCode = v
	case FieldClOrdID:
		f.ClOrdID = v
	default:
		return f, false
	}
	return f, true
}

// CancelFields is the raw model of a cancel request.
type CancelFields struct {
	Account  string
	OrigClID string
	Reason   string
	ClOrdID  string
}

func (CancelFields) Kind() Kind { return KindCancel }

func (f CancelFields) Value(name Field) (string, bool) {
	switch name {
	case FieldAccount:
		return f.Account, true
	case FieldOrigClID:
		return f.OrigClID, true
	case FieldReason:
		return f.Reason, true
	case FieldClOrdID:
		return f.ClOrdID, true
	}
	return "", false
}

func (f CancelFields) with(name Field, v string) (Intent, bool) {
	switch name {
	case FieldAccount:
		f.Account = v
	case FieldOrigClID:
		f.OrigClID = v
	case FieldReason:
		f.Reason = v
	case FieldClOrdID:
		f.ClOrdID = v
	default:
		return f, false
	}
	return f, true
}

// AmendFields is the raw model of an amend request.
type AmendFields struct {
	Account  string
	OrigClID string
	ClOrdID  string
	NewQty   string
	NewPrice string
}

func (AmendFields) Kind() Kind { return KindAmend }

func (f AmendFields) Value(name Field) (string, bool) {
	switch name {
	case FieldAccount:
		return f.Account, true
	case FieldOrigClID:
		return f.OrigClID, true
	case FieldClOrdID:
		return f.ClOrdID, true
	case FieldNewQty:
		return f.NewQty, true
	case FieldNewPrice:
		return f.NewPrice, true
	}
	return "", false
}

func (f AmendFields) with(name Field, v string) (Intent, bool) {
	switch name {
	case FieldAccount:
		f.Account = v
	case FieldOrigClID:
		f.OrigClID = v
	case FieldClOrdID:
		f.ClOrdID = v
	case FieldNewQty:
		f.NewQty = v
	case FieldNewPrice:
		f.NewPrice = v
	default:
		return f, false
	}
	return f, true
}

// Defaults returns the model a freshly mounted form starts with.
func Defaults(kind Kind) Intent {
	switch kind {
	case KindCancel:
		return CancelFields{Reason: string(ReasonUserReq)}
	case KindAmend:
		return AmendFields{}
	default:
		return NewOrderFields{
			Side:      string(SideBuy),
			OrdType:   string(OrdTypeLimit),
			Qty:       "1",
			Price:     "0",
			TIF:       string(TIFDay),
			ShortCode: string(ShortGeneral),
		}
	}
}

// New returns the default model for kind with the caller-supplied initial
// values laid over it. Initial values for fields the kind does not carry are
// ignored. Unlike Apply, no convenience rules run here.
func New(kind Kind, initial map[Field]string) Intent {
	m := Defaults(kind)
	for f, v := range initial {
		if next, ok := m.with(f, v); ok {
			m = next
		}
	}
	return m
}
