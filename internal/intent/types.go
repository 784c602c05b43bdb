package intent

// Kind is the discriminant of the intent union: which message is being composed.
type Kind uint8

const (
	KindNewOrder Kind = iota
	KindCancel
	KindAmend
)

// Kinds lists every message kind in selector order.
func Kinds() []Kind {
	return []Kind{KindNewOrder, KindCancel, KindAmend}
}

// String returns the wire name of the message kind.
func (k Kind) String() string {
	switch k {
	case KindNewOrder:
		return "NEW_ORDER"
	case KindCancel:
		return "CANCEL"
	case KindAmend:
		return "AMEND"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the kind by its wire name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a wire name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Side represents the order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrdType represents the order type.
type OrdType string

const (
	OrdTypeLimit  OrdType = "LIMIT"
	OrdTypeMarket OrdType = "MARKET"
)

// TIF is the time-in-force policy.
type TIF string

const (
	TIFDay TIF = "DAY"
	TIFIOC TIF = "IOC"
	TIFFOK TIF = "FOK"
)

// ShortCode classifies a sell as general, borrowed or other short.
type ShortCode string

const (
	ShortGeneral  ShortCode = "General"
	ShortBorrowed ShortCode = "Borrowed"
	ShortOther    ShortCode = "Other"
)

// Reason is the cancel reason code.
type Reason string

const (
	ReasonUserReq Reason = "UserReq"
	ReasonPolicy  Reason = "Policy"
)

var (
	sideOptions    = []string{string(SideBuy), string(SideSell)}
	ordTypeOptions = []string{string(OrdTypeLimit), string(OrdTypeMarket)}
	tifOptions     = []string{string(TIFDay), string(TIFIOC), string(TIFFOK)}
	shortOptions   = []string{string(ShortGeneral), string(ShortBorrowed), string(ShortOther)}
	reasonOptions  = []string{string(ReasonUserReq), string(ReasonPolicy)}
)

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
