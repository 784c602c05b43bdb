package transport

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/zappabad/orderticket/internal/intent"
)

// Frame is the envelope the loopback transport puts on the wire.
type Frame struct {
	MsgType intent.Kind    `json:"MSG_TYPE"`
	Seq     uint64         `json:"SEQ"`
	SentAt  int64          `json:"SENT_AT"`
	Body    intent.Payload `json:"BODY"`
}

// Encode serialises a frame.
func Encode(f Frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.MsgType, err)
	}
	return b, nil
}

// Token renders encoded bytes the way confirmations are shown to the operator.
func Token(b []byte) string {
	return hex.EncodeToString(b)
}
