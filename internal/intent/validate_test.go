package intent

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitOrder() NewOrderFields {
	return NewOrderFields{
		Account:   "A1",
		ISIN:      "KR000",
		Side:      "BUY",
		OrdType:   "LIMIT",
		Qty:       "10",
		Price:     "100.5",
		TIF:       "DAY",
		ShortCode: "General",
		ClOrdID:   "C1",
	}
}

func TestValidateNewOrderLimit(t *testing.T) {
	v := Validate(limitOrder())
	require.True(t, v.Valid, v.Error())
	assert.Empty(t, v.Error())

	p, ok := v.Payload.(NewOrderPayload)
	require.True(t, ok)
	assert.Equal(t, "A1", p.Account)
	assert.Equal(t, "KR000", p.ISIN)
	assert.Equal(t, SideBuy, p.Side)
	assert.Equal(t, OrdTypeLimit, p.OrdType)
	assert.Equal(t, int64(10), p.Qty)
	require.NotNil(t, p.Price)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("100.5")))
	assert.Equal(t, TIFDay, p.TIF)
	assert.Equal(t, ShortGeneral, p.ShortCode)
	assert.Equal(t, "C1", p.ClOrdID)
}

func TestValidateNewOrderMarketWithoutPrice(t *testing.T) {
	f := limitOrder()
	f.OrdType = "MARKET"
	f.Price = ""

	v := Validate(f)
	require.True(t, v.Valid, v.Error())
	p := v.Payload.(NewOrderPayload)
	assert.Nil(t, p.Price)
	assert.Equal(t, OrdTypeMarket, p.OrdType)
}

func TestValidateNewOrderMarketIgnoresPrice(t *testing.T) {
	f := limitOrder()
	f.OrdType = "MARKET"
	f.Price = "0"

	v := Validate(f)
	require.True(t, v.Valid, v.Error())
	assert.Nil(t, v.Payload.(NewOrderPayload).Price)
}

func TestValidateNewOrderLimitMissingPrice(t *testing.T) {
	f := limitOrder()
	f.Price = ""

	v := Validate(f)
	assert.False(t, v.Valid)
	assert.Nil(t, v.Payload)
	require.NotNil(t, v.Err)
	assert.Equal(t, FieldPrice, v.Err.Field)
	assert.Equal(t, ClassCrossField, v.Err.Class)
	assert.Contains(t, v.Error(), "Price")
}

func TestValidateNewOrderLimitZeroPrice(t *testing.T) {
	for _, price := range []string{"0", "-3", "abc", "1.2.3"} {
		f := limitOrder()
		f.Price = price

		v := Validate(f)
		require.False(t, v.Valid, price)
		assert.Equal(t, FieldPrice, v.Err.Field, price)
		assert.Equal(t, ClassFormat, v.Err.Class, price)
		assert.Equal(t, "Price must be a positive number for LIMIT.", v.Error())
	}
}

func TestValidateQtyBoundaries(t *testing.T) {
	tests := []struct {
		qty   string
		valid bool
	}{
		{"0", false},
		{"-1", false},
		{"abc", false},
		{"1.5", false},
		{"1", true},
		{"250", true},
	}

	for _, tt := range tests {
		f := limitOrder()
		f.Qty = tt.qty

		v := Validate(f)
		assert.Equal(t, tt.valid, v.Valid, "qty %q", tt.qty)
		if tt.valid {
			continue
		}
		require.NotNil(t, v.Err, "qty %q", tt.qty)
		assert.Equal(t, ClassFormat, v.Err.Class, "qty %q", tt.qty)
		assert.Equal(t, FieldQty, v.Err.Field, "qty %q", tt.qty)
	}

	f := limitOrder()
	f.Qty = "1"
	assert.Equal(t, int64(1), Validate(f).Payload.(NewOrderPayload).Qty)
}

func TestValidateEmptyQtyIsMissing(t *testing.T) {
	f := limitOrder()
	f.Qty = ""

	v := Validate(f)
	require.False(t, v.Valid)
	assert.Equal(t, ClassMissing, v.Err.Class)
	assert.Equal(t, FieldQty, v.Err.Field)
}

func TestValidateFirstMissingWins(t *testing.T) {
	order := []Field{FieldAccount, FieldISIN, FieldSide, FieldOrdType, FieldQty, FieldTIF, FieldShortCode, FieldClOrdID}

	// Blank every suffix of the declaration order: the first blanked field is reported.
	for i, want := range order {
		var m Intent = limitOrder()
		for _, f := range order[i:] {
			m, _ = m.with(f, "")
		}
		v := Validate(m)
		require.False(t, v.Valid)
		assert.Equal(t, want, v.Err.Field)
		assert.Equal(t, ClassMissing, v.Err.Class)
	}

	// Blanking a later field as well does not change the reported one.
	f := limitOrder()
	f.ISIN = ""
	f.ClOrdID = ""
	f.Qty = "abc"
	assert.Equal(t, "ISIN is required.", Validate(f).Error())
}

func TestValidateMissingMessages(t *testing.T) {
	f := limitOrder()
	f.Account = "  "
	assert.Equal(t, "Account is required.", Validate(f).Error())

	f = limitOrder()
	f.ClOrdID = ""
	assert.Equal(t, "Client Order ID is required.", Validate(f).Error())
}

func TestValidateUnknownEnum(t *testing.T) {
	f := limitOrder()
	f.TIF = "GTC"

	v := Validate(f)
	require.False(t, v.Valid)
	assert.Equal(t, ClassFormat, v.Err.Class)
	assert.Equal(t, "TIF must be one of DAY, IOC, FOK.", v.Error())
}

func TestValidateCancel(t *testing.T) {
	v := Validate(CancelFields{Account: "A1", OrigClID: "O1", Reason: "UserReq", ClOrdID: "C3"})
	require.True(t, v.Valid, v.Error())
	assert.Equal(t, CancelPayload{Account: "A1", OrigClID: "O1", Reason: ReasonUserReq, ClOrdID: "C3"}, v.Payload)

	v = Validate(CancelFields{Account: "A1", Reason: "Policy"})
	assert.Equal(t, "Orig Client ID is required.", v.Error())

	v = Validate(CancelFields{Account: "A1", OrigClID: "O1", Reason: "Policy"})
	assert.Equal(t, "New Client ID is required.", v.Error())
}

func TestValidateAmendMissingOrder(t *testing.T) {
	tests := []struct {
		name  string
		in    AmendFields
		field Field
		msg   string
	}{
		{name: "empty", in: AmendFields{}, field: FieldAccount, msg: "Account is required."},
		{name: "blank account", in: AmendFields{Account: "  ", NewQty: "x"}, field: FieldAccount, msg: "Account is required."},
		{name: "orig missing", in: AmendFields{Account: "A1", ClOrdID: "C2"}, field: FieldOrigClID, msg: "Orig Client ID is required."},
		{name: "new id missing", in: AmendFields{Account: "A1", OrigClID: "O1", NewQty: "0"}, field: FieldClOrdID, msg: "New Client ID is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.in)
			require.False(t, v.Valid)
			assert.Equal(t, ClassMissing, v.Err.Class)
			assert.Equal(t, tt.field, v.Err.Field)
			assert.Equal(t, tt.msg, v.Error())
		})
	}
}

func TestValidateAmendNeitherField(t *testing.T) {
	v := Validate(AmendFields{Account: "A1", OrigClID: "O1", ClOrdID: "C2"})
	require.False(t, v.Valid)
	assert.Equal(t, ClassCrossField, v.Err.Class)
	assert.Equal(t, "Provide NEW_QTY and/or NEW_PRICE.", v.Error())
}

func TestValidateAmend(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		price    string
		valid    bool
		class    ErrorClass
		wantQty  bool
		wantPrce bool
	}{
		{name: "qty only", qty: "5", valid: true, wantQty: true},
		{name: "price only", price: "99.25", valid: true, wantPrce: true},
		{name: "both", qty: "5", price: "99.25", valid: true, wantQty: true, wantPrce: true},
		{name: "bad qty", qty: "0", price: "99", class: ClassFormat},
		{name: "bad price", qty: "3", price: "x", class: ClassFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(AmendFields{Account: "A1", OrigClID: "O1", ClOrdID: "C2", NewQty: tt.qty, NewPrice: tt.price})
			require.Equal(t, tt.valid, v.Valid, v.Error())
			if !tt.valid {
				assert.Equal(t, tt.class, v.Err.Class)
				return
			}
			p := v.Payload.(AmendPayload)
			assert.Equal(t, tt.wantQty, p.NewQty != nil)
			assert.Equal(t, tt.wantPrce, p.NewPrice != nil)
		})
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	market := limitOrder()
	market.OrdType = "MARKET"
	market.Price = ""

	inputs := []Intent{
		limitOrder(),
		market,
		CancelFields{Account: "A1", OrigClID: "O1", Reason: "Policy", ClOrdID: "C3"},
		AmendFields{Account: "A1", OrigClID: "O1", ClOrdID: "C2", NewPrice: "10.50"},
		AmendFields{Account: "A1", OrigClID: "O1", ClOrdID: "C2", NewQty: "7", NewPrice: "3"},
	}

	for _, in := range inputs {
		first := Validate(in)
		require.True(t, first.Valid, first.Error())

		second := Validate(FieldsOf(first.Payload))
		require.True(t, second.Valid, second.Error())
		assert.Equal(t, first.Payload.Kind(), second.Payload.Kind())

		want, err := json.Marshal(first.Payload)
		require.NoError(t, err)
		got, err := json.Marshal(second.Payload)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got))
	}
}

func TestValidateNil(t *testing.T) {
	v := Validate(nil)
	assert.False(t, v.Valid)
	assert.NotEmpty(t, v.Error())
}

func TestMarketPayloadOmitsPrice(t *testing.T) {
	f := limitOrder()
	f.OrdType = "MARKET"

	b, err := json.Marshal(Validate(f).Payload)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "PRICE")
	assert.Contains(t, string(b), `"QTY":10`)

	b, err = json.Marshal(Validate(limitOrder()).Payload)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"PRICE":100.5`)
}

func TestAmendPayloadPriceIsNumber(t *testing.T) {
	v := Validate(AmendFields{Account: "A1", OrigClID: "O1", ClOrdID: "C2", NewPrice: "99.250"})
	require.True(t, v.Valid)

	b, err := json.Marshal(v.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ACNT_NO":"A1","ORIG_CL_ID":"O1","NEW_PRICE":99.25,"CL_ORD_ID":"C2"}`, string(b))
}
