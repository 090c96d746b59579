package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func validPayload() *Payload {
	return &Payload{
		Player:       "Steve",
		Raw:          "[Exchange] Steve traded 4 emerald for 1 diamond_sword",
		Dimension:    "overworld",
		X:            num("120"),
		Y:            num("64"),
		Z:            num("-300"),
		InputItemID:  "emerald",
		InputQty:     num("4"),
		OutputItemID: "diamond_sword",
		OutputQty:    num("1"),
	}
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	assert.Empty(t, Validate(validPayload()))
}

func TestValidateAcceptsMissingCoordinates(t *testing.T) {
	p := validPayload()
	p.X, p.Y, p.Z = nil, nil, nil
	assert.Empty(t, Validate(p))
}

func TestValidateRequiredFields(t *testing.T) {
	p := validPayload()
	p.Player = ""
	p.Raw = "   "
	p.Dimension = ""

	errs := Validate(p)
	assert.Contains(t, errs, "player required")
	assert.Contains(t, errs, "raw required")
	assert.Contains(t, errs, "dimension required")
}

func TestValidateCoordinateTypes(t *testing.T) {
	p := validPayload()
	p.X = num("12.5")
	p.Z = num("not-a-number")

	errs := Validate(p)
	assert.Contains(t, errs, "x must be integer")
	assert.Contains(t, errs, "z must be integer")
	assert.NotContains(t, errs, "y must be integer")
}

func TestValidateQuantities(t *testing.T) {
	p := validPayload()
	p.InputQty = num("-1")
	p.OutputQty = nil

	errs := Validate(p)
	assert.Contains(t, errs, "input_qty must be integer >= 0")
	assert.Contains(t, errs, "output_qty must be integer >= 0")
}

func TestValidateItemIDs(t *testing.T) {
	p := validPayload()
	p.InputItemID = ""
	p.OutputItemID = ""

	errs := Validate(p)
	assert.Contains(t, errs, "input_item_id required")
	assert.Contains(t, errs, "output_item_id required")
}

func TestValidateExchangePossible(t *testing.T) {
	p := validPayload()
	p.ExchangePossible = num("7")
	assert.Empty(t, Validate(p))

	p.ExchangePossible = nil
	assert.Empty(t, Validate(p))

	p.ExchangePossible = num("-3")
	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, "exchange_possible must be integer >= 0 or null", errs[0])
}
