package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Payload is the decoded body of a chat-relay exchange submission.
// Numbers are kept as json.Number so validation can tell "not an integer"
// apart from "missing" and report it per field; the decoder itself rejects
// unknown fields and wrong shapes outright.
type Payload struct {
	Player             string       `json:"player"`
	Raw                string       `json:"raw"`
	Dimension          string       `json:"dimension"`
	X                  *json.Number `json:"x"`
	Y                  *json.Number `json:"y"`
	Z                  *json.Number `json:"z"`
	InputItemID        string       `json:"input_item_id"`
	InputQty           *json.Number `json:"input_qty"`
	OutputItemID       string       `json:"output_item_id"`
	OutputQty          *json.Number `json:"output_qty"`
	ExchangePossible   *json.Number `json:"exchange_possible"`
	CompactedInput     bool         `json:"compacted_input"`
	CompactedOutput    bool         `json:"compacted_output"`
	InputEnchantments  []string     `json:"input_enchantments"`
	OutputEnchantments []string     `json:"output_enchantments"`
}

// DecodePayload parses a request body into a Payload. Unknown fields and
// malformed shapes fail the decode; the caller maps that to bad_request.
func DecodePayload(r io.Reader) (*Payload, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

// Normalize rewrites the payload in place: dimension to its simple name,
// item ids to canonical form. Runs before validation so the required-field
// checks see the normalized values.
func (p *Payload) Normalize() {
	p.Dimension = NormalizeDimension(p.Dimension)
	p.InputItemID = NormalizeItemID(p.InputItemID)
	p.OutputItemID = NormalizeItemID(p.OutputItemID)
}

// IntValue parses an optional JSON number as an int64.
// Returns (nil, true) when the field is absent.
func IntValue(n *json.Number) (*int64, bool) {
	if n == nil {
		return nil, true
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}
