package ingest

import (
	"encoding/json"
	"strings"
)

// Validate checks a normalized payload and returns human-readable error
// messages, one per failed rule. An empty slice means the payload is
// acceptable for ingestion. Pure and deterministic: no I/O, no clock.
func Validate(p *Payload) []string {
	var errs []string

	needStr := func(v, k string) {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, k+" required")
		}
	}

	needStr(p.Player, "player")
	needStr(p.Raw, "raw")
	needStr(p.Dimension, "dimension")

	// coordinates are optional but must be integers when present
	coords := []struct {
		n *json.Number
		k string
	}{{p.X, "x"}, {p.Y, "y"}, {p.Z, "z"}}
	for _, c := range coords {
		if _, ok := IntValue(c.n); !ok {
			errs = append(errs, c.k+" must be integer")
		}
	}

	// quantities are required non-negative integers
	qtys := []struct {
		n *json.Number
		k string
	}{{p.InputQty, "input_qty"}, {p.OutputQty, "output_qty"}}
	for _, q := range qtys {
		v, ok := IntValue(q.n)
		if q.n == nil || !ok || *v < 0 {
			errs = append(errs, q.k+" must be integer >= 0")
		}
	}

	// item ids are required post-normalization
	if p.InputItemID == "" {
		errs = append(errs, "input_item_id required")
	}
	if p.OutputItemID == "" {
		errs = append(errs, "output_item_id required")
	}

	// exchange_possible is nullable but must be a non-negative integer when set
	if p.ExchangePossible != nil {
		v, ok := IntValue(p.ExchangePossible)
		if !ok || *v < 0 {
			errs = append(errs, "exchange_possible must be integer >= 0 or null")
		}
	}

	return errs
}
