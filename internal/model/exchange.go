package model

import "time"

// ExchangeEvent is a single recorded trade observed in-game: input item for
// output item, at a place and time. HashID collapses duplicate chat-relay
// submissions into one row (unique conflict target in the store).
type ExchangeEvent struct {
	ID               int64     `json:"id,omitempty"`
	HashID           string    `json:"hash_id"`
	TS               time.Time `json:"ts"`
	Player           string    `json:"player"`
	X                *int64    `json:"x"`
	Y                *int64    `json:"y"`
	Z                *int64    `json:"z"`
	Dimension        string    `json:"dimension"`
	LocSrc           string    `json:"loc_src"`
	InputItemID      string    `json:"input_item_id"`
	InputQty         int64     `json:"input_qty"`
	OutputItemID     string    `json:"output_item_id"`
	OutputQty        int64     `json:"output_qty"`
	ExchangePossible *int64    `json:"exchange_possible"`
	CompactedInput   bool      `json:"compacted_input"`
	CompactedOutput  bool      `json:"compacted_output"`
	InputEnchants    []string  `json:"input_enchantments,omitempty"`
	OutputEnchants   []string  `json:"output_enchantments,omitempty"`
	Raw              string    `json:"raw"`
	Shop             *string   `json:"shop"`
}

// ExchangeFilter narrows admin exchange listings.
type ExchangeFilter struct {
	Shop   string
	Player string
	Item   string // matches input or output item id
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}
