package repository

import (
	"encoding/json"
	"fmt"

	"mc-exchange-api/internal/model"
)

// Bounds, owner lists and shop lists are stored as JSON text in every
// backend. The original schema did the same, and it keeps the SQLite,
// PostgreSQL and MySQL column types identical.

func marshalBounds(bounds []model.Bounds) (string, error) {
	if bounds == nil {
		bounds = []model.Bounds{}
	}
	data, err := json.Marshal(bounds)
	if err != nil {
		return "", fmt.Errorf("marshal bounds: %w", err)
	}
	return string(data), nil
}

func unmarshalBounds(data string) ([]model.Bounds, error) {
	if data == "" {
		return nil, nil
	}
	var bounds []model.Bounds
	if err := json.Unmarshal([]byte(data), &bounds); err != nil {
		return nil, fmt.Errorf("unmarshal bounds: %w", err)
	}
	return bounds, nil
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal string list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}
	return values, nil
}
