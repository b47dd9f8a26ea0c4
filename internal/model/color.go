package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Color is a named palette entry as exchanged with the remote collection.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// UnmarshalJSON accepts the id as either a JSON string or a JSON number.
// Numeric ids are kept verbatim in their decimal form and never parsed further.
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
		Hex  string          `json:"hex"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}

	c.ID = id
	c.Name = raw.Name
	c.Hex = raw.Hex
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("color id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// ColorInput is the body of create and update requests.
type ColorInput struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// StoredColor is the server-side file representation of a color.
// Schema changes require a version bump (see internal/version/version.go).
type StoredColor struct {
	Version         int    `json:"_v"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Hex             string `json:"hex"`
	CreatedAtMillis int64  `json:"created_at_millis"`
	UpdatedAtMillis int64  `json:"updated_at_millis"`
}

// Color strips storage metadata for the wire.
func (s *StoredColor) Color() Color {
	return Color{ID: s.ID, Name: s.Name, Hex: s.Hex}
}
