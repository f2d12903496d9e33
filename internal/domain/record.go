package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContentRecord is a flat display record as served by the feed endpoint.
// The field set varies per channel: news and announcements carry
// title/body/link, signals carry pair/action/entry/tp/sl/notes. The core
// treats records as opaque apart from Pinned and TS, which drive formatting.
type ContentRecord struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
	TS     string `json:"ts,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Link   string `json:"link,omitempty"`
	Pinned Flag   `json:"pinned,omitempty"`

	// Signal fields.
	Pair   string `json:"pair,omitempty"`
	Action string `json:"action,omitempty"`
	Entry  string `json:"entry,omitempty"`
	TP     string `json:"tp,omitempty"`
	SL     string `json:"sl,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Flag is a boolean that tolerates the backend's spreadsheet-typed values:
// true, "TRUE", "true", and "yes" all decode as set.
type Flag bool

// UnmarshalJSON decodes a Flag from a JSON bool or string.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "YES", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// MarshalJSON encodes a Flag as a plain JSON bool.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// FeedResponse is the payload of the feed endpoint.
type FeedResponse struct {
	Items []ContentRecord `json:"items"`
}

// RedeemResponse is the payload of the redeem endpoint.
type RedeemResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}
