package domain

import (
	"bytes"
	"encoding/json"
)

// Store is a location the logged-in account can manage.
type Store struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Code is an identifier the back office sends as a JSON number or string
// (or occasionally a list). It is kept verbatim and sent back unchanged.
type Code string

// UnmarshalJSON accepts any JSON value. Strings are unquoted; anything else
// keeps its literal text.
func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
	default:
		*c = Code(data)
	}
	return nil
}

func (c Code) String() string { return string(c) }

// Item is a catalog item (PLU) returned by the active-item search.
type Item struct {
	PLUCode Code   `json:"PLUCode"`
	Name    string      `json:"Name,omitempty"`
}

// AvailabilityRule is an offline record created by a take-offline mutation.
// Deleting it brings the item back online.
type AvailabilityRule struct {
	ID      Code `json:"ID"`
	PLUCode Code `json:"PLUCode,omitempty"`

	// StoreID is informational only; rules are matched by keyword.
	StoreID Code `json:"StoreID,omitempty"`
}

// FindStore returns the store with the given ID.
func FindStore(stores []Store, id int) (Store, bool) {
	for _, s := range stores {
		if s.ID == id {
			return s, true
		}
	}
	return Store{}, false
}
