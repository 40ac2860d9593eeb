package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies an item. It is assigned by whichever store persists the item
// and is opaque to the client.
type ID string

// UnmarshalJSON accepts both string and numeric ids; hosted collection APIs
// disagree on which one they send.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Item is the domain model for a todo entry.
type Item struct {
	ID      ID     `json:"id,omitempty"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Toggled returns a copy of the item with Checked flipped.
func (it Item) Toggled() Item {
	it.Checked = !it.Checked
	return it
}

// Stats counts checked and unchecked items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Checked {
			done++
		} else {
			pending++
		}
	}
	return
}

// Find returns the index of the item with the given id, or -1.
func Find(items []Item, id ID) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Index parses a 1-based index as shown by `tada ls`.
func Index(items []Item, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", s)
	}
	if n < 1 || n > len(items) {
		return 0, fmt.Errorf("index out of range: have %d, got %d", len(items), n)
	}
	return n - 1, nil
}
