// Package store holds what the concrete item stores share.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an id does not exist in the collection.
var ErrNotFound = errors.New("item not found")

// ValidateCollection rejects names that cannot be used as a file name or a
// URL path segment.
func ValidateCollection(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("collection name is empty")
	}
	if strings.ContainsAny(name, `/\?#%. `) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}
