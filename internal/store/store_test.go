package store

import "testing"

func TestValidateCollection(t *testing.T) {
	valid := []string{"todos", "work_items", "groceries-2026"}
	for _, name := range valid {
		if err := ValidateCollection(name); err != nil {
			t.Errorf("ValidateCollection(%q) = %v, want nil", name, err)
		}
	}
	invalid := []string{"", "  ", "../etc", "a/b", "todos.json", "a b", "q?x"}
	for _, name := range invalid {
		if err := ValidateCollection(name); err == nil {
			t.Errorf("ValidateCollection(%q) = nil, want error", name)
		}
	}
}
