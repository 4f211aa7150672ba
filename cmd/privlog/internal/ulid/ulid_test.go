package ulid

import (
	"errors"
	"testing"
)

// TestGenerate verifies generated ids are valid and unique.
func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		if err := Validate(id); err != nil {
			t.Fatalf("Generate() produced invalid ULID %q: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("Generate() produced duplicate ULID %q", id)
		}
		seen[id] = true
	}
}

// TestValidate tests validation of well-formed and malformed inputs.
func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{"valid generated ULID", Generate(), false},
		{"empty string", "", true},
		{"too short", "01ARZ3NDEKTSV4RRFFQ69G5FA", true},
		{"too long", "01ARZ3NDEKTSV4RRFFQ69G5FAVX", true},
		{"invalid characters", "01ARZ3NDEKTSV4RRFFQ69G5FA!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("Validate(%q) succeeded, want error", tt.input)
				} else if !errors.Is(err, ErrInvalidULID) {
					t.Errorf("Validate(%q) error = %v, want ErrInvalidULID", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) failed: %v", tt.input, err)
			}
		})
	}
}

// TestIsValid tests the boolean helper.
func TestIsValid(t *testing.T) {
	if !IsValid(Generate()) {
		t.Error("IsValid(Generate()) = false, want true")
	}
	if IsValid("not-a-ulid") {
		t.Error("IsValid(not-a-ulid) = true, want false")
	}
}
