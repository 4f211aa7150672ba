package constants

import (
	"os"
	"testing"
	"time"
)

// TestPIIFields verifies the declared PII field set matches the documented
// contract exactly, in order.
func TestPIIFields(t *testing.T) {
	want := []string{"name", "email", "phone", "ssn", "password"}

	if len(PIIFields) != len(want) {
		t.Fatalf("Expected %d PII fields, got %d", len(want), len(PIIFields))
	}
	for i, field := range want {
		if PIIFields[i] != field {
			t.Errorf("Expected PIIFields[%d] to be %q, got %q", i, field, PIIFields[i])
		}
	}
}

// TestRedactionConstants verifies the mask token and separator.
func TestRedactionConstants(t *testing.T) {
	if Redaction != "***" {
		t.Errorf("Expected Redaction to be %q, got %q", "***", Redaction)
	}
	if Separator != ";" {
		t.Errorf("Expected Separator to be %q, got %q", ";", Separator)
	}
	if RedactedPlaceholder != "***REDACTED***" {
		t.Errorf("Expected RedactedPlaceholder to be %q, got %q", "***REDACTED***", RedactedPlaceholder)
	}
}

// TestSensitiveFields verifies the structured-field mask list contains the
// credential-bearing names.
func TestSensitiveFields(t *testing.T) {
	required := map[string]bool{
		"password":      false,
		"token":         false,
		"secret":        false,
		"authorization": false,
	}

	for _, field := range SensitiveFields {
		if _, ok := required[field]; ok {
			required[field] = true
		}
	}
	for field, found := range required {
		if !found {
			t.Errorf("Expected SensitiveFields to contain %q", field)
		}
	}
}

// TestPermissionConstants verifies that file permission constants are defined correctly.
func TestPermissionConstants(t *testing.T) {
	if DirPermissions != os.FileMode(0755) {
		t.Errorf("Expected DirPermissions to be 0755, got %o", DirPermissions)
	}

	if FilePermissions != os.FileMode(0644) {
		t.Errorf("Expected FilePermissions to be 0644, got %o", FilePermissions)
	}
}

// TestTimeoutConstants verifies that timeout constants are defined with expected values.
func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant time.Duration
		expected time.Duration
	}{
		{"Query timeout", QueryTimeout, 30 * time.Second},
		{"Connect timeout", ConnectTimeout, 10 * time.Second},
		{"Slow query threshold", SlowQueryThreshold, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("Expected %s to be %v, got %v", tt.name, tt.expected, tt.constant)
			}
		})
	}
}
