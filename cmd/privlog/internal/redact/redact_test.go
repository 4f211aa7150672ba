package redact

import (
	"strings"
	"testing"
)

// TestFilter_SingleField tests masking a single declared PII field.
func TestFilter_SingleField(t *testing.T) {
	message := "name=John;email=john@x.com;age=30"
	got := Filter([]string{"email"}, "***", message, ";")
	want := "name=John;email=***;age=30"

	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

// TestFilter_MultipleFields tests masking several fields in one record.
func TestFilter_MultipleFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		message string
		want    string
	}{
		{
			name:    "two of three fields masked",
			fields:  []string{"name", "email"},
			message: "name=John;email=john@x.com;age=30",
			want:    "name=***;email=***;age=30",
		},
		{
			name:    "all fields masked",
			fields:  []string{"name", "email", "age"},
			message: "name=John;email=john@x.com;age=30",
			want:    "name=***;email=***;age=***",
		},
		{
			name:    "field absent from message is a no-op",
			fields:  []string{"ssn", "phone"},
			message: "name=John;age=30",
			want:    "name=John;age=30",
		},
		{
			name:    "empty field set is a no-op",
			fields:  nil,
			message: "name=John;age=30",
			want:    "name=John;age=30",
		},
		{
			name:    "empty value is still masked",
			fields:  []string{"email"},
			message: "name=John;email=;age=30",
			want:    "name=John;email=***;age=30",
		},
		{
			name:    "trailing separator preserved",
			fields:  []string{"password"},
			message: "user=bob;password=hunter2;",
			want:    "user=bob;password=***;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.fields, "***", tt.message, ";")
			if got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFilter_CaseSensitive verifies that field names match exactly.
func TestFilter_CaseSensitive(t *testing.T) {
	message := "Email=john@x.com;email=jane@x.com"
	got := Filter([]string{"email"}, "***", message, ";")
	want := "Email=john@x.com;email=***"

	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

// TestFilter_NoPartialMatch verifies that field names never match prefixes
// or substrings of other keys.
func TestFilter_NoPartialMatch(t *testing.T) {
	message := "email_verified=true;email=jane@x.com"
	got := Filter([]string{"email"}, "***", message, ";")
	want := "email_verified=true;email=***"

	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

// TestFilter_MalformedToken verifies that tokens without a key/value
// delimiter pass through unchanged instead of raising.
func TestFilter_MalformedToken(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "bare word token",
			message: "name=John;garbage;email=j@x.com",
			want:    "name=***;garbage;email=***",
		},
		{
			name:    "separator inside value spills into malformed token",
			message: "email=a;b;age=30",
			want:    "email=***;b;age=30",
		},
		{
			name:    "entirely malformed message",
			message: "no delimiters here",
			want:    "no delimiters here",
		},
		{
			name:    "empty message",
			message: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter([]string{"name", "email"}, "***", tt.message, ";")
			if got != tt.want {
				t.Errorf("Filter() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFilter_Idempotent verifies redact(redact(m)) == redact(m).
func TestFilter_Idempotent(t *testing.T) {
	fields := []string{"name", "email", "ssn", "password"}
	messages := []string{
		"name=John;email=john@x.com;age=30",
		"name=;email=;ssn=000-00-0000",
		"user=bob;password=hunter2;last_login=2024-01-01",
		"garbage;name=John",
	}

	for _, m := range messages {
		once := Filter(fields, "***", m, ";")
		twice := Filter(fields, "***", once, ";")
		if once != twice {
			t.Errorf("Filter not idempotent: first %q, second %q", once, twice)
		}
	}
}

// TestFilter_PreservesStructure verifies that token count and key order
// survive redaction.
func TestFilter_PreservesStructure(t *testing.T) {
	message := "name=John;email=john@x.com;phone=555-0100;age=30;"
	got := Filter([]string{"name", "email", "phone"}, "***", message, ";")

	if strings.Count(got, ";") != strings.Count(message, ";") {
		t.Errorf("separator count changed: %q -> %q", message, got)
	}

	inTokens := strings.Split(message, ";")
	outTokens := strings.Split(got, ";")
	if len(inTokens) != len(outTokens) {
		t.Fatalf("token count changed: %d -> %d", len(inTokens), len(outTokens))
	}

	for i := range inTokens {
		inKey, _, _ := strings.Cut(inTokens[i], "=")
		outKey, _, _ := strings.Cut(outTokens[i], "=")
		if inKey != outKey {
			t.Errorf("key order changed at token %d: %q -> %q", i, inKey, outKey)
		}
	}
}

// TestFilter_NonPIIVerbatim verifies non-PII values survive byte-for-byte.
func TestFilter_NonPIIVerbatim(t *testing.T) {
	message := "name=John;note=spaces and = signs;age=30"
	got := Filter([]string{"name"}, "***", message, ";")
	want := "name=***;note=spaces and = signs;age=30"

	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

// TestFilter_AlternateSeparatorAndMask tests non-default separator and mask.
func TestFilter_AlternateSeparatorAndMask(t *testing.T) {
	message := "user=alice,ssn=123-45-6789,role=admin"
	got := Filter([]string{"ssn"}, "xxx", message, ",")
	want := "user=alice,ssn=xxx,role=admin"

	if got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

// TestFormatter_Apply tests the construction-time binding of fields,
// separator and mask.
func TestFormatter_Apply(t *testing.T) {
	f := New([]string{"email", "ssn"}, ";", "***")

	got := f.Apply("name=John;email=j@x.com;ssn=000-00-0000")
	want := "name=John;email=***;ssn=***"
	if got != want {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

// TestFormatter_Immutable verifies that mutating the caller's slice after
// construction does not change the formatter's field set.
func TestFormatter_Immutable(t *testing.T) {
	fields := []string{"email"}
	f := New(fields, ";", "***")

	fields[0] = "age"

	got := f.Apply("email=j@x.com;age=30")
	want := "email=***;age=30"
	if got != want {
		t.Errorf("Apply() after caller mutation = %q, want %q", got, want)
	}
}

// TestFormatter_Accessors tests the read-only accessors.
func TestFormatter_Accessors(t *testing.T) {
	f := New([]string{"email", "phone"}, ";", "***")

	if f.Mask() != "***" {
		t.Errorf("Mask() = %q, want %q", f.Mask(), "***")
	}
	if f.Separator() != ";" {
		t.Errorf("Separator() = %q, want %q", f.Separator(), ";")
	}

	got := f.Fields()
	if len(got) != 2 || got[0] != "email" || got[1] != "phone" {
		t.Errorf("Fields() = %v, want [email phone]", got)
	}

	// Returned slice is a copy
	got[0] = "age"
	if f.Fields()[0] != "email" {
		t.Error("Fields() returned the internal slice, not a copy")
	}
}
