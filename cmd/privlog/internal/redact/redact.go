// Package redact obfuscates PII field values in field=value log records.
// A record is a sequence of key=value tokens joined by a separator; the
// value of every declared PII field is replaced with a fixed mask token
// while keys, separators and non-PII values pass through untouched.
package redact

import "strings"

// Filter returns message with the value of every token whose key appears
// in fields replaced by mask. Tokens are delimited by separator; key and
// value are split on the first '='. Field names are compared exactly and
// case-sensitively.
//
// Tokens without an '=' delimiter are malformed and pass through
// unchanged; redaction never drops or reorders tokens. Applying Filter
// to its own output with the same arguments yields an identical result.
func Filter(fields []string, mask, message, separator string) string {
	if message == "" || len(fields) == 0 {
		return message
	}

	pii := make(map[string]bool, len(fields))
	for _, f := range fields {
		pii[f] = true
	}

	tokens := strings.Split(message, separator)
	for i, token := range tokens {
		key, _, found := strings.Cut(token, "=")
		if !found {
			// Malformed token, pass through unchanged
			continue
		}
		if pii[key] {
			tokens[i] = key + "=" + mask
		}
	}

	return strings.Join(tokens, separator)
}

// Formatter redacts a fixed set of PII fields. The field set, separator
// and mask are bound at construction and never change, so a single
// Formatter is safe for concurrent use.
type Formatter struct {
	fields    []string
	separator string
	mask      string
}

// New creates a Formatter that masks the given field names. The fields
// slice is copied; later mutation by the caller has no effect.
func New(fields []string, separator, mask string) *Formatter {
	copied := make([]string, len(fields))
	copy(copied, fields)

	return &Formatter{
		fields:    copied,
		separator: separator,
		mask:      mask,
	}
}

// Apply returns message with all configured PII field values masked.
func (f *Formatter) Apply(message string) string {
	return Filter(f.fields, f.mask, message, f.separator)
}

// Fields returns a copy of the configured PII field names.
func (f *Formatter) Fields() []string {
	copied := make([]string, len(f.fields))
	copy(copied, f.fields)
	return copied
}

// Mask returns the configured mask token.
func (f *Formatter) Mask() string {
	return f.mask
}

// Separator returns the configured token separator.
func (f *Formatter) Separator() string {
	return f.separator
}
