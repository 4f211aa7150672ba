package constants

// PIIFields lists the field names that contain personally identifiable
// information and must be redacted before a log record reaches any sink.
// Field names are matched exactly and case-sensitively.
// Used in: logging/logger.go, redact/redact.go, main.go
var PIIFields = []string{
	"name",
	"email",
	"phone",
	"ssn",
	"password",
}

// SensitiveFields are field names that should be masked in structured log
// fields (WithField/WithFields) to prevent accidental exposure of
// credentials or secrets.
// Used in: logging/logger.go for automatic field masking
var SensitiveFields = []string{
	"password",
	"token",
	"secret",
	"api_key",
	"apikey",
	"authorization",
}

// Redaction is the fixed mask token substituted for the value of a PII field.
// It never depends on the original value.
// Used in: logging/logger.go, redact/redact.go
const Redaction = "***"

// Separator is the delimiter between field=value tokens in a log record.
// Used in: logging/logger.go, database/users.go
const Separator = ";"

// RedactedPlaceholder is the string used to replace sensitive values in
// structured log fields.
// Used in: logging/logger.go
const RedactedPlaceholder = "***REDACTED***"
