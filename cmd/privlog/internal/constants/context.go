package constants

// Context keys for storing and retrieving values from contexts.
// Using typed constants prevents key collisions and provides type safety.
//
// Note: In production code, it's recommended to use unexported custom types
// for context keys to prevent collisions. However, for simplicity and
// backwards compatibility, we're using string constants here.
const (
	// ContextKeyRequestID is the context key for storing request IDs.
	// Used in: logging/logger.go
	// Purpose: Correlating all records of one audit run across logs
	ContextKeyRequestID = "request_id"
)
