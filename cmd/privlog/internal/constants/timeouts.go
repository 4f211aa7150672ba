package constants

import "time"

// Timeout and duration constants used throughout the application.
const (
	// QueryTimeout is the maximum time allowed for a single database query.
	// Used in: main.go, database/users.go
	// Purpose: Prevents the audit dump from blocking indefinitely on a
	// slow or unreachable database
	// Default: 30 seconds
	QueryTimeout = 30 * time.Second

	// ConnectTimeout is the maximum time allowed for establishing the
	// initial database connection.
	// Used in: main.go
	// Default: 10 seconds
	ConnectTimeout = 10 * time.Second

	// SlowQueryThreshold is the duration threshold for logging slow database queries.
	// Used in: logging/logger.go, database/users.go
	// Purpose: Identifies performance issues by logging queries that exceed this duration
	// Default: 500 milliseconds
	SlowQueryThreshold = 500 * time.Millisecond
)
