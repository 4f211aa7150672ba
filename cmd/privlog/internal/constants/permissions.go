package constants

import "os"

// File system permission constants for files and directories created by
// the application.
const (
	// DirPermissions is the default permission mode for creating directories.
	// Used in: logging/logger.go, preflight/preflight.go
	// Purpose: Owner full access, group and others read/execute
	DirPermissions os.FileMode = 0755

	// FilePermissions is the default permission mode for creating regular files.
	// Used in: logging/logger.go, preflight/preflight.go
	// Purpose: Owner read/write, group and others read-only
	FilePermissions os.FileMode = 0644
)
