// Package perms provides centralized file and directory permission constants
// for consistent security practices across the glanced codebase.
package perms

import "os"

// File permission constants for different security contexts.
const (
	// RegularFile permissions for standard files (configuration, logs).
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644

	// SecureFile permissions for sensitive files.
	// Mode 0600: owner read/write only, no group or other access.
	SecureFile os.FileMode = 0o600
)
