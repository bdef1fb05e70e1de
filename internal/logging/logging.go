// Package logging is a small prefix-based logger built directly on the
// standard library, matching how log.Printf is used elsewhere in this
// codebase (see DESIGN.md for why no third-party logging library is
// pulled in).
package logging

import (
	"log"
)

// Warnf logs a warning. The verifier uses this for every mismatching
// area before returning a divergence error.
func Warnf(format string, args ...any) {
	log.Printf("<4>[WARN] "+format, args...)
}

// Errorf logs an error.
func Errorf(format string, args ...any) {
	log.Printf("<3>[ERROR] "+format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	log.Printf("<6>[INFO] "+format, args...)
}
