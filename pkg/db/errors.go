package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation reports whether the error chain references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint text in the error messages.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if constraintName != "" && strings.Contains(msg, constraintName) {
			return true
		}
		// postgres reports "duplicate key value", sqlite (tests) reports
		// "UNIQUE constraint failed"
		if strings.Contains(msg, "duplicate key value") ||
			strings.Contains(msg, "UNIQUE constraint failed") {
			return true
		}
	}
	return false
}
