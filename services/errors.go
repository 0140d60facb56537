package services

import "strings"

// IsUniqueViolation reports whether a database error was caused by a unique
// constraint. String sniffing keeps this working with both PostgreSQL and the
// SQLite driver used in tests.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
