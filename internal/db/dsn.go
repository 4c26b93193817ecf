package db

import (
	"strings"
)

// IsPostgresDSN reports whether the DSN selects the postgres driver; any
// other value is treated as a SQLite path or file: URI, matching the single
// database file the office system has always run on.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// NormalizeDSN trims quotes and whitespace. For key=value postgres form it
// ensures sslmode is present (defaulting to disable).
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	if IsPostgresDSN(s) {
		return s
	}
	if strings.Contains(s, "host=") && !strings.Contains(strings.ToLower(s), "sslmode=") {
		return strings.Join(strings.Fields(s), " ") + " sslmode=disable"
	}
	return s
}

// MigrateDSN converts a normalized DSN into the URL form golang-migrate
// expects: postgres URLs pass through, anything else becomes sqlite3://.
func MigrateDSN(dsn string) string {
	if IsPostgresDSN(dsn) {
		return dsn
	}
	path := strings.TrimPrefix(dsn, "file:")
	return "sqlite3://" + path
}
