package db

import "os"

// RunMigrations is a lightweight entry point for the -migrate-only flag.
// It respects the MIGRATIONS env var just like Connect.
func RunMigrations(dsn string) error {
	normalized := NormalizeDSN(dsn)
	if normalized == "" {
		return nil
	}
	if os.Getenv("MIGRATIONS") == "" {
		// AutoMigrate path runs at app start instead
		return nil
	}
	return runSQLMigrations(normalized)
}
