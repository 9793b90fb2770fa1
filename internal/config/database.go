// internal/config/database.go
package config

import (
	"fmt"
)

// DSN is the postgres connection string. Timestamps such as verified_at are
// stored in UTC.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// IsSQLite reports whether the local sqlite driver is selected, as in tests
// and single-user development.
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "sqlite" || d.Driver == "sqlite3"
}
