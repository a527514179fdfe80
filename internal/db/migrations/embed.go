// filepath: internal/db/migrations/embed.go
package migrations

import "embed"

// FS embeds all SQL migration files, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dir returns the directory inside FS holding the migrations for a database driver.
func Dir(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite"
}
