// Package migrations embeds the SQL schema migrations for every supported database driver.
//
// Each driver has its own directory (postgresql, mysql, sqlite3) with golang-migrate style
// NNNNNN_name.up.sql / NNNNNN_name.down.sql files.
package migrations

import "embed"

// FS holds the migration files of all drivers.
//
//go:embed postgresql/*.sql mysql/*.sql sqlite3/*.sql
var FS embed.FS
