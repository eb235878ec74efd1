// Package db holds the SQL schema of the books table.
package db

import _ "embed"

// Schema creates the books table if it does not exist yet.
//
//go:embed schema.sql
var Schema string
