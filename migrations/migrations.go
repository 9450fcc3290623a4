// Package migrations ships the schema files inside the binary.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
