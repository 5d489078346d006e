// Package schema embeds the tracker table definitions.
package schema

import "embed"

// FS contains the CREATE TABLE statements, applied in file-name order.
//
//go:embed *.sql
var FS embed.FS
