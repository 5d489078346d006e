// Package sqlddl loads idempotent DDL statements from embedded SQL files.
package sqlddl

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// Statement is one DDL file's executable body.
type Statement struct {
	// Name is the file path relative to the FS root passed to Load.
	Name string
	SQL  string
}

// Load reads every *.sql file directly under root, in lexical file-name order,
// and returns the Up section of each. Files with an empty Up section are
// skipped.
func Load(ddlFS fs.FS, root string) ([]Statement, error) {
	if ddlFS == nil {
		return nil, fmt.Errorf("ddl filesystem is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(ddlFS, root)
	if err != nil {
		return nil, fmt.Errorf("read ddl dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	statements := make([]Statement, 0, len(files))
	for _, file := range files {
		name := path.Join(root, file)
		content, err := fs.ReadFile(ddlFS, name)
		if err != nil {
			return nil, fmt.Errorf("read ddl %s: %w", file, err)
		}
		upSQL := strings.TrimSpace(ExtractUp(string(content)))
		if upSQL == "" {
			continue
		}
		statements = append(statements, Statement{Name: name, SQL: upSQL})
	}
	return statements, nil
}

// ExtractUp returns the SQL in the -- +migrate Up section, or the whole
// content when no marker is present.
func ExtractUp(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, downMarker)
	if downIdx == -1 || downIdx < upIdx {
		return content[upIdx+len(upMarker):]
	}
	return content[upIdx+len(upMarker) : downIdx]
}

// IsAlreadyExistsError reports whether err is the engine saying the DDL
// target already exists.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}
