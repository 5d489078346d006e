package sqlddl

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestLoadOrdersByFileName(t *testing.T) {
	ddl := fstest.MapFS{
		"002_tasks.sql":    &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE IF NOT EXISTS tasks(id INTEGER PRIMARY KEY);")},
		"001_projects.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE IF NOT EXISTS projects(id INTEGER PRIMARY KEY);")},
		"README.md":        &fstest.MapFile{Data: []byte("not sql")},
	}

	statements, err := Load(ddl, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(statements) != 2 {
		t.Fatalf("statements len = %d, want 2", len(statements))
	}
	if statements[0].Name != "001_projects.sql" || statements[1].Name != "002_tasks.sql" {
		t.Fatalf("unexpected order: %q, %q", statements[0].Name, statements[1].Name)
	}
	if statements[0].SQL != "CREATE TABLE IF NOT EXISTS projects(id INTEGER PRIMARY KEY);" {
		t.Fatalf("unexpected sql %q", statements[0].SQL)
	}
}

func TestLoadRespectsRoot(t *testing.T) {
	ddl := fstest.MapFS{
		"schema/001_projects.sql": &fstest.MapFile{Data: []byte("CREATE TABLE projects(id INTEGER);")},
		"other/001_other.sql":     &fstest.MapFile{Data: []byte("CREATE TABLE other(id INTEGER);")},
	}

	statements, err := Load(ddl, "schema")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(statements) != 1 {
		t.Fatalf("statements len = %d, want 1", len(statements))
	}
	if statements[0].Name != "schema/001_projects.sql" {
		t.Fatalf("name = %q, want schema/001_projects.sql", statements[0].Name)
	}
}

func TestLoadSkipsEmptyUpSections(t *testing.T) {
	ddl := fstest.MapFS{
		"001_empty.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\n\n-- +migrate Down\nDROP TABLE things;")},
	}

	statements, err := Load(ddl, ".")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(statements) != 0 {
		t.Fatalf("statements len = %d, want 0", len(statements))
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := Load(fstest.MapFS{}, "missing"); err == nil {
		t.Fatal("expected missing root error")
	}
	if _, err := Load(nil, ""); err == nil {
		t.Fatal("expected nil fs error")
	}
}

func TestExtractUp(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE a(id INT);", want: "CREATE TABLE a(id INT);"},
		{name: "up only", content: "-- +migrate Up\nCREATE TABLE a(id INT);", want: "\nCREATE TABLE a(id INT);"},
		{name: "up and down", content: "-- +migrate Up\nCREATE TABLE a(id INT);\n-- +migrate Down\nDROP TABLE a;", want: "\nCREATE TABLE a(id INT);\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractUp(tc.content); got != tc.want {
				t.Fatalf("ExtractUp = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	if IsAlreadyExistsError(nil) {
		t.Fatal("nil must not classify as already exists")
	}
	if !IsAlreadyExistsError(errors.New("SQL logic error: table projects already exists (1)")) {
		t.Fatal("expected already exists classification")
	}
	if IsAlreadyExistsError(errors.New("near \"CREAT\": syntax error")) {
		t.Fatal("syntax error must not classify as already exists")
	}
}
