package menu

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/tasktrack/internal/tracker/storage"
)

// FormatTask renders a task as a tuple in column order:
// (id, 'name', priority, status_id, project_id, 'begin_date', 'end_date').
// A missing priority prints as None.
func FormatTask(t storage.Task) string {
	return fmt.Sprintf("(%d, %s, %s, %d, %d, %s, %s)",
		t.ID,
		quote(t.Name),
		formatPriority(t.Priority),
		t.StatusID,
		t.ProjectID,
		quote(t.BeginDate),
		quote(t.EndDate),
	)
}

// WriteTasks writes one tuple per line.
func WriteTasks(w io.Writer, tasks []storage.Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, FormatTask(t)); err != nil {
			return err
		}
	}
	return nil
}

func formatPriority(p sql.NullInt64) string {
	if !p.Valid {
		return "None"
	}
	return strconv.FormatInt(p.Int64, 10)
}

// quote single-quotes s, switching to double quotes when s holds a single
// quote but no double quote.
func quote(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
