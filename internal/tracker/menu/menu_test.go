package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/tasktrack/internal/tracker/app"
	"github.com/louisbranch/tasktrack/internal/tracker/storage"
	"github.com/louisbranch/tasktrack/internal/tracker/storage/sqlite"
)

type fakeActions struct {
	calls     []string
	initErr   error
	seedErr   error
	report    app.Report
	affected  int64
	deletedID int64
	renamedID int64
	renamedTo string
}

func (f *fakeActions) InitSchema(context.Context) error {
	f.calls = append(f.calls, "init")
	return f.initErr
}

func (f *fakeActions) Seed(context.Context) (app.SeedResult, error) {
	f.calls = append(f.calls, "seed")
	if f.seedErr != nil {
		return app.SeedResult{}, f.seedErr
	}
	return app.SeedResult{ProjectID: 1, TaskIDs: []int64{1, 2}}, nil
}

func (f *fakeActions) Report(_ context.Context, priority int64) (app.Report, error) {
	f.calls = append(f.calls, "report")
	f.report.Priority = priority
	return f.report, nil
}

func (f *fakeActions) DeleteTask(_ context.Context, id int64) (int64, error) {
	f.calls = append(f.calls, "delete")
	f.deletedID = id
	return f.affected, nil
}

func (f *fakeActions) RenameTask(_ context.Context, id int64, name string) (int64, error) {
	f.calls = append(f.calls, "rename")
	f.renamedID = id
	f.renamedTo = name
	return f.affected, nil
}

func runLoop(t *testing.T, actions Actions, input string, locale string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	loop := New(actions, Options{In: strings.NewReader(input), Out: &out, Locale: locale})
	err := loop.Run(context.Background())
	return out.String(), err
}

func TestRunExitsOnZero(t *testing.T) {
	actions := &fakeActions{}
	out, err := runLoop(t, actions, "0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"1 = Create new tables/db", "5 = Update task", "0 = Exit", "Which Option?", "Choice 0", "Bye"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if len(actions.calls) != 0 {
		t.Fatalf("unexpected calls: %v", actions.calls)
	}
}

func TestRunDispatchesChoices(t *testing.T) {
	actions := &fakeActions{affected: 1}
	out, err := runLoop(t, actions, "1\n2\n3\n4\n7\n5\n8\nNew name\n0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"init", "seed", "report", "delete", "rename"}
	if strings.Join(actions.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", actions.calls, want)
	}
	if actions.deletedID != 7 {
		t.Fatalf("deleted id = %d, want 7", actions.deletedID)
	}
	if actions.renamedID != 8 || actions.renamedTo != "New name" {
		t.Fatalf("renamed = (%d, %q), want (8, New name)", actions.renamedID, actions.renamedTo)
	}
	if actions.report.Priority != app.ReportPriority {
		t.Fatalf("report priority = %d, want %d", actions.report.Priority, app.ReportPriority)
	}
	for _, line := range []string{"Tables ready.", "Inserted project 1 with 2 tasks.", "Deleted task 7.", "Renamed task 8."} {
		if !strings.Contains(out, line) {
			t.Fatalf("output missing %q:\n%s", line, out)
		}
	}
}

func TestRunInvalidOptionRedisplaysMenu(t *testing.T) {
	actions := &fakeActions{}
	out, err := runLoop(t, actions, "9\n-1\n0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(out, "Invalid option"); got != 2 {
		t.Fatalf("invalid option count = %d, want 2:\n%s", got, out)
	}
	if got := strings.Count(out, "Which Option?"); got != 3 {
		t.Fatalf("menu prompts = %d, want 3", got)
	}
}

func TestRunRepromptsOnNonInteger(t *testing.T) {
	actions := &fakeActions{}
	out, err := runLoop(t, actions, "abc\n\n1.5\n1\n0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(out, "Please enter a whole number."); got != 3 {
		t.Fatalf("reprompt count = %d, want 3:\n%s", got, out)
	}
	if len(actions.calls) != 1 || actions.calls[0] != "init" {
		t.Fatalf("calls = %v, want [init]", actions.calls)
	}
}

func TestRunTreatsEndOfInputAsExit(t *testing.T) {
	actions := &fakeActions{}
	out, err := runLoop(t, actions, "1\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(out, "Choice 0\nBye\n") {
		t.Fatalf("expected exit on end of input, got:\n%s", out)
	}
}

func TestRunAbandonsHalfAnsweredPrompt(t *testing.T) {
	actions := &fakeActions{}
	out, err := runLoop(t, actions, "5\n3\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, call := range actions.calls {
		if call == "rename" {
			t.Fatal("rename must not run without a name")
		}
	}
	if !strings.Contains(out, "Bye") {
		t.Fatalf("expected exit, got:\n%s", out)
	}
}

func TestRunReportsMissingTask(t *testing.T) {
	actions := &fakeActions{affected: 0}
	out, err := runLoop(t, actions, "4\n99\n0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "No task with id 99.") {
		t.Fatalf("expected missing task message, got:\n%s", out)
	}
}

func TestRunRecoversFromSchemaFailure(t *testing.T) {
	actions := &fakeActions{initErr: errors.New("near \"CREAT\": syntax error")}
	out, err := runLoop(t, actions, "1\n2\n0\n", "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Could not create tables:") {
		t.Fatalf("expected schema failure message, got:\n%s", out)
	}
	if strings.Join(actions.calls, ",") != "init,seed" {
		t.Fatalf("calls = %v, want loop to continue after schema failure", actions.calls)
	}
}

func TestRunStopsOnActionFailure(t *testing.T) {
	boom := errors.New("no such table: projects")
	actions := &fakeActions{seedErr: boom}
	_, err := runLoop(t, actions, "2\n0\n", "")
	if !errors.Is(err, boom) {
		t.Fatalf("run error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "option 2") {
		t.Fatalf("expected option prefix, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	var out bytes.Buffer
	loop := New(&fakeActions{}, Options{In: reader, Out: &out})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

func TestRunLocalizesOutput(t *testing.T) {
	out, err := runLoop(t, &fakeActions{}, "9\n0\n", "pt-BR")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"1 = Criar tabelas/banco", "Qual opção?", "Escolha 9", "Opção inválida", "Tchau"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunAgainstSQLiteStore(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "dbtest3.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := app.NewService(store, zerolog.Nop())

	out, err := runLoop(t, svc, "1\n2\n5\n1\nAnalyze everything\n4\n2\n3\n0\n", "en-US")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out[strings.LastIndex(out, "1. Query task by priority:"):]
	want := "1. Query task by priority:\n" +
		"2. Query all tasks\n" +
		"(1, 'Analyze everything', 2, 1, 1, '2015-01-01', '2015-01-02')\n"
	if !strings.HasPrefix(report, want) {
		t.Fatalf("report section = %q, want prefix %q", report, want)
	}

	tasks, err := store.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0] != (storage.Task{
		ID:        1,
		Name:      "Analyze everything",
		Priority:  storage.PriorityOf(2),
		StatusID:  1,
		ProjectID: 1,
		BeginDate: "2015-01-01",
		EndDate:   "2015-01-02",
	}) {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestDefaultCommandsCoverMenu(t *testing.T) {
	commands := DefaultCommands()
	for _, choice := range []Choice{ChoiceExit, ChoiceInitSchema, ChoiceSeed, ChoiceReport, ChoiceDelete, ChoiceUpdate} {
		cmd, ok := commands[choice]
		if !ok {
			t.Fatalf("missing command %d", choice)
		}
		if cmd.Handler == nil || cmd.Label == "" {
			t.Fatalf("command %d is incomplete", choice)
		}
		if cmd.Exit != (choice == ChoiceExit) {
			t.Fatalf("command %d exit = %v", choice, cmd.Exit)
		}
	}
}

func TestMatchLocale(t *testing.T) {
	testCases := map[string]string{
		"":        "en-US",
		"en":      "en-US",
		"pt-BR":   "pt-BR",
		"pt":      "pt-BR",
		"fr-FR":   "en-US",
		"!!bad!!": "en-US",
	}
	for in, want := range testCases {
		if got := MatchLocale(in).String(); got != want {
			t.Fatalf("MatchLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
