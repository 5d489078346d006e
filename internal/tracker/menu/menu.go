// Package menu runs the interactive numeric menu over the tracker actions.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/message"

	"github.com/louisbranch/tasktrack/internal/tracker/app"
)

// Choice is a menu option number typed by the operator.
type Choice int64

// Menu options.
const (
	ChoiceExit       Choice = 0
	ChoiceInitSchema Choice = 1
	ChoiceSeed       Choice = 2
	ChoiceReport     Choice = 3
	ChoiceDelete     Choice = 4
	ChoiceUpdate     Choice = 5
)

// Actions is the tracker surface the menu drives.
type Actions interface {
	InitSchema(ctx context.Context) error
	Seed(ctx context.Context) (app.SeedResult, error)
	Report(ctx context.Context, priority int64) (app.Report, error)
	DeleteTask(ctx context.Context, id int64) (int64, error)
	RenameTask(ctx context.Context, id int64, name string) (int64, error)
}

// Session is what a handler gets to work with.
type Session struct {
	Actions Actions
	Prompt  *Prompter
	Out     io.Writer
	Printer *message.Printer
}

// Handler performs one menu option. A returned error ends the loop.
type Handler func(ctx context.Context, s *Session) error

// Command binds a label and handler to a choice.
type Command struct {
	Label   string
	Handler Handler
	// Exit ends the loop after the handler succeeds.
	Exit bool
}

// Options configures a Loop.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Locale string
}

// Loop prints the menu, reads a choice and dispatches it until an exit
// choice, end of input, or context cancellation.
type Loop struct {
	session  *Session
	commands map[Choice]Command
}

// New returns a Loop with the default command table.
func New(actions Actions, opts Options) *Loop {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printer := NewPrinter(opts.Locale)
	return &Loop{
		session: &Session{
			Actions: actions,
			Prompt:  NewPrompter(in, out, printer),
			Out:     out,
			Printer: printer,
		},
		commands: DefaultCommands(),
	}
}

// DefaultCommands returns the standard dispatch table.
func DefaultCommands() map[Choice]Command {
	return map[Choice]Command{
		ChoiceInitSchema: {Label: msgLabelInitSchema, Handler: handleInitSchema},
		ChoiceSeed:       {Label: msgLabelSeed, Handler: handleSeed},
		ChoiceReport:     {Label: msgLabelReport, Handler: handleReport},
		ChoiceDelete:     {Label: msgLabelDelete, Handler: handleDelete},
		ChoiceUpdate:     {Label: msgLabelUpdate, Handler: handleUpdate},
		ChoiceExit:       {Label: msgLabelExit, Handler: handleExit, Exit: true},
	}
}

// Run drives the loop. It returns nil on a normal exit and the handler error
// when an action fails.
func (l *Loop) Run(ctx context.Context) error {
	s := l.session
	defer s.Prompt.Close()

	for {
		l.printMenu()
		value, err := s.Prompt.Int(ctx, msgWhichOption)
		if err != nil {
			if !isEndOfInput(err) {
				return err
			}
			fmt.Fprintln(s.Out)
			value = int64(ChoiceExit)
		}
		choice := Choice(value)
		say(s.Out, s.Printer, msgChoice, value)

		cmd, ok := l.commands[choice]
		if !ok {
			say(s.Out, s.Printer, msgInvalidOption)
			continue
		}
		if err := cmd.Handler(ctx, s); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("option %d: %w", choice, err)
		}
		if cmd.Exit {
			return nil
		}
	}
}

func (l *Loop) printMenu() {
	choices := make([]Choice, 0, len(l.commands))
	for choice := range l.commands {
		if choice != ChoiceExit {
			choices = append(choices, choice)
		}
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i] < choices[j] })
	if _, ok := l.commands[ChoiceExit]; ok {
		choices = append(choices, ChoiceExit)
	}

	s := l.session
	for _, choice := range choices {
		say(s.Out, s.Printer, msgMenuLine, int64(choice), s.Printer.Sprintf(l.commands[choice].Label))
	}
}

func handleInitSchema(ctx context.Context, s *Session) error {
	if err := s.Actions.InitSchema(ctx); err != nil {
		say(s.Out, s.Printer, msgTablesFailed, err)
		return nil
	}
	say(s.Out, s.Printer, msgTablesReady)
	return nil
}

func handleSeed(ctx context.Context, s *Session) error {
	result, err := s.Actions.Seed(ctx)
	if err != nil {
		return err
	}
	say(s.Out, s.Printer, msgSeeded, result.ProjectID, len(result.TaskIDs))
	return nil
}

func handleReport(ctx context.Context, s *Session) error {
	report, err := s.Actions.Report(ctx, app.ReportPriority)
	if err != nil {
		return err
	}
	say(s.Out, s.Printer, msgQueryByPriority)
	if err := WriteTasks(s.Out, report.ByPriority); err != nil {
		return err
	}
	say(s.Out, s.Printer, msgQueryAll)
	return WriteTasks(s.Out, report.All)
}

func handleDelete(ctx context.Context, s *Session) error {
	id, err := s.Prompt.Int(ctx, msgWhichID)
	if err != nil {
		return abandon(err)
	}
	affected, err := s.Actions.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		say(s.Out, s.Printer, msgNoTask, id)
		return nil
	}
	say(s.Out, s.Printer, msgDeleted, id)
	return nil
}

func handleUpdate(ctx context.Context, s *Session) error {
	id, err := s.Prompt.Int(ctx, msgWhichID)
	if err != nil {
		return abandon(err)
	}
	name, err := s.Prompt.Line(ctx, msgNewName)
	if err != nil {
		return abandon(err)
	}
	affected, err := s.Actions.RenameTask(ctx, id, name)
	if err != nil {
		return err
	}
	if affected == 0 {
		say(s.Out, s.Printer, msgNoTask, id)
		return nil
	}
	say(s.Out, s.Printer, msgRenamed, id)
	return nil
}

func handleExit(_ context.Context, s *Session) error {
	say(s.Out, s.Printer, msgBye)
	return nil
}

// abandon drops a half-answered prompt on end of input so the loop can
// exit on its next read.
func abandon(err error) error {
	if isEndOfInput(err) {
		return nil
	}
	return err
}

func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled)
}
