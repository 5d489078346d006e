package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/message"
)

type lineResult struct {
	text string
	err  error
}

// Prompter asks questions on an output stream and reads answers line by
// line. Reads honour context cancellation even while input is blocked.
type Prompter struct {
	out     io.Writer
	printer *message.Printer
	lines   chan lineResult
	done    chan struct{}
}

// NewPrompter starts reading lines from in.
func NewPrompter(in io.Reader, out io.Writer, printer *message.Printer) *Prompter {
	p := &Prompter{
		out:     out,
		printer: printer,
		lines:   make(chan lineResult),
		done:    make(chan struct{}),
	}
	go p.scan(in)
	return p
}

func (p *Prompter) scan(in io.Reader) {
	defer close(p.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case p.lines <- lineResult{text: scanner.Text()}:
		case <-p.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case p.lines <- lineResult{err: fmt.Errorf("read input: %w", err)}:
		case <-p.done:
		}
	}
}

// Close stops the reader goroutine once it is waiting to deliver a line.
func (p *Prompter) Close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// Line prints the prompt and returns the next input line without its line
// terminator. It returns io.EOF when input is exhausted.
func (p *Prompter) Line(ctx context.Context, prompt string) (string, error) {
	p.printer.Fprintf(p.out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if r.err != nil {
			return "", r.err
		}
		return strings.TrimRight(r.text, "\r"), nil
	}
}

// Int prompts until the answer parses as a base-10 integer.
func (p *Prompter) Int(ctx context.Context, prompt string) (int64, error) {
	for {
		line, err := p.Line(ctx, prompt)
		if err != nil {
			return 0, err
		}
		value, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return value, nil
		}
		say(p.out, p.printer, msgNotANumber)
	}
}
