// Package input reads the user's question from a pipe or an interactive prompt.
package input

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"factrag/internal/tui"
)

// QueryReader yields one question.
type QueryReader interface {
	ReadQuery(ctx context.Context) (string, error)
}

// Piped reads the whole of R as the question.
type Piped struct {
	R io.Reader
}

func (p Piped) ReadQuery(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(p.R)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Interactive asks on the terminal.
type Interactive struct {
	Options tui.AskOptions
}

func (i Interactive) ReadQuery(ctx context.Context) (string, error) {
	return tui.Ask(ctx, i.Options)
}

// Fallback tries Primary and uses Secondary when Primary yields nothing.
type Fallback struct {
	Primary   QueryReader
	Secondary QueryReader
}

func (f Fallback) ReadQuery(ctx context.Context) (string, error) {
	q, err := f.Primary.ReadQuery(ctx)
	if err != nil || q != "" {
		return q, err
	}
	return f.Secondary.ReadQuery(ctx)
}

// ControllingTerminal prompts on the process's terminal, which is still
// reachable when stdin is a pipe. Without one (cron, CI, containers) the
// question is empty, so the caller rejects it as an invalid query.
type ControllingTerminal struct {
	Out  io.Writer
	Open func() (*os.File, error)
}

func (c ControllingTerminal) ReadQuery(ctx context.Context) (string, error) {
	open := c.Open
	if open == nil {
		open = openTTY
	}
	tty, err := open()
	if err != nil {
		return "", nil
	}
	defer tty.Close()
	return tui.Ask(ctx, tui.AskOptions{In: tty, Out: c.Out})
}

func openTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Select prompts interactively when stdin is a terminal. Otherwise stdin is
// read as a pipe, falling back to a prompt on the controlling terminal when
// the pipe is empty.
func Select(stdin *os.File, out io.Writer) QueryReader {
	if isTerminal(stdin) {
		return Interactive{Options: tui.AskOptions{In: stdin, Out: out}}
	}
	return Fallback{
		Primary:   Piped{R: stdin},
		Secondary: ControllingTerminal{Out: out},
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
