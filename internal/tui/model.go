package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves the prompt without answering.
var ErrCancelled = errors.New("question prompt cancelled")

// QuestionPrompt is a single-line Bubble Tea prompt that quits on Enter.
type QuestionPrompt struct {
	input     textinput.Model
	value     string
	cancelled bool
}

// NewQuestionPrompt creates a focused prompt.
func NewQuestionPrompt() QuestionPrompt {
	ti := textinput.New()
	ti.Prompt = "Ask me a question: "
	ti.Placeholder = "How much do cats sleep?"
	ti.CharLimit = 0
	ti.Focus()
	return QuestionPrompt{input: ti}
}

// Init starts the cursor blink.
func (m QuestionPrompt) Init() tea.Cmd { return textinput.Blink }

// Update handles key events. Blank submissions keep the prompt open.
func (m QuestionPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter, tea.KeyCtrlJ:
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.value = q
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt line; it is cleared once a question is submitted.
func (m QuestionPrompt) View() string {
	if m.value != "" || m.cancelled {
		return ""
	}
	return m.input.View() + "\n"
}

// Value is the submitted question, or "" if none yet.
func (m QuestionPrompt) Value() string { return m.value }

// Cancelled reports whether the user aborted the prompt.
func (m QuestionPrompt) Cancelled() bool { return m.cancelled }

// AskOptions selects the terminal the prompt runs on. Nil fields mean the
// process's stdin and stdout.
type AskOptions struct {
	In  io.Reader
	Out io.Writer
}

// Ask runs the prompt until the user submits a question or cancels.
func Ask(ctx context.Context, opts AskOptions) (string, error) {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.In != nil {
		progOpts = append(progOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Out))
	}
	final, err := tea.NewProgram(NewQuestionPrompt(), progOpts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	m, ok := final.(QuestionPrompt)
	if !ok || m.Cancelled() || m.Value() == "" {
		return "", ErrCancelled
	}
	return m.Value(), nil
}
