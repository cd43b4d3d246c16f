package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInterrupted is returned by RunTask when the user pressed ctrl+c. The
// task still ran to completion (with a cancelled context) and its result is
// returned alongside.
var ErrInterrupted = errors.New("interrupted")

// Interactive reports whether stderr is a terminal the spinner can draw on.
func Interactive() bool {
	return isTerminal(os.Stderr)
}

// OutputInteractive reports whether stdout is a terminal. Full-screen views
// render to stdout and need this rather than Interactive.
func OutputInteractive() bool {
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ─── Task Model ──────────────────────────────────────────────────────────────

type taskDoneMsg[T any] struct{ v T }

type taskModel[T any] struct {
	label       string
	spin        spinner.Model
	run         func(context.Context) T
	ctx         context.Context
	cancel      context.CancelFunc
	result      T
	done        bool
	interrupted bool
}

func (m taskModel[T]) Init() tea.Cmd {
	run, ctx := m.run, m.ctx
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		return taskDoneMsg[T]{v: run(ctx)}
	})
}

func (m taskModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.interrupted {
			// Keep spinning until the task notices the cancellation.
			m.interrupted = true
			m.label = "Stopping…"
			m.cancel()
		}
		return m, nil
	case taskDoneMsg[T]:
		m.result = msg.v
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m taskModel[T]) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spin.View() + " " + MutedStyle.Render(m.label) + "\n"
}

// ─── Runner ──────────────────────────────────────────────────────────────────

// RunTask runs fn in the background behind a spinner labelled label. When
// stderr is not a terminal fn simply runs on the calling goroutine. Below
// debug level, log output is muted while the spinner is drawn.
func RunTask[T any](ctx context.Context, label string, fn func(context.Context) T) (T, error) {
	if !Interactive() {
		return fn(ctx), nil
	}

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		prev := log.Logger
		log.Logger = zerolog.Nop()
		defer func() { log.Logger = prev }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := taskModel[T]{label: label, spin: sp, run: fn, ctx: ctx, cancel: cancel}
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("run %q: %w", label, err)
	}

	fm := final.(taskModel[T])
	if fm.interrupted {
		return fm.result, ErrInterrupted
	}
	return fm.result, nil
}
