package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/fin/internal/adapters/render/ledger"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// Loads that finish sooner than this never show their elapsed time.
const elapsedAfter = time.Second

type loadedMsg struct {
	value any
	err   error
}

type loadingModel struct {
	spinner  spinner.Model
	styles   ledger.Styles
	resource string
	started  time.Time
	now      func() time.Time
	load     tea.Cmd
	result   loadedMsg
	done     bool
}

func newLoadingModel(resource string, load tea.Cmd) loadingModel {
	styles := ledger.NewStyles()
	return loadingModel{
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Account)),
		styles:   styles,
		resource: resource,
		started:  time.Now(),
		now:      time.Now,
		load:     load,
	}
}

func (m loadingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m loadingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		m.done = true
		m.result = msg
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m loadingModel) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.resource)
	if elapsed := m.now().Sub(m.started); elapsed >= elapsedAfter {
		line += " " + m.styles.Date.Render(fmt.Sprintf("(%ds)", int(elapsed.Seconds())))
	}
	return line
}

// loadWithProgress runs load behind a spinner on stderr, unless the output
// is meant for machines.
func loadWithProgress[T any](cmd *cobra.Command, resource string, quiet bool, load func(context.Context) (T, error)) (T, error) {
	ctx := cmd.Context()
	if quiet {
		return load(ctx)
	}

	var zero T
	final, err := runLoading(ctx, cmd.ErrOrStderr(), resource, func() tea.Msg {
		value, err := load(ctx)
		return loadedMsg{value: value, err: err}
	})
	if err != nil {
		return zero, err
	}
	if final.err != nil {
		return zero, final.err
	}
	value, ok := final.value.(T)
	if !ok {
		return zero, fmt.Errorf("load %s: unexpected result %T", resource, final.value)
	}
	return value, nil
}

func runLoading(ctx context.Context, output io.Writer, resource string, load tea.Cmd) (loadedMsg, error) {
	p := tea.NewProgram(
		newLoadingModel(resource, load),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return loadedMsg{}, fmt.Errorf("load %s: %w", resource, err)
	}

	result, ok := finalModel.(loadingModel)
	if !ok {
		return loadedMsg{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}
	return result.result, nil
}
