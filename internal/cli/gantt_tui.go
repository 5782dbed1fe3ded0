package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okerlund/planfold/internal/cli/formatter"
	"github.com/okerlund/planfold/internal/domain"
	"github.com/okerlund/planfold/internal/graph"
	"github.com/okerlund/planfold/internal/service"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var planRef string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the plan interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("tui requires an interactive terminal")
			}
			ctx := context.Background()
			plan, err := resolvePlan(ctx, app, planRef)
			if err != nil {
				return err
			}

			m := newGanttModel(app, plan.ID)
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&planRef, "plan", "", "Plan id or name")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

// ganttKeyMap holds the keybindings for the interactive Gantt view.
type ganttKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultGanttKeyMap() ganttKeyMap {
	return ganttKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "fold/unfold group")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// snapshotLoadedMsg carries a freshly loaded plan snapshot.
type snapshotLoadedMsg struct {
	snap *service.Snapshot
	err  error
}

// toggleDoneMsg signals that a collapse/expand mutation finished.
type toggleDoneMsg struct{ err error }

// ganttModel is the bubbletea Model for the interactive Gantt chart: a
// cursor over the visible rows, with space folding and unfolding groups.
type ganttModel struct {
	app    *App
	planID string
	keys   ganttKeyMap

	snap    *service.Snapshot
	visible []*domain.TaskNode
	cursor  int
	width   int
	height  int

	loading  bool
	err      error
	quitting bool
}

func newGanttModel(app *App, planID string) ganttModel {
	return ganttModel{
		app:     app,
		planID:  planID,
		keys:    defaultGanttKeyMap(),
		loading: true,
	}
}

func (m ganttModel) Init() tea.Cmd {
	return m.loadSnapshot()
}

func (m ganttModel) loadSnapshot() tea.Cmd {
	app, planID := m.app, m.planID
	return func() tea.Msg {
		snap, err := app.Graph.Snapshot(context.Background(), planID)
		return snapshotLoadedMsg{snap: snap, err: err}
	}
}

func (m ganttModel) toggleGroup(id int64, collapsed bool) tea.Cmd {
	app, planID := m.app, m.planID
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if collapsed {
			err = app.Graph.ExpandGroup(ctx, planID, id)
		} else {
			err = app.Graph.CollapseGroup(ctx, planID, id)
		}
		return toggleDoneMsg{err: err}
	}
}

func (m ganttModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		m.rebuildRows()
		return m, nil

	case toggleDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.loading = true
		return m, m.loadSnapshot()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadSnapshot()

		case key.Matches(msg, m.keys.Toggle):
			n := m.selected()
			if n == nil || n.Kind != domain.KindGroup {
				return m, nil
			}
			m.loading = true
			return m, m.toggleGroup(n.ID, n.Collapsed)
		}
	}
	return m, nil
}

func (m *ganttModel) selected() *domain.TaskNode {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor]
}

// rebuildRows recomputes the visible row list and keeps the cursor on a
// valid row after collapse state changes the row count.
func (m *ganttModel) rebuildRows() {
	m.visible = m.visible[:0]
	for _, n := range m.snap.Graph.Nodes() {
		if m.snap.Graph.NodeVisible(n.ID, graph.GanttView) {
			m.visible = append(m.visible, n)
		}
	}
	sort.SliceStable(m.visible, func(i, j int) bool {
		return m.visible[i].RowIndex < m.visible[j].RowIndex
	})
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m ganttModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "plan"
	if m.snap != nil {
		title = m.snap.Plan.Name
	}
	b.WriteString(formatter.Header(title) + "\n")
	b.WriteString(formatter.Dim(strings.Repeat("─", max(m.width, 20))) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("error: "+m.err.Error()) + "\n")
	case m.loading && m.snap == nil:
		b.WriteString(formatter.Dim("loading…") + "\n")
	case len(m.visible) == 0:
		b.WriteString(formatter.Dim("no visible tasks") + "\n")
	default:
		b.WriteString(m.renderRows())
	}

	b.WriteString(formatter.Dim(strings.Repeat("─", max(m.width, 20))) + "\n")
	b.WriteString(m.renderHelp())

	// Pad to terminal height so the alt-screen renderer never leaves
	// stale lines behind.
	out := b.String()
	if m.height > 0 {
		lines := strings.Count(out, "\n") + 1
		if lines < m.height {
			out += strings.Repeat("\n", m.height-lines)
		}
	}
	return out
}

func (m ganttModel) renderRows() string {
	barWidth := m.width - 34
	if barWidth < 10 {
		barWidth = 40
	}
	opts := formatter.GanttOptions{
		Width:      barWidth,
		Critical:   m.snap.Critical,
		Projection: graph.GanttView,
	}
	chart := formatter.RenderGantt(m.snap.Graph, opts)

	// The chart's first line is the date-span header; cursor rows start
	// after it when a span exists.
	lines := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	offset := len(lines) - len(m.visible)
	var b strings.Builder
	for i, line := range lines {
		marker := "  "
		if i-offset == m.cursor {
			marker = formatter.StyleBlue.Render("❯ ")
		}
		b.WriteString(marker + line + "\n")
	}
	return b.String()
}

func (m ganttModel) renderHelp() string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Refresh, m.keys.Quit}
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	return strings.Join(hints, "  ")
}
