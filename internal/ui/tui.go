// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avelinec/todostash/internal/bus"
	"github.com/avelinec/todostash/internal/persist"
	"github.com/avelinec/todostash/internal/state"
	"github.com/avelinec/todostash/internal/task"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// filter selects which tasks the TUI shows.
type filter string

const (
	filterAll      filter = ""
	filterOpen     filter = "open"
	filterDone     filter = "done"
	filterArchived filter = "archived"
)

// RunTUI starts the TUI over the given manager.
func RunTUI(ctx context.Context, mgr *state.Manager) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	sub := mgr.Subscribe("")
	defer mgr.Unsubscribe(sub)

	model := newTUIModel(mgr, sub)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	mgr          *state.Manager
	sub          *bus.Subscription
	snapshot     task.State
	diag         state.Diagnostics
	lastEvent    string
	tickInterval time.Duration
	filter       filter
	showHelp     bool
	showDiag     bool
}

type tickMsg time.Time

type busMsg bus.Event

type busClosedMsg struct{}

func newTUIModel(mgr *state.Manager, sub *bus.Subscription) *tuiModel {
	return &tuiModel{
		mgr:          mgr,
		sub:          sub,
		tickInterval: time.Second,
		showDiag:     true,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tea.Batch(tickCmd(m.tickInterval), waitForEvent(m.sub))
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "d":
			m.showDiag = !m.showDiag
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1":
			m.filter = filterOpen
			return m, nil
		case "2":
			m.filter = filterDone
			return m, nil
		case "3":
			m.filter = filterArchived
			return m, nil
		case "0":
			m.filter = filterAll
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	case busMsg:
		m.lastEvent = msg.Topic
		m.refresh()
		return m, waitForEvent(m.sub)
	case busClosedMsg:
		return m, nil
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todostash") + "\n")
	b.WriteString(strings.Repeat("=", 9) + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != filterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	writeOverview(&b, m.snapshot)
	m.writeTasks(&b)
	writeQuota(&b, m.diag.Usage)
	if m.showDiag {
		writeDiagnostics(&b, m.diag, m.lastEvent)
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(sub *bus.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Ch()
		if !ok {
			return busClosedMsg{}
		}
		return busMsg(ev)
	}
}

func (m *tuiModel) refresh() {
	m.snapshot = m.mgr.Get()
	m.diag = m.mgr.Diagnostics()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	tasks := make([]task.Task, 0, len(m.snapshot.Tasks))
	for _, t := range m.snapshot.Tasks {
		if m.matches(t) {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		left := tasks[i].UpdatedAt
		right := tasks[j].UpdatedAt
		if left == nil || right == nil {
			return right == nil && left != nil
		}
		return left.After(*right)
	})

	b.WriteString("Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	shown := 0
	for _, t := range tasks {
		b.WriteString(formatTask(&t, m.snapshot) + "\n")
		shown++
		if shown >= 12 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more", len(tasks)-shown)) + "\n")
			break
		}
	}
	b.WriteString("\n")
}

func (m *tuiModel) matches(t task.Task) bool {
	switch m.filter {
	case filterOpen:
		return !t.Done && !t.Archived
	case filterDone:
		return t.Done && !t.Archived
	case filterArchived:
		return t.Archived
	default:
		return true
	}
}

func writeOverview(b *strings.Builder, s task.State) {
	var open, done, archived int
	for _, t := range s.Tasks {
		switch {
		case t.Archived:
			archived++
		case t.Done:
			done++
		default:
			open++
		}
	}
	b.WriteString("Overview\n\n")
	b.WriteString(fmt.Sprintf("  Open: %d  Done: %d  Archived: %d  Lists: %d\n\n",
		open, done, archived, len(s.Lists)))
}

func writeQuota(b *strings.Builder, usage persist.Usage) {
	line := fmt.Sprintf("Storage: %d / %d bytes (%.1f%%) [%s]",
		usage.UsedBytes, usage.UsedBytes+usage.AvailableBytes, usage.PercentUsed, usage.Level)
	switch usage.Level {
	case persist.LevelCritical:
		line = criticalStyle.Render(line)
	case persist.LevelWarning:
		line = warningStyle.Render(line)
	}
	b.WriteString(line + "\n\n")
}

func writeDiagnostics(b *strings.Builder, diag state.Diagnostics, lastEvent string) {
	b.WriteString("Diagnostics\n\n")
	b.WriteString(fmt.Sprintf("  Backend: %s  Loaded from: %s\n", diag.Backend, diag.Source))
	if !diag.Metadata.LastSync.IsZero() {
		b.WriteString(fmt.Sprintf("  Last sync: %s\n", diag.Metadata.LastSync.Format(time.RFC3339)))
	}
	b.WriteString(fmt.Sprintf("  Syncs: %d  Errors: %d\n", diag.Metadata.SyncCount, diag.Metadata.ErrorCount))
	if lastEvent != "" {
		b.WriteString(fmt.Sprintf("  Last event: %s\n", lastEvent))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh\n")
	b.WriteString("  d            Toggle diagnostics\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by open\n")
	b.WriteString("  2            Filter by done\n")
	b.WriteString("  3            Filter by archived\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

func formatTask(t *task.Task, s task.State) string {
	icon := " "
	switch {
	case t.Archived:
		icon = "~"
	case t.Done:
		icon = "x"
	}

	line := fmt.Sprintf("  [%s] %s", icon, t.Title)
	if t.ListID != "" {
		if l := s.GetList(t.ListID); l != nil {
			line += dimStyle.Render(" @" + l.Name)
		}
	}
	if t.DueDate != nil {
		line += dimStyle.Render(" due " + t.DueDate.Format("2006-01-02"))
	}
	return line
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
