package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	contract "github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/cli/formatter"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/reconcile"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// writesReadyMsg reports that finished writes are waiting to be applied.
type writesReadyMsg struct{}

// idleMsg fires once the editor has been quiet for the idle delay.
type idleMsg struct{}

// gridModel is the grading grid: students down, plan items across. It owns
// the reconcile.Controller and is the only goroutine that touches it.
type gridModel struct {
	ctx       context.Context
	grid      *contract.Grid
	ctrl      *reconcile.Controller
	idle      *reconcile.IdleQueue
	idleDelay time.Duration

	scales     []domain.GradeScale
	scaleIndex map[string]int

	row, col int
	editing  bool
	notes    textinput.Model
	// idleTick is set while an idleMsg is on its way.
	idleTick bool
	// waiting is set while a Cmd is parked on the controller's Ready signal.
	waiting bool

	status  string
	lastErr error
	width   int

	quitting bool
}

func newGridModel(ctx context.Context, grid *contract.Grid, ctrl *reconcile.Controller, idle *reconcile.IdleQueue, idleDelay time.Duration) *gridModel {
	ti := textinput.New()
	ti.Prompt = "notes> "
	ti.CharLimit = 4000
	ti.Cursor.SetMode(cursor.CursorStatic)

	index := make(map[string]int, len(grid.Scales))
	for i, s := range grid.Scales {
		index[s.ID] = i
	}

	ctrl.Seed(grid)
	return &gridModel{
		ctx:        ctx,
		grid:       grid,
		ctrl:       ctrl,
		idle:       idle,
		idleDelay:  idleDelay,
		scales:     grid.Scales,
		scaleIndex: index,
		notes:      ti,
	}
}

func (m *gridModel) Init() tea.Cmd {
	return nil
}

// selected returns the key of the cell under the cursor.
func (m *gridModel) selected() (reconcile.CellKey, bool) {
	if len(m.grid.Enrollments) == 0 || len(m.grid.Columns) == 0 {
		return reconcile.CellKey{}, false
	}
	col := m.grid.Columns[m.col].PlanItem
	return reconcile.CellKey{
		EnrollmentID:   m.grid.Enrollments[m.row].ID,
		PlanItemID:     col.ID,
		ContentGroupID: col.ContentGroupID,
	}, true
}

func (m *gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.notes.Width = max(msg.Width-len(m.notes.Prompt)-1, 10)
		return m, nil

	case writesReadyMsg:
		m.waiting = false
		n, err := m.ctrl.ApplyReady()
		switch {
		case err != nil:
			m.lastErr = err
			m.status = ""
		case n > 0:
			m.status = "saved"
		}
		return m, m.awaitWrites()

	case idleMsg:
		m.idleTick = false
		m.idle.RunIdle()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

func (m *gridModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
		return m, nil
	case "down", "j":
		if m.row < len(m.grid.Enrollments)-1 {
			m.row++
		}
		return m, nil
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
		return m, nil
	case "right", "l":
		if m.col < len(m.grid.Columns)-1 {
			m.col++
		}
		return m, nil
	case "+", "=":
		return m, m.stepGrade(1)
	case "-":
		return m, m.stepGrade(-1)
	case "n":
		return m, m.openEditor()
	case "x":
		return m, m.clearGrade()
	}

	if r := msg.Runes; len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
		i := int(r[0] - '1')
		if i < len(m.scales) {
			return m, m.setGrade(m.scales[i].ID)
		}
	}
	return m, nil
}

func (m *gridModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		return m, m.closeEditor()
	}

	before := m.notes.Value()
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	if m.notes.Value() == before {
		return m, cmd
	}

	key, _ := m.selected()
	if err := m.ctrl.ChangeNotes(key, m.notes.Value()); err != nil {
		m.lastErr = err
		return m, cmd
	}
	return m, tea.Batch(cmd, m.scheduleIdle())
}

// scheduleIdle arms one idle tick when work is queued and none is pending.
func (m *gridModel) scheduleIdle() tea.Cmd {
	if m.idleTick || m.idle.Pending() == 0 {
		return nil
	}
	m.idleTick = true
	return tea.Tick(m.idleDelay, func(time.Time) tea.Msg { return idleMsg{} })
}

func (m *gridModel) openEditor() tea.Cmd {
	key, ok := m.selected()
	if !ok {
		return nil
	}
	cell, _ := m.ctrl.Cell(key)
	m.notes.SetValue(cell.VisibleNotes())
	m.notes.CursorEnd()
	m.editing = true
	return m.notes.Focus()
}

func (m *gridModel) closeEditor() tea.Cmd {
	m.editing = false
	m.notes.Blur()
	key, ok := m.selected()
	if !ok {
		return nil
	}
	issued, err := m.ctrl.Close(m.ctx, key)
	return m.afterWrite(issued, err)
}

func (m *gridModel) setGrade(scaleID string) tea.Cmd {
	key, ok := m.selected()
	if !ok {
		return nil
	}
	issued, err := m.ctrl.ChangeGrade(m.ctx, key, scaleID)
	return m.afterWrite(issued, err)
}

// stepGrade moves the selected cell's grade delta steps along the scale.
// An ungraded cell steps up to the lowest grade and does not step down.
func (m *gridModel) stepGrade(delta int) tea.Cmd {
	key, ok := m.selected()
	if !ok || len(m.scales) == 0 {
		return nil
	}
	cell, _ := m.ctrl.Cell(key)
	current, graded := m.scaleIndex[cell.GradeScaleID()]
	next := 0
	switch {
	case !graded && delta < 0:
		return nil
	case graded:
		next = min(max(current+delta, 0), len(m.scales)-1)
	}
	return m.setGrade(m.scales[next].ID)
}

func (m *gridModel) clearGrade() tea.Cmd {
	key, ok := m.selected()
	if !ok {
		return nil
	}
	issued, err := m.ctrl.ClearGrade(m.ctx, key)
	return m.afterWrite(issued, err)
}

// afterWrite waits for the completion of a write the controller issued.
func (m *gridModel) afterWrite(issued bool, err error) tea.Cmd {
	if err != nil {
		m.lastErr = err
		return nil
	}
	if !issued {
		return nil
	}
	m.status = "saving…"
	return m.awaitWrites()
}

// awaitWrites parks one Cmd on the controller's Ready signal while writes
// are in flight. The Cmd never takes a completion itself, so nothing is
// lost if the program exits before its message is handled.
func (m *gridModel) awaitWrites() tea.Cmd {
	if m.waiting || m.ctrl.InFlight() == 0 {
		return nil
	}
	m.waiting = true
	ready := m.ctrl.Ready()
	return func() tea.Msg {
		<-ready
		return writesReadyMsg{}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

const (
	nameWidth = 16
	cellWidth = 12
)

func (m *gridModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Grading " + m.grid.Class.Name))
	b.WriteString("\n\n")

	if len(m.grid.Enrollments) == 0 || len(m.grid.Columns) == 0 {
		b.WriteString(formatter.Dim("Nothing to grade: the class needs students and plan items."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(pad("", nameWidth))
	for _, col := range m.grid.Columns {
		title := fmt.Sprintf("W%d %s", col.PlanItem.Week, col.ContentGroupName)
		b.WriteString(formatter.StyleHeader.Render(pad(formatter.Truncate(title, cellWidth-1), cellWidth)))
	}
	b.WriteString("\n")

	for r, e := range m.grid.Enrollments {
		b.WriteString(pad(formatter.Truncate(e.StudentName, nameWidth-1), nameWidth))
		for c, col := range m.grid.Columns {
			key := reconcile.CellKey{EnrollmentID: e.ID, PlanItemID: col.PlanItem.ID, ContentGroupID: col.PlanItem.ContentGroupID}
			text := pad(m.cellText(key), cellWidth)
			if r == m.row && c == m.col {
				text = formatter.StyleCursor.Render(text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	return b.String()
}

func (m *gridModel) cellText(key reconcile.CellKey) string {
	cell, ok := m.ctrl.Cell(key)
	if !ok {
		return ""
	}
	text := "·"
	if id := cell.GradeScaleID(); id != "" {
		text = m.scaleName(id)
	}
	switch {
	case cell.InFlight > 0:
		text += "*"
	case cell.Err != nil:
		text += "!"
	}
	return formatter.Truncate(text, cellWidth-1)
}

func (m *gridModel) scaleName(id string) string {
	if i, ok := m.scaleIndex[id]; ok {
		return m.scales[i].Name
	}
	return id
}

func (m *gridModel) detailView() string {
	key, _ := m.selected()
	cell, ok := m.ctrl.Cell(key)
	if !ok {
		return ""
	}
	col := m.grid.Columns[m.col]
	line := fmt.Sprintf("%s · %s", formatter.Bold(m.grid.Enrollments[m.row].StudentName), col.ContentGroupName)
	if id := cell.GradeScaleID(); id != "" {
		line += " · " + m.scaleName(id)
	}
	if m.editing {
		return line + "\n" + m.notes.View()
	}
	if notes := cell.VisibleNotes(); notes != "" {
		line += "\n" + formatter.Dim("notes: "+notes)
	}
	return line
}

func (m *gridModel) statusLine() string {
	parts := []string{fmt.Sprintf("in flight: %d", m.ctrl.InFlight())}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.lastErr != nil {
		parts = append(parts, formatter.StyleRed.Render("error: "+m.lastErr.Error()))
	}
	help := "↑↓←→ move  1-9 +/- grade  n notes  x clear  q quit"
	if m.editing {
		help = "enter/esc close notes"
	}
	return strings.Join(parts, "  ") + "\n" + formatter.Dim(help)
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
