package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dagboard/dagboard/pkg/dag"
	"github.com/dagboard/dagboard/pkg/editor"
	"github.com/dagboard/dagboard/pkg/graph"
	"github.com/dagboard/dagboard/pkg/history"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Editor panes.
const (
	paneNodes = iota
	paneEdges
)

// Editor input modes.
const (
	modeNormal  = iota
	modeLabel   // typing a label for a new node
	modeConnect // a source node is armed, picking the target
)

// editModel is the bubbletea model for the interactive graph editor.
//
// The model wraps an edit session and an undo/redo buffer. Every
// mutation goes through the session so the graph is revalidated
// immediately, then the new state is pushed onto the history buffer.
type editModel struct {
	session *editor.Session
	history *history.Buffer
	path    string

	pane   int
	mode   int
	cursor int
	input  string
	source string // armed connect source node ID

	status  string
	saveErr error
}

func newEditModel(session *editor.Session, hist *history.Buffer, path string) editModel {
	return editModel{
		session: session,
		history: hist,
		path:    path,
		status:  "a add  c connect  d delete  l layout  u undo  r redo  s save  q quit",
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case modeLabel:
		return m.updateLabel(key)
	case modeConnect:
		return m.updateConnect(key)
	}
	return m.updateNormal(key)
}

// updateNormal handles keys in browsing mode.
func (m editModel) updateNormal(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		if m.pane == paneNodes {
			m.pane = paneEdges
		} else {
			m.pane = paneNodes
		}
		m.cursor = 0

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < m.paneLen()-1 {
			m.cursor++
		}

	case "a":
		m.mode = modeLabel
		m.input = ""
		m.status = "label: (enter to add, esc to cancel)"

	case "c":
		if m.pane == paneNodes {
			if n, ok := m.nodeAtCursor(); ok {
				m.mode = modeConnect
				m.source = n.ID
				m.status = fmt.Sprintf("connect %s %s ? (enter to pick target, esc to cancel)", n.DisplayLabel(), iconArrow)
			}
		}

	case "d":
		m = m.deleteAtCursor()

	case "l":
		m.session.AutoLayout()
		m = m.commit("layout applied")

	case "C":
		m.session.Clear()
		m = m.commit("graph cleared")

	case "u":
		if g, ok := m.history.Undo(); ok {
			m.session.Load(g)
			m.status = "undone"
			m.clampCursor()
		} else {
			m.status = "nothing to undo"
		}

	case "r":
		if g, ok := m.history.Redo(); ok {
			m.session.Load(g)
			m.status = "redone"
			m.clampCursor()
		} else {
			m.status = "nothing to redo"
		}

	case "s":
		m = m.save()
	}
	return m, nil
}

// updateLabel handles keys while typing a new node label.
func (m editModel) updateLabel(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeNormal
		m.status = "cancelled"
	case "enter":
		m.mode = modeNormal
		n, err := m.session.AddNode(strings.TrimSpace(m.input))
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m = m.commit(fmt.Sprintf("added %s", n.DisplayLabel()))
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if key.Type == tea.KeyRunes || key.Type == tea.KeySpace {
			m.input += key.String()
		}
	}
	return m, nil
}

// updateConnect handles keys while a connect source is armed.
func (m editModel) updateConnect(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeNormal
		m.source = ""
		m.status = "cancelled"
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.session.NodeCount()-1 {
			m.cursor++
		}
	case "enter":
		target, ok := m.nodeAtCursor()
		if !ok {
			return m, nil
		}
		m.mode = modeNormal
		src := m.source
		m.source = ""
		if _, err := m.session.Connect(src, target.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m = m.commit(fmt.Sprintf("connected %s %s %s", src, iconArrow, target.ID))
	}
	return m, nil
}

// deleteAtCursor removes the node or edge under the cursor.
func (m editModel) deleteAtCursor() editModel {
	snap := m.session.Snapshot()
	switch m.pane {
	case paneNodes:
		nodes := snap.Nodes()
		if m.cursor >= len(nodes) {
			return m
		}
		id := nodes[m.cursor].ID
		m.session.DeleteSelection([]string{id}, nil)
		m = m.commit(fmt.Sprintf("deleted node %s", id))
	case paneEdges:
		edges := snap.Edges()
		if m.cursor >= len(edges) {
			return m
		}
		e := edges[m.cursor]
		m.session.DeleteSelection(nil, []string{e.ID})
		m = m.commit(fmt.Sprintf("deleted edge %s %s %s", e.From, iconArrow, e.To))
	}
	m.clampCursor()
	return m
}

// commit pushes the current graph onto the history buffer and sets the
// status line.
func (m editModel) commit(status string) editModel {
	m.history.Push(m.session.Snapshot())
	m.status = status
	return m
}

func (m editModel) save() editModel {
	if m.path == "" {
		m.status = "no file to save to (start with: dagboard edit <file>)"
		return m
	}
	out := m.session.Export()
	if err := graph.WriteFile(out, m.path); err != nil {
		m.saveErr = err
		m.status = err.Error()
		return m
	}
	m.saveErr = nil
	m.status = fmt.Sprintf("saved to %s at %s", m.path, time.Now().Format("15:04:05"))
	return m
}

func (m editModel) paneLen() int {
	if m.pane == paneEdges {
		return m.session.EdgeCount()
	}
	return m.session.NodeCount()
}

func (m *editModel) clampCursor() {
	if n := m.paneLen(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m editModel) nodeAtCursor() (dag.Node, bool) {
	nodes := m.session.Snapshot().Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return dag.Node{}, false
	}
	return *nodes[m.cursor], true
}

func (m editModel) View() string {
	var b strings.Builder

	snap := m.session.Snapshot()
	report := m.session.Report()

	title := fmt.Sprintf("dagboard %s %s", iconInfo, m.session.Name())
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	if report.Valid {
		b.WriteString(StyleSuccess.Render(iconSuccess + " valid"))
	} else {
		b.WriteString(StyleError.Render(iconError + " invalid"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewNodes(snap))
	b.WriteString("\n")
	b.WriteString(m.viewEdges(snap))
	b.WriteString("\n")

	for _, e := range report.Errors {
		b.WriteString(StyleError.Render(iconError+" "+e) + "\n")
	}
	for _, w := range report.Warnings {
		b.WriteString(StyleWarning.Render(iconWarning+" "+w) + "\n")
	}
	b.WriteString("\n")

	if m.mode == modeLabel {
		b.WriteString(StyleHighlight.Render("label: " + m.input + "▌"))
	} else {
		b.WriteString(listDimStyle.Render(m.status))
	}
	b.WriteString("\n")

	return b.String()
}

func (m editModel) viewNodes(snap *dag.Graph) string {
	header := "Nodes"
	if m.pane == paneNodes || m.mode == modeConnect {
		header = "▸ Nodes"
	}

	rows := [][]string{}
	for i, n := range snap.Nodes() {
		cursor := "  "
		if i == m.cursor && (m.pane == paneNodes || m.mode == modeConnect) {
			cursor = "▸ "
		}
		mark := ""
		if n.ID == m.source {
			mark = iconArrow
		}
		rows = append(rows, []string{
			cursor,
			n.ID,
			n.DisplayLabel(),
			fmt.Sprintf("%.0f,%.0f", n.X, n.Y),
			mark,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	selected := m.cursor

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Pos", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == selected && (m.pane == paneNodes || m.mode == modeConnect) {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	return headerStyle.Render(header) + "\n" + t.Render() + "\n"
}

func (m editModel) viewEdges(snap *dag.Graph) string {
	header := "Edges"
	if m.pane == paneEdges {
		header = "▸ Edges"
	}

	var b strings.Builder
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	edges := snap.Edges()
	if len(edges) == 0 {
		b.WriteString(listDimStyle.Render("  (none)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, e := range edges {
		cursor := "  "
		line := fmt.Sprintf("%s %s %s", e.From, iconArrow, e.To)
		if i == m.cursor && m.pane == paneEdges {
			cursor = "▸ "
			b.WriteString(cursor + listSelectedStyle.Render(line))
		} else {
			b.WriteString(cursor + listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
