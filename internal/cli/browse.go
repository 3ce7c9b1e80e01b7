package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/pkg/entity"
	"github.com/matzehuels/mapgraph/pkg/graph"
	"github.com/matzehuels/mapgraph/pkg/preset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <graph>",
		Short: "Explore the entities of a graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			_, cat, err := c.env()
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewEntityListModel(g, cat), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// EntityListModel - Interactive entity browser
// =============================================================================

// kindFilters is the cycle of the tab key. The empty kind shows everything.
var kindFilters = []entity.Kind{"", entity.KindPoint, entity.KindLine, entity.KindRelation}

type entityRow struct {
	ID       entity.ID
	Kind     entity.Kind
	Geometry graph.Geometry
	Preset   string
	Tags     entity.Tags
	Detail   []string
}

// EntityListModel is the bubbletea model for browsing entities.
type EntityListModel struct {
	rows    []entityRow
	visible []int

	Filter     int
	Cursor     int
	Offset     int
	Height     int
	ShowDetail bool
}

// NewEntityListModel lists every entity of g in id order. Presets are
// matched against cat when it is non-nil.
func NewEntityListModel(g *graph.Graph, cat *preset.Catalog) EntityListModel {
	m := EntityListModel{rows: entityRows(g, cat), Height: 15}
	m.applyFilter()
	return m
}

func entityRows(g *graph.Graph, cat *preset.Catalog) []entityRow {
	entities := g.Entities()
	rows := make([]entityRow, 0, len(entities))
	for _, e := range entities {
		geom, _ := g.Geometry(e.EntityID())
		row := entityRow{
			ID:       e.EntityID(),
			Kind:     e.Kind(),
			Geometry: geom,
			Tags:     e.EntityTags(),
		}
		if cat != nil && len(row.Tags) > 0 {
			if p := cat.Match(row.Tags, geom); p != nil {
				row.Preset = p.ID
			}
		}

		switch e := e.(type) {
		case *entity.Point:
			row.Detail = append(row.Detail, fmt.Sprintf("loc %.6f, %.6f", e.Loc.Lon, e.Loc.Lat))
		case *entity.Line:
			row.Detail = append(row.Detail, "points "+joinIDs(e.Points))
			if e.IsClosed() {
				row.Detail = append(row.Detail, "closed")
			}
		case *entity.Relation:
			for _, mem := range e.Members {
				row.Detail = append(row.Detail, fmt.Sprintf("member %s %s %q", mem.Kind, mem.ID, mem.Role))
			}
		}
		var parents []entity.ID
		for _, l := range g.ParentLines(row.ID) {
			parents = append(parents, l.ID)
		}
		for _, r := range g.ParentRelations(row.ID) {
			parents = append(parents, r.ID)
		}
		if len(parents) > 0 {
			row.Detail = append(row.Detail, "parents "+joinIDs(parents))
		}
		for _, k := range row.Tags.Keys() {
			row.Detail = append(row.Detail, k+"="+row.Tags[k])
		}
		rows = append(rows, row)
	}
	return rows
}

func joinIDs(ids []entity.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, " ")
}

func (m *EntityListModel) applyFilter() {
	kind := kindFilters[m.Filter]
	m.visible = nil
	for i, r := range m.rows {
		if kind == "" || r.Kind == kind {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

// Selected returns the entity under the cursor, or "" for an empty list.
func (m EntityListModel) Selected() entity.ID {
	if len(m.visible) == 0 {
		return ""
	}
	return m.rows[m.visible[m.Cursor]].ID
}

func (m EntityListModel) Init() tea.Cmd {
	return nil
}

func (m EntityListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.Filter = (m.Filter + 1) % len(kindFilters)
			m.applyFilter()
		case "enter":
			m.ShowDetail = !m.ShowDetail
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m EntityListModel) View() string {
	var b strings.Builder

	filter := "all"
	if k := kindFilters[m.Filter]; k != "" {
		filter = string(k) + "s"
	}
	b.WriteString(StyleTitle.Render("Entities") + " " + listDimStyle.Render(filter))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		presetID := r.Preset
		if presetID == "" {
			presetID = "-"
		}
		rows = append(rows, []string{cursor, string(r.ID), string(r.Kind), string(r.Geometry), presetID, fmt.Sprint(len(r.Tags))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Geometry", "Preset", "Tags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	if m.ShowDetail && len(m.visible) > 0 {
		r := m.rows[m.visible[m.Cursor]]
		b.WriteString("\n\n")
		b.WriteString(StyleHighlight.Render(string(r.ID)))
		b.WriteString("\n")
		for _, line := range r.Detail {
			b.WriteString("  " + StyleValue.Render(line) + "\n")
		}
	}

	return b.String()
}
