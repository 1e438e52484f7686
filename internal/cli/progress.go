package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkling/vitrail/pkg/glass/tile"
)

// Bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 30

// =============================================================================
// TileProgressModel - Live tile rendering progress
// =============================================================================

// tileMsg reports one completed tile.
type tileMsg struct {
	done  int
	total int
	desc  tile.Descriptor
}

// renderDoneMsg signals that the pipeline finished (successfully or not).
type renderDoneMsg struct {
	err error
}

// TileProgressModel is the bubbletea model showing tile rendering progress.
type TileProgressModel struct {
	Title     string
	Done      int
	Total     int
	Last      tile.Descriptor
	Err       error
	Cancelled bool
	start     time.Time
	finished  bool
}

// NewTileProgressModel creates a progress model for a render of the given title.
func NewTileProgressModel(title string) TileProgressModel {
	return TileProgressModel{Title: title, start: time.Now()}
}

func (m TileProgressModel) Init() tea.Cmd {
	return nil
}

func (m TileProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		}
	case tileMsg:
		m.Done = msg.done
		m.Total = msg.total
		m.Last = msg.desc
	case renderDoneMsg:
		m.Err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m TileProgressModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n\n")

	frac := 0.0
	if m.Total > 0 {
		frac = float64(m.Done) / float64(m.Total)
	}
	filled := int(frac * barWidth)
	b.WriteString("  ")
	b.WriteString(barFilledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(fmt.Sprintf(" %3.0f%%", frac*100))
	b.WriteString("\n\n")

	if m.Total > 0 {
		detail := fmt.Sprintf("tile %d/%d  %dx%d at (%d,%d)  %s",
			m.Done, m.Total,
			m.Last.Width, m.Last.Height, m.Last.X, m.Last.Y,
			time.Since(m.start).Round(time.Millisecond))
		b.WriteString("  " + StyleDim.Render(detail) + "\n")
	}
	b.WriteString("  " + StyleDim.Render("q to cancel") + "\n")

	return b.String()
}
