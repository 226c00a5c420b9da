package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/coinsearch/internal/coingecko"
)

// row is the presentation form of one search result.
type row struct {
	id        string
	name      string
	symbol    string
	apiSymbol string
	rank      string
	tier      string
}

func newRow(r coingecko.SearchResult) row {
	rank, ok := r.Rank()
	return row{
		id:        r.ID,
		name:      r.Name,
		symbol:    r.Symbol,
		apiSymbol: r.APISymbol,
		rank:      rankLabel(r),
		tier:      rankTier(rank, ok),
	}
}

func buildRows(results []coingecko.SearchResult) []row {
	if len(results) == 0 {
		return nil
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, newRow(r))
	}
	return rows
}

// rankLabel formats the market cap rank, spelling out a missing rank.
func rankLabel(r coingecko.SearchResult) string {
	if rank, ok := r.Rank(); ok {
		return "Market Cap Rank: " + strconv.Itoa(rank)
	}
	return "Market Cap Rank: undefined"
}

// Layout: header (1) + bordered input (3) + footer (1).
const chromeHeight = 5

func (m Model) listHeight() int {
	return maxInt(m.height-chromeHeight, 1)
}

func (m *Model) moveSelection(delta int) {
	m.selectedRow += delta
	m.clampSelection()
}

// clampSelection keeps the selection inside the list and scrolls the window
// so the selected row stays visible.
func (m *Model) clampSelection() {
	if len(m.rows) == 0 {
		m.selectedRow = 0
		m.offset = 0
		return
	}
	if m.selectedRow >= len(m.rows) {
		m.selectedRow = len(m.rows) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}

	height := m.listHeight()
	if m.selectedRow < m.offset {
		m.offset = m.selectedRow
	}
	if m.selectedRow >= m.offset+height {
		m.offset = m.selectedRow - height + 1
	}
	if maxOffset := maxInt(len(m.rows)-height, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
}

// renderHeader renders the title bar with the fetch status on the right.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)

	left := bg.text(appTitle, styles.Title)

	var status string
	switch {
	case m.pending:
		status = bg.text(m.spinner.View(), styles.AccentText) + bg.gap(1) +
			bg.text("searching", styles.MutedText)
	case m.snapshot.LastError != nil:
		status = bg.text("search failed", styles.DangerText)
	case m.snapshot.HasFetched:
		status = bg.text(resultCount(len(m.rows)), styles.MutedText)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	content := left + bg.gap(maxInt(gap, 1)) + status
	return styles.Header.Width(m.width).Render(content)
}

func resultCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func (m Model) renderInput() string {
	return m.theme.Styles().Input.Width(maxInt(m.width-2, 10)).Render(m.input.View())
}

// renderResults renders the visible window of rows, or the empty-state text.
func (m Model) renderResults() string {
	styles := m.theme.Styles()
	height := m.listHeight()

	lines := make([]string, 0, height)
	if len(m.rows) == 0 {
		if m.snapshot.LastError != nil {
			lines = append(lines, styles.DangerText.Render(truncate(m.snapshot.LastError.Error(), m.width-2)))
		}
		lines = append(lines, styles.MutedText.Render(emptyText))
	} else {
		end := minInt(m.offset+height, len(m.rows))
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(m.rows[i], i == m.selectedRow, styles))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

// renderRow lays out name and symbol on the left and the rank label on the
// right edge.
func (m Model) renderRow(r row, selected bool, styles Styles) string {
	rankWidth := len(r.rank)
	nameWidth := maxInt(m.width-rankWidth-4, 8)

	label := r.name
	if r.symbol != "" {
		label += " (" + r.symbol + ")"
	}
	label = padRight(truncate(label, nameWidth), nameWidth)

	if selected {
		return styles.Selected.Width(m.width).Render("▶ " + label + " " + r.rank)
	}
	return "  " + styles.Text.Render(label) + " " + styles.RankStyle(r.tier).Render(r.rank)
}

// renderFooter shows the selected coin's identifiers and the short help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)

	parts := []string{m.help.ShortHelpView(m.keys.ShortHelp())}
	if m.selectedRow < len(m.rows) {
		r := m.rows[m.selectedRow]
		parts = append([]string{
			bg.text("id", styles.FaintText) + bg.gap(1) + bg.text(r.id, styles.MutedText),
			bg.text("api", styles.FaintText) + bg.gap(1) + bg.text(r.apiSymbol, styles.MutedText),
		}, parts...)
	}
	return bg.fill(styles.Footer.Render(bg.join(parts, "  ")), m.width)
}
