package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browseFocus int

const (
	focusSidebar browseFocus = iota
	focusTable
)

type tableView int

const (
	rawView tableView = iota
	productView
)

const (
	sidebarWidth   = 28
	minColumnWidth = 6
	maxColumnWidth = 24
	sellColumn     = "Action"
	outOfStock     = "Out of Stock"
)

type BrowseModel struct {
	session *session
	state   controller.State
	cursor  int
	focus   browseFocus
	view    tableView
	table   table.Model
	width   int
	height  int
}

func NewBrowseModel(s *session) *BrowseModel {
	t := table.New(table.WithFocused(false), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorInverse).
		Background(colorAccent)
	t.SetStyles(styles)

	return &BrowseModel{session: s, table: t}
}

func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 10
	if tableHeight < 5 {
		tableHeight = 5
	}
	m.table.SetHeight(tableHeight)
	if w := width - sidebarWidth - 6; w > 20 {
		m.table.SetWidth(w)
	}
}

// SetState shows a new controller snapshot.
func (m *BrowseModel) SetState(state controller.State) {
	m.state = state
	if m.cursor >= len(state.CsvList) {
		m.cursor = max(len(state.CsvList)-1, 0)
	}
	m.refreshTable()
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "tab":
		m.toggleFocus()
		return m, nil
	case "v":
		if m.view == rawView {
			m.view = productView
		} else {
			m.view = rawView
		}
		m.refreshTable()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m, m.updateSidebar(key)
	}

	if m.view == productView {
		switch key.String() {
		case "s", "enter":
			return m, m.sellSelected()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowseModel) updateSidebar(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.CsvList)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.state.CsvList) == 0 {
			return nil
		}
		fileID := m.state.CsvList[m.cursor].ID
		ctrl := m.session.ctrl
		return m.session.run(opSelect, func(ctx context.Context) (controller.State, error) {
			return ctrl.SelectCsv(ctx, fileID)
		})
	}
	return nil
}

func (m *BrowseModel) toggleFocus() {
	if m.focus == focusSidebar {
		m.focus = focusTable
		m.table.Focus()
	} else {
		m.focus = focusSidebar
		m.table.Blur()
	}
}

func (m *BrowseModel) sellSelected() tea.Cmd {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.state.SelectedCsvData) {
		return nil
	}
	row := m.state.SelectedCsvData[i]
	if models.ProductFromRow(row).OutOfStock() {
		return nil
	}

	productID, _ := row.Get(models.ColProductID)
	qty, _ := row.Get(models.ColQty)
	price, _ := row.Get(models.ColPrice)
	return requestSell(productID, qty, price)
}

// refreshTable rebuilds the table for the current view. Rows are cleared
// before the columns change so no row is ever wider than the columns.
func (m *BrowseModel) refreshTable() {
	var columns []table.Column
	var rows []table.Row
	if m.view == rawView {
		columns, rows = rawTable(m.state.HeaderKeys, m.state.SelectedCsvData)
	} else {
		columns, rows = productTable(m.state.Products())
	}

	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func rawTable(headers []string, data []models.Row) ([]table.Column, []table.Row) {
	rows := make([]table.Row, 0, len(data))
	for _, record := range data {
		cells := make(table.Row, len(headers))
		for i, key := range headers {
			cells[i] = record.Cell(key)
		}
		rows = append(rows, cells)
	}
	return fitColumns(headers, rows), rows
}

func productTable(products []models.Product) ([]table.Column, []table.Row) {
	headers := []string{
		models.ColProductID,
		models.ColProductName,
		models.ColBarcode,
		models.ColPrice,
		models.ColQty,
		sellColumn,
	}

	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		action := "[ Sell ]"
		if p.OutOfStock() {
			action = outOfStock
		}
		rows = append(rows, table.Row{
			p.ProductID,
			p.ProductName,
			p.Barcode,
			models.FormatPrice(p.Price),
			p.Qty,
			action,
		})
	}
	return fitColumns(headers, rows), rows
}

func fitColumns(headers []string, rows []table.Row) []table.Column {
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range rows {
			if w := lipgloss.Width(row[i]); w > width {
				width = w
			}
		}
		columns[i] = table.Column{Title: h, Width: min(max(width, minColumnWidth), maxColumnWidth)}
	}
	return columns
}

func (m *BrowseModel) View() string {
	adaptiveTitleStyle, _, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📋 Inventory")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderTable())

	help := "Tab: Switch focus • ↑/↓: Navigate • Enter: Open file • v: Raw/Product view • Esc: Menu"
	if m.view == productView && m.focus == focusTable {
		help = "Tab: Switch focus • ↑/↓: Navigate • s/Enter: Sell • v: Raw/Product view • Esc: Menu"
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, adaptiveHelpStyle.Render(help))
}

func (m *BrowseModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Uploaded Files"))
	b.WriteString("\n\n")

	if len(m.state.CsvList) == 0 {
		b.WriteString(helpStyle.Margin(0).Render("No files uploaded yet"))
	}
	for i, file := range m.state.CsvList {
		name := truncate(file.FileName, sidebarWidth-6)
		if file.ID == m.state.SelectedFileID {
			name = "• " + name
		}

		cursor := " "
		style := menuItemStyle.Margin(0).Padding(0, 1)
		if i == m.cursor {
			cursor = ">"
			if m.focus == focusSidebar {
				style = selectedMenuItemStyle.Margin(0).Padding(0, 1)
			}
		}
		fmt.Fprintf(&b, "%s %s\n", cursor, style.Render(name))
	}

	border := formStyle.Margin(0, 1, 0, 0).Padding(0, 1).Width(sidebarWidth)
	return border.Render(b.String())
}

func (m *BrowseModel) renderTable() string {
	heading := "Raw Data"
	if m.view == productView {
		heading = "Products"
	}

	var content string
	if len(m.state.HeaderKeys) == 0 && len(m.state.SelectedCsvData) == 0 {
		content = helpStyle.Margin(0).Render("Select a file to view its rows")
	} else {
		content = m.table.View()
	}
	return formStyle.Margin(0).Padding(0, 1).Render(labelStyle.Render(heading) + "\n" + content)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width || width < 2 {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
