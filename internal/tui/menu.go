package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label  string
	detail string
	screen Screen
	quit   bool
}

type MenuModel struct {
	items  []menuItem
	cursor int
	width  int
	height int
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		items: []menuItem{
			{label: "📋 Browse Inventory", detail: "Uploaded files, raw rows and products", screen: BrowseScreen},
			{label: "📥 Upload CSV", detail: "Send a CSV file to the backend", screen: UploadScreen},
			{label: "➕ Add Product", detail: "Append a row to the selected file", screen: AppendScreen},
			{label: "💾 Backup Datasets", detail: "Write files to JSON or BSON backups", screen: BackupScreen},
			{label: "🔄 Restore Backup", detail: "Upload a backup as a new file", screen: RestoreScreen},
			{label: "🚪 Exit", quit: true},
		},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m, m.choose(m.cursor)
	default:
		// 1-9 jump straight to an entry.
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(m.items) {
			m.cursor = int(s[0] - '1')
			return m, m.choose(m.cursor)
		}
	}
	return m, nil
}

func (m *MenuModel) choose(i int) tea.Cmd {
	item := m.items[i]
	if item.quit {
		return tea.Quit
	}
	return ChangeScreen(item.screen)
}

func (m *MenuModel) View() string {
	adaptiveTitleStyle, _, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📦 Inventory Tracker")

	var menu strings.Builder
	for i, item := range m.items {
		cursor := " "
		style := menuItemStyle
		if m.cursor == i {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		fmt.Fprintf(&menu, "%s %s\n", cursor, style.Render(fmt.Sprintf("%d. %s", i+1, item.label)))
		if item.detail != "" && m.cursor == i {
			fmt.Fprintf(&menu, "     %s\n", helpStyle.Margin(0).Render(item.detail))
		}
	}

	help := adaptiveHelpStyle.Render("↑/↓ (or j/k): Navigate • 1-6 or Enter: Select • q: Quit")

	content := lipgloss.JoinVertical(lipgloss.Center, title, menu.String(), help)
	if m.width > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
