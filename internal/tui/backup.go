package tui

import (
	"fmt"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/backup"
	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type BackupState int

const (
	BackupSelectState BackupState = iota
	BackupFormatSelectState
	BackupProgressState
	BackupResultState
)

type BackupResult struct {
	Files []string
	Error error
}

// backupStepMsg reports one dataset written by a running backup.
type backupStepMsg struct {
	path string
	err  error
}

type BackupModel struct {
	session         *session
	state           BackupState
	files           []models.CsvFile
	selected        int
	formatSelection int
	formats         []string
	targets         []models.CsvFile
	progress        progress.Model
	result          BackupResult
	width           int
	height          int
}

func NewBackupModel(s *session) *BackupModel {
	progressBar := progress.New(
		progress.WithSolidFill("#00aadd"),
		progress.WithoutPercentage(),
	)

	return &BackupModel{
		session:  s,
		state:    BackupSelectState,
		formats:  []string{"JSON", "BSON"},
		progress: progressBar,
	}
}

func (m *BackupModel) Init() tea.Cmd {
	if m.state == BackupResultState {
		m.reset()
	}
	return nil
}

func (m *BackupModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *BackupModel) SetState(state controller.State) {
	m.files = state.CsvList
	if m.selected > len(m.files) {
		m.selected = len(m.files)
	}
}

func (m *BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case BackupSelectState:
			return m.updateSelectState(msg)
		case BackupFormatSelectState:
			return m.updateFormatSelectState(msg)
		case BackupResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
			}
		}

	case backupStepMsg:
		if msg.err != nil {
			m.result.Error = msg.err
			m.state = BackupResultState
			return m, nil
		}
		m.result.Files = append(m.result.Files, msg.path)
		if len(m.result.Files) == len(m.targets) {
			m.state = BackupResultState
			return m, nil
		}
		return m, m.backupNext()
	}
	return m, nil
}

// The first entry of the list stands for every dataset.
func (m *BackupModel) updateSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.files) {
			m.selected++
		}
	case "enter":
		if len(m.files) > 0 {
			m.state = BackupFormatSelectState
		}
	}
	return m, nil
}

func (m *BackupModel) updateFormatSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.formatSelection > 0 {
			m.formatSelection--
		}
	case "down", "j":
		if m.formatSelection < len(m.formats)-1 {
			m.formatSelection++
		}
	case "enter":
		return m.startBackup()
	case "backspace":
		m.state = BackupSelectState
	}
	return m, nil
}

func (m *BackupModel) startBackup() (tea.Model, tea.Cmd) {
	if m.selected == 0 {
		m.targets = append([]models.CsvFile(nil), m.files...)
	} else {
		m.targets = []models.CsvFile{m.files[m.selected-1]}
	}
	m.result = BackupResult{}
	m.state = BackupProgressState
	return m, m.backupNext()
}

func (m *BackupModel) backupNext() tea.Cmd {
	file := m.targets[len(m.result.Files)]
	format := m.format()
	svc, dir, ctx := m.session.backups, m.session.backupDir, m.session.ctx

	return func() tea.Msg {
		path, err := svc.BackupFile(ctx, file, dir, format)
		if err != nil {
			m.session.logger.Error("Backup failed", "file", file.FileName, "error", err)
		}
		return backupStepMsg{path: path, err: err}
	}
}

func (m *BackupModel) format() string {
	if strings.ToLower(m.formats[m.formatSelection]) == backup.FormatBSON {
		return backup.FormatBSON
	}
	return backup.FormatJSON
}

func (m *BackupModel) reset() {
	m.state = BackupSelectState
	m.targets = nil
	m.result = BackupResult{}
}

func (m *BackupModel) View() string {
	switch m.state {
	case BackupSelectState:
		return m.renderSelector()
	case BackupFormatSelectState:
		return m.renderFormatSelector()
	case BackupProgressState:
		return m.renderProgress()
	case BackupResultState:
		return m.renderResult()
	}
	return ""
}

func (m *BackupModel) renderSelector() string {
	title := titleStyle.Render("💾 Backup Datasets")

	if len(m.files) == 0 {
		content := warningStyle.Render("No uploaded files to back up")
		help := helpStyle.Render("Esc: Back to menu")
		return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
	}

	choices := []string{"All datasets"}
	for _, f := range m.files {
		choices = append(choices, f.FileName)
	}

	var list string
	for i, choice := range choices {
		cursor := " "
		style := menuItemStyle
		if i == m.selected {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		list += fmt.Sprintf("%s %s\n", cursor, style.Render(choice))
	}

	dir := labelStyle.Render("Output directory: ") + m.session.backupDir
	help := helpStyle.Render("↑/↓: Navigate • Enter: Continue • Esc: Back to menu")
	return lipgloss.JoinVertical(lipgloss.Left, title, list, dir, help)
}

func (m *BackupModel) renderFormatSelector() string {
	title := titleStyle.Render("📄 Select Backup Format")

	var formatList string
	for i, format := range m.formats {
		cursor := " "
		style := menuItemStyle
		if i == m.formatSelection {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		formatList += fmt.Sprintf("%s %s\n", cursor, style.Render(format))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Start backup • Backspace: Back")
	return lipgloss.JoinVertical(lipgloss.Left, title, formatList, help)
}

func (m *BackupModel) renderProgress() string {
	title := titleStyle.Render("💾 Creating Backup...")

	var ratio float64
	if len(m.targets) > 0 {
		ratio = float64(len(m.result.Files)) / float64(len(m.targets))
	}
	progressText := fmt.Sprintf("%d of %d datasets", len(m.result.Files), len(m.targets))

	content := progressStyle.Render(m.progress.ViewAs(ratio) + "\n" + progressText)
	help := helpStyle.Render("Please wait while the backup is being written...")
	return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
}

func (m *BackupModel) renderResult() string {
	title := titleStyle.Render("💾 Backup Complete")

	var status string
	if m.result.Error != nil {
		status = errorStyle.Render(fmt.Sprintf("❌ Backup failed: %v", m.result.Error))
	} else {
		status = successStyle.Render("✅ Backup completed successfully!")
	}

	stats := fmt.Sprintf("📊 Backup Information:\n   Format: %s\n   Files written: %d",
		m.formats[m.formatSelection], len(m.result.Files))
	for _, f := range m.result.Files {
		stats += "\n   " + f
	}

	help := helpStyle.Render("Enter: Create another backup • Esc: Back to menu")
	return lipgloss.JoinVertical(lipgloss.Left, title, status, stats, help)
}
