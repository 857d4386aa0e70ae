package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/backup"
	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type RestoreState int

const (
	RestoreInputState RestoreState = iota
	RestoreFileSelectState
	ConfirmationState
	RestoreProgressState
	RestoreResultState
)

type RestoreResult struct {
	FileID   models.FileID
	FileName string
	RowCount int
	Error    error
}

type RestoreCompleteMsg struct {
	Result RestoreResult
}

type RestoreModel struct {
	session         *session
	state           RestoreState
	backupFileInput textinput.Model
	nameInput       textinput.Model
	focusedInput    int
	result          RestoreResult
	files           []string
	selectedFile    int
	width           int
	height          int
}

func NewRestoreModel(s *session) *RestoreModel {
	backupFileInput := textinput.New()
	backupFileInput.Placeholder = "backups/backup_stock.csv_20240101_120000.json"

	nameInput := textinput.New()
	nameInput.Placeholder = "stock.csv"

	return &RestoreModel{
		session:         s,
		state:           RestoreInputState,
		backupFileInput: backupFileInput,
		nameInput:       nameInput,
	}
}

func (m *RestoreModel) Init() tea.Cmd {
	if m.state == RestoreResultState {
		m.reset()
	}
	return m.updateInputFocus()
}

func (m *RestoreModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case RestoreInputState:
			return m.updateInputState(msg)
		case RestoreFileSelectState:
			return m.updateFileSelectState(msg)
		case ConfirmationState:
			return m.updateConfirmationState(msg)
		case RestoreResultState:
			if msg.String() == "enter" || msg.String() == " " {
				m.reset()
				return m, m.updateInputFocus()
			}
		}

	case RestoreCompleteMsg:
		m.result = msg.Result
		m.state = RestoreResultState
		if msg.Result.Error == nil {
			file := models.CsvFile{ID: msg.Result.FileID, FileName: msg.Result.FileName}
			ctrl := m.session.ctrl
			return m, m.session.run(opRestore, func(context.Context) (controller.State, error) {
				return ctrl.AddCsvFile(file), nil
			})
		}
	}
	return m, nil
}

func (m *RestoreModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusedInput = (m.focusedInput + 1) % 2
		return m, m.updateInputFocus()
	case "shift+tab", "up":
		m.focusedInput = (m.focusedInput + 1) % 2
		return m, m.updateInputFocus()
	case "ctrl+f":
		return m.browseFiles()
	case "enter":
		if err := m.validate(); err != nil {
			return m, ShowError(err)
		}
		m.state = ConfirmationState
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusedInput == 0 {
		m.backupFileInput, cmd = m.backupFileInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *RestoreModel) updateFileSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedFile > 0 {
			m.selectedFile--
		}
	case "down", "j":
		if m.selectedFile < len(m.files)-1 {
			m.selectedFile++
		}
	case "enter":
		if len(m.files) > 0 {
			path := m.files[m.selectedFile]
			m.backupFileInput.SetValue(path)
			if name, ok := backup.DatasetNameFromBackup(path); ok {
				m.nameInput.SetValue(name)
			}
			m.state = RestoreInputState
		}
	case "esc":
		m.state = RestoreInputState
	}
	return m, nil
}

func (m *RestoreModel) updateConfirmationState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.state = RestoreProgressState
		return m, m.performRestore()
	case "n":
		m.state = RestoreInputState
	}
	return m, nil
}

func (m *RestoreModel) browseFiles() (tea.Model, tea.Cmd) {
	var files []string
	for _, pattern := range []string{"backup_*.json", "backup_*.bson"} {
		matches, err := filepath.Glob(filepath.Join(m.session.backupDir, pattern))
		if err != nil {
			return m, ShowError(err)
		}
		files = append(files, matches...)
	}

	if cwd, err := os.Getwd(); err == nil {
		for i, file := range files {
			if rel, err := filepath.Rel(cwd, file); err == nil {
				files[i] = rel
			}
		}
	}

	m.files = files
	m.selectedFile = 0
	m.state = RestoreFileSelectState
	return m, nil
}

func (m *RestoreModel) updateInputFocus() tea.Cmd {
	if m.focusedInput == 0 {
		m.nameInput.Blur()
		return m.backupFileInput.Focus()
	}
	m.backupFileInput.Blur()
	return m.nameInput.Focus()
}

func (m *RestoreModel) format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(m.backupFileInput.Value())), ".")
}

func (m *RestoreModel) validate() error {
	path := strings.TrimSpace(m.backupFileInput.Value())
	if path == "" {
		return fmt.Errorf("backup file is required")
	}
	if strings.TrimSpace(m.nameInput.Value()) == "" {
		return fmt.Errorf("dataset name is required")
	}
	return m.session.backups.ValidateBackupFile(path, m.format())
}

func (m *RestoreModel) performRestore() tea.Cmd {
	path := strings.TrimSpace(m.backupFileInput.Value())
	name := strings.TrimSpace(m.nameInput.Value())
	format := m.format()
	svc, ctx, logger := m.session.backups, m.session.ctx, m.session.logger

	return func() tea.Msg {
		id, count, err := svc.Restore(ctx, path, format, name)
		if err != nil {
			logger.Error("Restore failed", "file", path, "error", err)
		}
		return RestoreCompleteMsg{Result: RestoreResult{FileID: id, FileName: name, RowCount: count, Error: err}}
	}
}

func (m *RestoreModel) reset() {
	m.state = RestoreInputState
	m.result = RestoreResult{}
	m.focusedInput = 0
	m.backupFileInput.SetValue("")
	m.nameInput.SetValue("")
}

func (m *RestoreModel) View() string {
	switch m.state {
	case RestoreInputState:
		return m.renderInputForm()
	case RestoreFileSelectState:
		return renderFilePicker("📁 Select Backup File", "No backup files found in "+m.session.backupDir, m.files, m.selectedFile)
	case ConfirmationState:
		return m.renderConfirmation()
	case RestoreProgressState:
		return titleStyle.Render("🔄 Restoring Backup...") + "\n" +
			helpStyle.Render("Please wait while rows are uploaded...")
	case RestoreResultState:
		return m.renderResult()
	}
	return ""
}

func (m *RestoreModel) renderInputForm() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("🔄 Restore Backup")
	form := adaptiveFormStyle.Render(
		labelStyle.Render("Backup File:") + "\n" + m.backupFileInput.View() + "\n\n" +
			labelStyle.Render("Dataset Name:") + "\n" + m.nameInput.View(),
	)
	help := adaptiveHelpStyle.Render("Tab/Shift+Tab: Navigate • Ctrl+F: Browse backups • Enter: Continue • Esc: Back to menu")

	return lipgloss.JoinVertical(lipgloss.Left, title, form, help)
}

func (m *RestoreModel) renderConfirmation() string {
	title := titleStyle.Render("⚠️  Confirm Restore")

	details := fmt.Sprintf(
		"Backup file: %s\nFormat: %s\nNew dataset: %s\n\nRows get new product ids.",
		m.backupFileInput.Value(),
		strings.ToUpper(m.format()),
		m.nameInput.Value(),
	)

	help := helpStyle.Render("y: Restore • n: Back to form")
	return lipgloss.JoinVertical(lipgloss.Left, title, warningStyle.Render(details), help)
}

func (m *RestoreModel) renderResult() string {
	title := titleStyle.Render("🔄 Restore Complete")

	if m.result.Error != nil {
		status := errorStyle.Render(fmt.Sprintf("❌ Restore failed: %v", m.result.Error))
		help := helpStyle.Render("Enter: Try again • Esc: Back to menu")
		return lipgloss.JoinVertical(lipgloss.Left, title, status, help)
	}

	status := successStyle.Render("✅ Restore completed successfully!")
	stats := fmt.Sprintf("📊 Restore Information:\n   Dataset id: %s\n   Rows restored: %d",
		m.result.FileID, m.result.RowCount)
	help := helpStyle.Render("Enter: Restore another file • Esc: Back to menu")
	return lipgloss.JoinVertical(lipgloss.Left, title, status, stats, help)
}
