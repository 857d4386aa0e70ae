package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type UploadState int

const (
	UploadInputState UploadState = iota
	UploadFileSelectState
)

type UploadModel struct {
	session      *session
	state        UploadState
	csvFileInput textinput.Model
	files        []string
	selectedFile int
	lastUploaded string
	width        int
	height       int
}

func NewUploadModel(s *session) *UploadModel {
	csvInput := textinput.New()
	csvInput.Placeholder = "path/to/file.csv"

	return &UploadModel{
		session:      s,
		state:        UploadInputState,
		csvFileInput: csvInput,
	}
}

func (m *UploadModel) Init() tea.Cmd {
	return m.csvFileInput.Focus()
}

func (m *UploadModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case UploadInputState:
			return m.updateInputState(msg)
		case UploadFileSelectState:
			return m.updateFileSelectState(msg)
		}

	case uploadParsedMsg:
		if msg.err != nil {
			return m, nil
		}
		ctrl, upload := m.session.ctrl, msg.upload
		return m, m.session.run(opUpload, func(ctx context.Context) (controller.State, error) {
			return ctrl.SendUpload(ctx, upload)
		})

	case StateMsg:
		if msg.Op == opUpload && msg.Err == nil {
			m.lastUploaded = filepath.Base(msg.State.SelectedFile)
			m.csvFileInput.SetValue("")
		}
	}
	return m, nil
}

func (m *UploadModel) updateInputState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+f":
		return m.browseFiles()
	case "enter":
		path := strings.TrimSpace(m.csvFileInput.Value())
		if path == "" {
			return m, nil
		}
		m.session.ctrl.SetFile(path)
		return m, m.session.parse()
	}

	var cmd tea.Cmd
	m.csvFileInput, cmd = m.csvFileInput.Update(msg)
	return m, cmd
}

func (m *UploadModel) updateFileSelectState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			m.csvFileInput.SetValue(m.files[m.selectedFile])
			m.state = UploadInputState
		}
	case "esc":
		m.state = UploadInputState
	}
	return m, nil
}

func (m *UploadModel) browseFiles() (tea.Model, tea.Cmd) {
	cwd, err := os.Getwd()
	if err != nil {
		return m, ShowError(err)
	}
	files, err := filepath.Glob(filepath.Join(cwd, "*.csv"))
	if err != nil {
		return m, ShowError(err)
	}

	for i, file := range files {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			files[i] = rel
		}
	}

	m.files = files
	m.selectedFile = 0
	m.state = UploadFileSelectState
	return m, nil
}

func (m *UploadModel) View() string {
	if m.state == UploadFileSelectState {
		return renderFilePicker("📁 Select CSV File", "No CSV files found in current directory", m.files, m.selectedFile)
	}

	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("📥 Upload CSV")
	form := adaptiveFormStyle.Render(
		labelStyle.Render("CSV File:") + "\n" + m.csvFileInput.View(),
	)

	parts := []string{title, form}
	if m.lastUploaded != "" {
		parts = append(parts, successStyle.Render("Last upload: "+m.lastUploaded))
	}
	if headers := m.session.ctrl.State().HeaderKeys; len(headers) > 0 {
		parts = append(parts, helpStyle.Margin(0).Render("Columns: "+strings.Join(headers, ", ")))
	}
	parts = append(parts, adaptiveHelpStyle.Render("Ctrl+F: Browse files • Enter: Upload • Esc: Back to menu"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderFilePicker(heading, empty string, files []string, selected int) string {
	title := titleStyle.Render(heading)

	if len(files) == 0 {
		content := warningStyle.Render(empty)
		help := helpStyle.Render("Esc: Back to form")
		return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
	}

	var fileList string
	for i, file := range files {
		cursor := " "
		style := menuItemStyle
		if i == selected {
			cursor = ">"
			style = selectedMenuItemStyle
		}
		fileList += fmt.Sprintf("%s %s\n", cursor, style.Render(file))
	}

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • Esc: Cancel")
	return lipgloss.JoinVertical(lipgloss.Left, title, fileList, help)
}
