package tui

import (
	"errors"

	"github.com/MMHameed52/Inventory-Tracker/internal/controller"
	"github.com/MMHameed52/Inventory-Tracker/internal/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var draftFields = []string{
	models.ColProductName,
	models.ColBarcode,
	models.ColPrice,
	models.ColQty,
}

// AppendModel is the add-product form. Every keystroke goes through the
// controller. A numeric field keeps a partly typed number on screen while
// it has focus and shows the stored draft once focus moves on.
type AppendModel struct {
	session      *session
	state        controller.State
	inputs       []textinput.Model
	focusedInput int
	warning      string
	width        int
	height       int
}

func NewAppendModel(s *session) *AppendModel {
	inputs := make([]textinput.Model, len(draftFields))
	for i, field := range draftFields {
		in := textinput.New()
		in.Placeholder = field
		inputs[i] = in
	}
	inputs[2].Placeholder = "$0.00"

	m := &AppendModel{session: s, inputs: inputs}
	m.syncInputs(s.ctrl.State().Draft, -1)
	return m
}

func (m *AppendModel) Init() tea.Cmd {
	m.warning = ""
	m.focusedInput = 0
	return m.updateInputFocus()
}

func (m *AppendModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppendModel) SetState(state controller.State) {
	m.state = state
}

func (m *AppendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateInputs(msg)
	case StateMsg:
		if msg.Op == opAppend && errors.Is(msg.Err, controller.ErrNoSelection) {
			m.warning = "Select a file on the Browse screen first"
		}
	}
	return m, nil
}

func (m *AppendModel) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusedInput = (m.focusedInput + 1) % len(m.inputs)
		m.syncInputs(m.session.ctrl.State().Draft, -1)
		return m, m.updateInputFocus()
	case "shift+tab", "up":
		m.focusedInput = (m.focusedInput - 1 + len(m.inputs)) % len(m.inputs)
		m.syncInputs(m.session.ctrl.State().Draft, -1)
		return m, m.updateInputFocus()
	case "enter":
		m.warning = ""
		return m, m.session.run(opAppend, m.session.ctrl.AppendProduct)
	}

	field := draftFields[m.focusedInput]
	input := &m.inputs[m.focusedInput]
	previous := input.Value()

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() == previous {
		return m, cmd
	}
	if numericField(field) && !models.NumericPrefix(input.Value()) {
		input.SetValue(previous)
		input.CursorEnd()
		return m, cmd
	}

	state, err := m.session.ctrl.UpdateDraftField(field, input.Value())
	if err != nil {
		m.session.logger.Error("Error updating draft", "field", field, "error", err)
		return m, cmd
	}

	keep := -1
	if numericField(field) {
		keep = m.focusedInput
	}
	m.syncInputs(state.Draft, keep)
	return m, cmd
}

func numericField(field string) bool {
	return field == models.ColBarcode || field == models.ColQty
}

// syncInputs shows the stored draft in every input except keep. The price
// is shown with its symbol once anything has been entered.
func (m *AppendModel) syncInputs(draft models.ProductDraft, keep int) {
	values := []string{draft.ProductName, draft.Barcode, draft.DisplayPrice(), draft.Qty}
	if draft.Price == "" {
		values[2] = ""
	}
	for i, v := range values {
		if i != keep && m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
			m.inputs[i].CursorEnd()
		}
	}
}

func (m *AppendModel) updateInputFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focusedInput {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *AppendModel) View() string {
	adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("➕ Add Product")

	target := warningStyle.Render("No file selected")
	for _, f := range m.state.CsvList {
		if f.ID == m.state.SelectedFileID {
			target = successStyle.Render("Adding to: " + f.FileName)
			break
		}
	}

	var body string
	for i, field := range draftFields {
		if i > 0 {
			body += "\n\n"
		}
		body += labelStyle.Render(field+":") + "\n" + m.inputs[i].View()
	}
	form := adaptiveFormStyle.Render(body)

	parts := []string{title, target, form}
	if m.warning != "" {
		parts = append(parts, warningStyle.Render(m.warning))
	}
	parts = append(parts, adaptiveHelpStyle.Render("Tab/Shift+Tab: Navigate • Enter: Add product • Esc: Back to menu"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
