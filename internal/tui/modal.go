package tui

import (
	"github.com/MMHameed52/Inventory-Tracker/internal/controller"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SellRequestMsg asks the root model to prompt for a sale quantity.
type SellRequestMsg struct {
	ProductID    any
	AvailableQty any
	Price        any
}

func requestSell(productID, availableQty, price any) tea.Cmd {
	return func() tea.Msg {
		return SellRequestMsg{ProductID: productID, AvailableQty: availableQty, Price: price}
	}
}

type promptModel struct {
	request SellRequestMsg
	message string
	input   textinput.Model
}

func newPromptModel(req SellRequestMsg) *promptModel {
	input := textinput.New()
	input.Placeholder = "quantity"
	input.CharLimit = 12
	return &promptModel{
		request: req,
		message: controller.QuantityPrompt(req.AvailableQty),
		input:   input,
	}
}

func (p *promptModel) View(width int) string {
	body := labelStyle.Render(p.message) + "\n\n" + inputStyle.Render(p.input.View()) + "\n\n" +
		helpStyle.Margin(0).Render("Enter: Sell • Esc: Cancel")
	return modalStyle(width).Render(body)
}

func renderAlert(message string, width int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		successStyle.Render(message),
		"",
		helpStyle.Margin(0).Render("Press Enter to close"),
	)
	return modalStyle(width).Render(body)
}

func modalStyle(width int) lipgloss.Style {
	style := formStyle
	if width > 0 {
		w := width / 2
		if w < 40 {
			w = 40
		}
		style = style.Width(w)
	}
	return style
}
