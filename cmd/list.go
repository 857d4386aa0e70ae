package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded CSV files",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ctrl := newController(newClient())
	state, err := ctrl.LoadCsvList(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(state.CsvList) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No files uploaded yet")
		return nil
	}

	rows := make([][]string, 0, len(state.CsvList))
	for _, f := range state.CsvList {
		rows = append(rows, []string{f.ID.String(), f.FileName})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "File Name"}, rows))
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
