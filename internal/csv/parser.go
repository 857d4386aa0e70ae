package csv

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/MMHameed52/Inventory-Tracker/internal/models"
)

// Parsed is the result of splitting CSV text into a header and rows.
type Parsed struct {
	Headers []string
	Rows    []models.Row
}

type Parser struct {
	filename string
}

func NewParser(filename string) *Parser {
	return &Parser{filename: filename}
}

// Parse reads the whole file as text and parses it with ParseText.
func (p *Parser) Parse() (Parsed, error) {
	content, err := os.ReadFile(p.filename)
	if err != nil {
		return Parsed{}, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return ParseText(string(content)), nil
}

// ParseText splits text on newlines and commas. The first line is the
// header. Values are positional: a short line leaves its trailing columns
// unset and extra values are dropped. Quoted fields are not recognised, so
// a comma always separates values.
//
// Text without a newline loses its last character to the header and is
// parsed again as the body.
func ParseText(text string) Parsed {
	_, last := utf8.DecodeLastRuneInString(text)
	headerLine, body := text[:len(text)-last], text
	if i := strings.Index(text, "\n"); i >= 0 {
		headerLine, body = text[:i], text[i+1:]
	}

	headers := strings.Split(headerLine, ",")

	rows := make([]models.Row, 0)
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, ",")

		row := models.NewRow(headers...)
		for i, header := range headers {
			if i < len(values) {
				row.Set(header, values[i])
			} else {
				row.Unset(header)
			}
		}
		rows = append(rows, row)
	}

	return Parsed{Headers: headers, Rows: rows}
}
