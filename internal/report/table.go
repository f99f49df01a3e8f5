// Package report renders search results for terminals.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ademicho123/Retail-Arbitrage/internal/models"
)

// MaxTitleWidth truncates long product titles in the table.
const MaxTitleWidth = 48

var headers = []string{"#", "Title", "Price", "Profit", "Margin %", "Recommend", "Rating", "Reviews"}

// Rows converts listings into table cells, one row per listing.
func Rows(listings []models.PriceListing) [][]string {
	rows := make([][]string, 0, len(listings))
	for i, l := range listings {
		recommend := "no"
		if l.Recommend {
			recommend = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			runewidth.Truncate(escapeCell(l.Title), MaxTitleWidth, "…"),
			money(l.Price),
			money(l.Profit),
			strconv.FormatFloat(l.ProfitMargin, 'f', 2, 64),
			recommend,
			escapeCell(l.Rating),
			escapeCell(l.Reviews),
		})
	}
	return rows
}

// Table renders a markdown table padded by display width, so wide
// characters in titles keep columns aligned.
func Table(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(content, colWidths[j]))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for _, w := range colWidths {
		sb.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// Write prints a search result: the failure if there is one, otherwise the
// base price followed by the listings table.
func Write(w io.Writer, result *models.SearchResult) error {
	if result == nil {
		return fmt.Errorf("no result")
	}

	if result.SearchTerm != "" {
		if _, err := fmt.Fprintf(w, "Search term: %s\n", result.SearchTerm); err != nil {
			return err
		}
	}

	if result.HasError() {
		msg := "Error: " + result.Error
		if result.ErrorKind != "" {
			msg += " (" + result.ErrorKind + ")"
		}
		if result.Details != "" {
			msg += "\n" + result.Details
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	if _, err := fmt.Fprintf(w, "Base price: %s\n\n", money(result.BasePrice)); err != nil {
		return err
	}
	_, err := io.WriteString(w, Table(headers, Rows(result.Prices)))
	return err
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// escapeCell keeps pipes and newlines in scraped text from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
