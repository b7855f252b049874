package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderSummary formats a result summary as a heading line and a table.
func renderSummary(summary *types.ResultSummary) string {
	heading := fmt.Sprintf("%s (%s, %s)", summary.Path, summary.Kind, humanize.Bytes(uint64(summary.Size)))

	switch summary.Kind {
	case "xlsx":
		rows := make([][]string, 0, len(summary.Sheets))
		for _, sheet := range summary.Sheets {
			headerRow := "-"
			if sheet.HeaderRow >= 0 {
				headerRow = strconv.Itoa(sheet.HeaderRow + 1)
			}
			rows = append(rows, []string{
				sheet.Name,
				headerRow,
				strconv.Itoa(sheet.Rows),
				strconv.Itoa(sheet.Columns),
				truncate(strings.Join(sheet.Headers, ", "), 60),
			})
		}
		return heading + "\n" + renderTable(
			[]string{"Sheet", "Header row", "Rows", "Columns", "Headers"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
		)
	case "json":
		return heading + "\n" + renderTable(
			[]string{"Top level", "Items", "Keys"},
			[][]string{{summary.TopLevel, strconv.Itoa(summary.Items), truncate(strings.Join(summary.Keys, ", "), 60)}},
			[]columnAlignment{alignLeft, alignRight, alignLeft},
		)
	}
	return heading
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
