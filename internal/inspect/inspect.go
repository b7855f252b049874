// Package inspect summarizes conversion results stored on disk.
package inspect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/xuri/excelize/v2"
)

const RowDetectionLimit = 10

// Summarize reads the file at path and describes its contents.
func Summarize(path string) (*types.ResultSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var summary *types.ResultSummary
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		summary, err = summarizeWorkbook(path)
	case ".json":
		summary, err = summarizeJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	summary.Path = path
	summary.Size = info.Size()
	return summary, nil
}

func summarizeWorkbook(path string) (*types.ResultSummary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	summary := &types.ResultSummary{Kind: "xlsx"}
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		summary.Sheets = append(summary.Sheets, summarizeSheet(sheetName, rows))
	}
	return summary, nil
}

func summarizeSheet(name string, rows [][]string) types.SheetSummary {
	sheet := types.SheetSummary{Name: name, HeaderRow: -1}

	for _, row := range rows {
		if len(row) > sheet.Columns {
			sheet.Columns = len(row)
		}
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		sheet.Rows = countNonEmpty(rows)
		return sheet
	}

	sheet.HeaderRow = headerRowIdx
	sheet.Headers = rows[headerRowIdx]
	sheet.Rows = countNonEmpty(rows[headerRowIdx+1:])
	return sheet
}

func countNonEmpty(rows [][]string) int {
	n := 0
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				n++
				break
			}
		}
	}
	return n
}

func summarizeJSON(path string) (*types.ResultSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	summary := &types.ResultSummary{Kind: "json"}
	switch v := doc.(type) {
	case map[string]any:
		summary.TopLevel = "object"
		for k := range v {
			summary.Keys = append(summary.Keys, k)
		}
		sort.Strings(summary.Keys)
		summary.Items = len(v)
	case []any:
		summary.TopLevel = "array"
		summary.Items = len(v)
	case string:
		summary.TopLevel = "string"
	case float64:
		summary.TopLevel = "number"
	case bool:
		summary.TopLevel = "boolean"
	default:
		summary.TopLevel = "null"
	}
	return summary, nil
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := len(rows)
	if searchLimit > RowDetectionLimit*2 {
		searchLimit = RowDetectionLimit * 2
	}

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
