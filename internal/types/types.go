package types

import "path/filepath"

// SelectedFile is a local file chosen by the user. A nil *SelectedFile means
// nothing was selected.
type SelectedFile struct {
	Path string
	Name string
}

type SheetSummary struct {
	Name      string
	HeaderRow int
	Headers   []string
	Rows      int
	Columns   int
}

// ResultSummary describes a downloaded conversion result.
type ResultSummary struct {
	Path   string
	Kind   string
	Size   int64
	Sheets []SheetSummary
	// JSON results only
	TopLevel string
	Keys     []string
	Items    int
}

// NewSelectedFile returns a SelectedFile for path, or nil when path is empty.
func NewSelectedFile(path string) *SelectedFile {
	if path == "" {
		return nil
	}
	return &SelectedFile{Path: path, Name: filepath.Base(path)}
}
