package ui

import (
	"fmt"
	"strings"

	"github.com/nconklindev/sheetrelay/internal/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

func (m Model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateFilePicker:
		return m.viewFilePicker()
	case stateProcessing:
		return m.viewProcessing()
	}
	return ""
}

func (m Model) viewMenu() string {
	var s strings.Builder

	title := TitleStyle.Render("⇄ sheetrelay - Excel / JSON converter")
	server := SubtitleStyle.Render("Service: " + m.runner.BaseURL())
	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, server))
	s.WriteString("\n")

	for i, d := range m.directions {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		file := "no file selected"
		if sel := m.selected[d.Key]; sel != nil {
			file = sel.Name
		}

		line := fmt.Sprintf("%s [%s] %s", cursor, d.Title, file)
		if m.cursor == i {
			line = SelectedStyle.Render(line)
		} else {
			line = UnselectedStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	if links := m.viewLinks(); links != "" {
		s.WriteString("\n")
		s.WriteString(links)
	}

	if m.page.Message != "" {
		s.WriteString("\n")
		s.WriteString(SuccessStyle.Render("✓ " + m.page.Message))
		s.WriteString("\n")
	}

	if m.page.Error != "" {
		s.WriteString("\n")
		s.WriteString(ErrorStyle.Render("✗ " + m.page.Error))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render("↑/↓: navigate • f: choose file • x: clear file • enter: send • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewLinks() string {
	var s strings.Builder

	for _, d := range m.directions {
		link, ok := m.page.Link(d.Key)
		if !ok {
			continue
		}

		s.WriteString(CheckedStyle.Render(link.Label))
		s.WriteString(" ")
		s.WriteString(LinkStyle.Render(link.Href))
		s.WriteString("\n")

		if summary := m.summaries[d.Key]; summary != nil {
			s.WriteString(SubtitleStyle.Render("  " + describe(summary)))
			s.WriteString("\n")
		}
	}

	return s.String()
}

// describe renders a one-line summary of a stored result.
func describe(summary *types.ResultSummary) string {
	size := humanize.Bytes(uint64(summary.Size))

	switch summary.Kind {
	case "xlsx":
		rows := 0
		for _, sheet := range summary.Sheets {
			rows += sheet.Rows
		}
		return fmt.Sprintf("%s • %d sheet(s) • %d row(s)", size, len(summary.Sheets), rows)
	case "json":
		if summary.TopLevel == "object" {
			return fmt.Sprintf("%s • object with %d key(s)", size, summary.Items)
		}
		if summary.TopLevel == "array" {
			return fmt.Sprintf("%s • array of %d item(s)", size, summary.Items)
		}
		return fmt.Sprintf("%s • %s", size, summary.TopLevel)
	}
	return size
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("⇄ " + m.active.Title))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a " + strings.Join(m.active.AllowedTypes, " or ") + " file"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: select • tab: back • q: quit"))

	return s.String()
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("⇄ " + m.active.Title))
	s.WriteString("\n\n")
	s.WriteString("Uploading to " + m.runner.BaseURL() + m.active.Endpoint + "...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}
