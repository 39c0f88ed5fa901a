// Package pdfdoc renders the store terms as a paginated PDF document.
package pdfdoc

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	wrapWidth    = 70
	linesPerPage = 35
)

// Wrap splits a line into chunks of at most width characters, breaking on
// spaces. Single words longer than the width stay on their own line.
func Wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}

	var out []string
	var current string
	for _, word := range strings.Fields(line) {
		if current == "" {
			current = word
			continue
		}
		if len([]rune(current))+1+len([]rune(word)) <= width {
			current += " " + word
		} else {
			out = append(out, current)
			current = word
		}
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// Render turns free text into PDF bytes: a title, the creation date and the
// wrapped content, with a page break after a fixed number of lines.
// Characters outside the document encoding are replaced, never rejected.
func Render(content string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(100, 60, tr("УМОВИ ВИКОРИСТАННЯ МАГАЗИНУ"))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(100, 90, tr("Дата створення: "+time.Now().Format("02.01.2006")))

	pdf.SetFont("Helvetica", "", 12)
	y := 130.0
	lines := 0
	for _, raw := range strings.Split(content, "\n") {
		for _, line := range Wrap(raw, wrapWidth) {
			if lines >= linesPerPage {
				pdf.AddPage()
				pdf.SetFont("Helvetica", "", 12)
				y = 60.0
				lines = 0
			}
			pdf.Text(100, y, tr(line))
			y += 20
			lines++
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
