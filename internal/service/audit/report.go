package audit

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/target/backup-audit/internal/domain/model"
)

// Render draws records as a bordered grid with one header row. Cells are centered and
// widths are measured in terminal cells, so wide runes stay aligned. Column and record
// order are kept as given.
func Render(columns []string, records []model.BackupRecord) string {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, r := range records {
		for i := range columns {
			if w := runewidth.StringWidth(cell(r.Values, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRule(&b, widths)
	writeRow(&b, widths, func(i int) string { return columns[i] })
	writeRule(&b, widths)
	for _, r := range records {
		writeRow(&b, widths, func(i int) string { return cell(r.Values, i) })
	}
	if len(records) > 0 {
		writeRule(&b, widths)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// cell returns the i-th value, blank when the row is short.
func cell(values []string, i int) string {
	if i < len(values) {
		return sanitizeCell(values[i])
	}
	return ""
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func sanitizeCell(v string) string {
	return cellReplacer.Replace(v)
}

func writeRule(b *strings.Builder, widths []int) {
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, widths []int, value func(int) string) {
	b.WriteByte('|')
	for i, w := range widths {
		v := value(i)
		pad := w - runewidth.StringWidth(v)
		left := pad / 2
		b.WriteByte(' ')
		b.WriteString(strings.Repeat(" ", left))
		b.WriteString(v)
		b.WriteString(strings.Repeat(" ", pad-left))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}
