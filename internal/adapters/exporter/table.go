package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth ограничивает ширину колонки; длинные значения переносятся по словам.
const maxCellWidth = 40

// table - текстовая таблица с выравниванием по видимой ширине символов.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render печатает таблицу в формате
//
//	| Name  | Count |
//	|-------|-------|
//	| Alice | 3     |
func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], min(runewidth.StringWidth(row[i]), maxCellWidth))
			}
		}
	}

	fmt.Fprintf(w, "--- %s ---\n", t.title)
	writeRow(w, t.headers, widths)

	var sep strings.Builder
	for _, width := range widths {
		sep.WriteString("|")
		sep.WriteString(strings.Repeat("-", width+2))
	}
	sep.WriteString("|\n")
	io.WriteString(w, sep.String())

	if len(t.rows) == 0 {
		fmt.Fprintln(w, "(нет данных)")
	}
	for _, row := range t.rows {
		writeRow(w, row, widths)
	}
	fmt.Fprintln(w)
}

// writeRow печатает строку таблицы; ячейка может занять несколько строк.
func writeRow(w io.Writer, cells []string, widths []int) {
	wrapped := make([][]string, len(widths))
	lines := 1
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = strings.ReplaceAll(cells[i], "\n", " ")
		}
		wrapped[i] = wrapString(cell, width)
		lines = max(lines, len(wrapped[i]))
	}

	for line := 0; line < lines; line++ {
		var sb strings.Builder
		for i, width := range widths {
			part := ""
			if line < len(wrapped[i]) {
				part = wrapped[i][line]
			}
			sb.WriteString("| ")
			sb.WriteString(part)
			sb.WriteString(generatePadding(part, width))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
		io.WriteString(w, sb.String())
	}
}

// generatePadding вычисляет отступ до нужной ширины с учетом широких символов и эмодзи.
func generatePadding(s string, colWidth int) string {
	if paddingNeeded := colWidth - runewidth.StringWidth(s); paddingNeeded > 0 {
		return strings.Repeat(" ", paddingNeeded)
	}
	return ""
}

// wrapString переносит строку по границам слов. Слово длиннее ширины
// разрывается посередине.
func wrapString(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	var lines []string
	var currentLine strings.Builder
	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)

		if wordWidth > width {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
			lines = append(lines, splitRunes(word, width)...)
			continue
		}

		lineLen := runewidth.StringWidth(currentLine.String())
		if lineLen > 0 && lineLen+1+wordWidth > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func splitRunes(word string, width int) []string {
	var lines []string
	runes := []rune(word)
	for len(runes) > 0 {
		i, currentWidth := 0, 0
		for i < len(runes) {
			rw := runewidth.RuneWidth(runes[i])
			if currentWidth+rw > width && i > 0 {
				break
			}
			currentWidth += rw
			i++
		}
		lines = append(lines, string(runes[:i]))
		runes = runes[i:]
	}
	return lines
}

// bar рисует горизонтальную полосу длиной, пропорциональной value.
func bar(value, maxValue, width int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
