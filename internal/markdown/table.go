package markdown

import (
	"strings"
)

// table is the intermediate form of a pipe table. Rows keep their own cell
// count; nothing is padded or truncated to match the header.
type table struct {
	header []string
	rows   [][]string
}

// scanTable recognises a header row, a separator row and at least one body
// row starting at lines[start]. It returns the index of the last consumed
// line.
func scanTable(lines []string, start int) (*table, int, bool) {
	if start+2 >= len(lines) {
		return nil, start, false
	}
	if !isTableRow(lines[start]) || !isTableSeparator(lines[start+1]) || !isTableRow(lines[start+2]) {
		return nil, start, false
	}

	tbl := &table{header: splitCells(lines[start])}
	end := start + 2
	for i := start + 2; i < len(lines) && isTableRow(lines[i]); i++ {
		tbl.rows = append(tbl.rows, splitCells(lines[i]))
		end = i
	}
	return tbl, end, true
}

func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && strings.Contains(trimmed, "|") && !strings.HasPrefix(trimmed, fence)
}

func isTableSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") || !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitCells splits a row on "|", trims each cell and drops the empty cells
// produced by leading and trailing pipes.
func splitCells(line string) []string {
	cells := strings.Split(strings.TrimSpace(line), "|")
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func zebraClass(index int) string {
	if index%2 == 0 {
		return "row-even"
	}
	return "row-odd"
}

func (t *table) render() string {
	var sb strings.Builder
	sb.WriteString("<table>\n<thead>\n<tr>")
	for _, cell := range t.header {
		sb.WriteString("<th>" + renderInline(cell) + "</th>")
	}
	sb.WriteString("</tr>\n</thead>\n<tbody>\n")
	for i, row := range t.rows {
		sb.WriteString(`<tr class="` + zebraClass(i) + `">`)
		for _, cell := range row {
			sb.WriteString("<td>" + renderInline(cell) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>")
	return sb.String()
}
