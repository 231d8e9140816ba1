package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

type blockKind uint8

const (
	blockParagraph blockKind = iota
	blockHeader
	blockList
	blockTable
	blockCode
	blockQuote
	blockRule
)

// block is one top-level node produced by scanBlocks.
type block struct {
	kind    blockKind
	level   int
	ordered bool
	lang    string
	lines   []string
	table   *table
}

var (
	headerPattern   = regexp.MustCompile(`^(#{1,6})[ \t]+(.*)$`)
	listItemPattern = regexp.MustCompile(`^[ \t]*([-*+]|[0-9]+\.)[ \t]+(.*)$`)
)

const fence = "```"

// scanBlocks tokenizes lines into blocks in a single forward pass. Code fences
// are captured first on each line so nothing inside them is reinterpreted.
func scanBlocks(lines []string, opts Options) []block {
	var (
		blocks    []block
		paragraph []string
	)
	flush := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, block{kind: blockParagraph, lines: paragraph})
			paragraph = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}

		if strings.HasPrefix(trimmed, fence) {
			flush()
			code, next := scanFence(lines, i)
			blocks = append(blocks, code)
			i = next
			continue
		}

		if tbl, next, ok := scanTable(lines, i); ok {
			flush()
			blocks = append(blocks, block{kind: blockTable, table: tbl})
			i = next
			continue
		}

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()
			blocks = append(blocks, block{kind: blockHeader, level: len(m[1]), lines: []string{strings.TrimSpace(m[2])}})
			continue
		}

		if isRule(trimmed, opts) {
			flush()
			blocks = append(blocks, block{kind: blockRule})
			continue
		}

		if strings.HasPrefix(trimmed, ">") {
			flush()
			blocks = append(blocks, block{kind: blockQuote, lines: []string{strings.TrimSpace(trimmed[1:])}})
			continue
		}

		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			flush()
			list := block{kind: blockList, ordered: isOrderedMarker(m[1])}
			for ; i < len(lines); i++ {
				item := listItemPattern.FindStringSubmatch(lines[i])
				if item == nil || isRule(strings.TrimSpace(lines[i]), opts) {
					break
				}
				list.lines = append(list.lines, strings.TrimSpace(item[2]))
			}
			i--
			blocks = append(blocks, list)
			continue
		}

		paragraph = append(paragraph, line)
	}
	flush()
	return blocks
}

// scanFence captures a fenced code block opened at lines[start]. It returns
// the block and the index of the closing fence. An unterminated fence takes
// the rest of the document.
func scanFence(lines []string, start int) (block, int) {
	info := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[start]), fence))
	lang := "text"
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}

	code := block{kind: blockCode, lang: lang}
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			return code, i
		}
		code.lines = append(code.lines, lines[i])
	}
	return code, len(lines)
}

func isRule(trimmed string, opts Options) bool {
	if trimmed == "---" {
		return true
	}
	return trimmed == "***" && !opts.StrictRules
}

func isOrderedMarker(marker string) bool {
	_, err := strconv.Atoi(strings.TrimSuffix(marker, "."))
	return err == nil && strings.HasSuffix(marker, ".")
}

func (b block) render(opts Options) string {
	switch b.kind {
	case blockHeader:
		tag := "h" + strconv.Itoa(b.level)
		return "<" + tag + ">" + renderInline(b.lines[0]) + "</" + tag + ">"
	case blockRule:
		return "<hr>"
	case blockQuote:
		return "<blockquote>" + renderInline(b.lines[0]) + "</blockquote>"
	case blockCode:
		return `<pre><code class="language-` + escapeHTML(b.lang) + `">` +
			escapeHTML(strings.Join(b.lines, "\n")) + "</code></pre>"
	case blockTable:
		return b.table.render()
	case blockList:
		return renderList(b)
	default:
		return renderParagraph(b.lines, opts)
	}
}

func renderList(b block) string {
	tag := "ul"
	if b.ordered {
		tag = "ol"
	}
	var sb strings.Builder
	sb.WriteString("<" + tag + ">\n")
	for _, item := range b.lines {
		sb.WriteString("<li>")
		sb.WriteString(renderInline(item))
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func renderParagraph(lines []string, opts Options) string {
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		// Lines made only of stripped control bytes render to nothing.
		if html := renderInline(line); strings.TrimSpace(html) != "" {
			rendered = append(rendered, html)
		}
	}
	if len(rendered) == 0 {
		return ""
	}
	if startsWithBlockTag(lines[0]) {
		return strings.Join(rendered, "\n")
	}
	sep := "\n"
	if opts.HardWraps {
		sep = "<br>\n"
	}
	return "<p>" + strings.Join(rendered, sep) + "</p>"
}
