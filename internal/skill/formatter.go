package skill

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/samhoang/skilo/internal/config"
)

// FormatterConfig controls Formatter output
type FormatterConfig struct {
	// SortFrontmatter rewrites the frontmatter in canonical key order.
	// When false the original frontmatter text is kept.
	SortFrontmatter bool
	IndentSize      int
	FormatTables    bool
}

// DefaultFormatterConfig returns the formatter defaults
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{SortFrontmatter: true, IndentSize: 2, FormatTables: true}
}

// FormatterConfigFrom converts the [fmt] config section
func FormatterConfigFrom(c config.FmtConfig) FormatterConfig {
	return FormatterConfig{
		SortFrontmatter: c.SortFrontmatter,
		IndentSize:      c.IndentSize,
		FormatTables:    c.FormatTables,
	}
}

// Formatter produces the canonical text of a SKILL.md file
type Formatter struct {
	cfg FormatterConfig
}

// NewFormatter creates a Formatter
func NewFormatter(cfg FormatterConfig) *Formatter {
	return &Formatter{cfg: cfg}
}

// Format returns the formatted content of m
func (f *Formatter) Format(m *Manifest) (string, error) {
	var header string
	if f.cfg.SortFrontmatter {
		yml, err := m.Frontmatter.toYAML(f.cfg.IndentSize)
		if err != nil {
			return "", err
		}
		header = yml
	} else if raw := strings.TrimSpace(m.FrontmatterRaw); raw != "" {
		header = raw + "\n"
	}

	body := m.Body
	if f.cfg.FormatTables {
		body = FormatTables(body)
	}

	return fmt.Sprintf("---\n%s---\n\n%s", header, body), nil
}

type alignment int

const (
	alignNone alignment = iota
	alignLeft
	alignCenter
	alignRight
)

const minColumnWidth = 3

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

// FormatTables aligns the columns of every markdown pipe table in text.
// Lines outside tables, and tables inside fenced code blocks, are left
// untouched. A trailing newline is kept only if text had one.
func FormatTables(text string) string {
	lines := strings.Split(text, "\n")
	trailingNewline := strings.HasSuffix(text, "\n")
	if trailingNewline {
		lines = lines[:len(lines)-1]
	}

	out := make([]string, 0, len(lines))
	changed := false
	var fence string

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if marker := fenceMarker(line); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(marker, fence):
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if fence != "" || i+1 >= len(lines) {
			out = append(out, line)
			continue
		}

		header := splitRow(line)
		aligns, ok := parseSeparator(lines[i+1])
		if header == nil || !ok || len(aligns) != len(header) {
			out = append(out, line)
			continue
		}

		t := &table{aligns: aligns, rows: [][]string{cleanRow(header, len(aligns))}}
		end := i + 2
		for ; end < len(lines); end++ {
			if strings.TrimSpace(lines[end]) == "" || !strings.Contains(lines[end], "|") {
				break
			}
			t.rows = append(t.rows, cleanRow(splitRow(lines[end]), len(aligns)))
		}

		out = append(out, t.format()...)
		changed = true
		i = end - 1
	}

	if !changed {
		return text
	}

	result := strings.Join(out, "\n")
	if trailingNewline {
		result += "\n"
	}
	return result
}

func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	for _, ch := range []string{"`", "~"} {
		n := 0
		for n < len(trimmed) && trimmed[n] == ch[0] {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}

// splitRow splits a pipe table row on unescaped pipes. It returns nil for
// lines that cannot be table rows.
func splitRow(line string) []string {
	s := strings.TrimSpace(line)
	if !strings.Contains(s, "|") {
		return nil
	}
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, `\|`) {
		s = s[:len(s)-1]
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			cur.WriteString(`\|`)
			i++
		case s[i] == '|':
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(s[i])
		}
	}
	cells = append(cells, cur.String())
	return cells
}

func parseSeparator(line string) ([]alignment, bool) {
	cells := splitRow(line)
	if cells == nil {
		return nil, false
	}
	aligns := make([]alignment, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if !separatorCell.MatchString(c) {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			aligns[i] = alignCenter
		case left:
			aligns[i] = alignLeft
		case right:
			aligns[i] = alignRight
		default:
			aligns[i] = alignNone
		}
	}
	return aligns, true
}

var (
	strongPattern = regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`)
	emPattern     = regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`)
)

// cleanRow trims cells, drops emphasis markers outside code spans, and
// fits the row to the header's column count.
func cleanRow(cells []string, columns int) []string {
	row := make([]string, columns)
	for i := 0; i < columns && i < len(cells); i++ {
		row[i] = cleanCell(cells[i])
	}
	return row
}

func cleanCell(cell string) string {
	parts := strings.Split(strings.TrimSpace(cell), "`")
	// even indexes are outside code spans; text after an unbalanced
	// backtick is left untouched
	for i := 0; i < len(parts); i += 2 {
		if i == len(parts)-1 && len(parts)%2 == 0 {
			break
		}
		p := strongPattern.ReplaceAllString(parts[i], "$2")
		parts[i] = emPattern.ReplaceAllString(p, "$1")
	}
	return strings.TrimSpace(strings.Join(parts, "`"))
}

type table struct {
	aligns []alignment
	rows   [][]string
}

func (t *table) format() []string {
	widths := make([]int, len(t.aligns))
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, t.formatRow(t.rows[0], widths))

	var sep strings.Builder
	sep.WriteString("|")
	for i, w := range widths {
		sep.WriteString(separator(w, t.aligns[i]))
		sep.WriteString("|")
	}
	lines = append(lines, sep.String())

	for _, row := range t.rows[1:] {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

func (t *table) formatRow(row []string, widths []int) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		b.WriteString(" ")
		b.WriteString(pad(row[i], w, t.aligns[i]))
		b.WriteString(" |")
	}
	return b.String()
}

func pad(cell string, width int, a alignment) string {
	gap := width - runewidth.StringWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch a {
	case alignRight:
		return strings.Repeat(" ", gap) + cell
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

func separator(width int, a alignment) string {
	total := width + 2
	switch a {
	case alignLeft:
		return ":" + strings.Repeat("-", total-1)
	case alignRight:
		return strings.Repeat("-", total-1) + ":"
	case alignCenter:
		return ":" + strings.Repeat("-", total-2) + ":"
	default:
		return strings.Repeat("-", total)
	}
}
