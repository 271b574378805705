package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/wikiscrape"
)

// Upper bounds for span attributes, as clamped by HTML parsers.
const (
	maxColSpan = 1000
	maxRowSpan = 65534
)

var (
	captionSel = cascadia.MustCompile("caption")
	rowSel     = cascadia.MustCompile("tr")
	cellSel    = cascadia.MustCompile("th, td")
	headSel    = cascadia.MustCompile("th")
)

// ExtractTables converts every table in the region, nested ones included,
// in document order. The region must not have had its tables removed.
func ExtractTables(region *goquery.Selection) []wikiscrape.Table {
	tables := []wikiscrape.Table{}
	region.FindMatcher(tableSel).Each(func(_ int, t *goquery.Selection) {
		tables = append(tables, ExtractTable(t))
	})
	return tables
}

// ExtractTable flattens a single table element.
//
// Rows are laid out on a span grid: colspan repeats a cell's text across
// the spanned columns and rowspan carries it down into the following rows
// at the same columns. The first row made only of th cells becomes the
// header; later all-th rows and rows marked noprint are skipped. Once a
// header exists every data row is padded or truncated to its width.
func ExtractTable(t *goquery.Selection) wikiscrape.Table {
	table := wikiscrape.Table{
		Headers: []string{},
		Rows:    [][]string{},
	}

	if caption := wikiscrape.Normalize(t.ChildrenMatcher(captionSel).First().Text()); caption != "" {
		table.Caption = &caption
	}

	var (
		grid        spanGrid
		rows        [][]string
		headerFound bool
	)
	for _, tr := range tableRows(t) {
		cells := tr.ChildrenMatcher(cellSel)
		expanded := grid.expand(cells)

		allHeader := cells.Length() > 0 && cells.FilterMatcher(headSel).Length() == cells.Length()
		switch {
		case allHeader && !headerFound:
			table.Headers = expanded
			headerFound = true
			// Only rows after the header row carry data.
			rows = rows[:0]
		case allHeader, tr.HasClass("noprint"), len(expanded) == 0:
			continue
		default:
			rows = append(rows, expanded)
		}
	}

	width := len(table.Headers)
	for _, row := range rows {
		if width > 0 {
			row = fitRow(row, width)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// tableRows returns the rows that belong to t itself, skipping rows of
// nested tables, in source order.
func tableRows(t *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	t.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "tr":
			rows = append(rows, child)
		case "thead", "tbody", "tfoot":
			child.ChildrenMatcher(rowSel).Each(func(_ int, tr *goquery.Selection) {
				rows = append(rows, tr)
			})
		}
	})
	return rows
}

// fitRow right-pads row with empty cells or truncates it to width.
func fitRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// carry is a cell value pending in a column because of a rowspan.
type carry struct {
	text string
	left int
}

// spanGrid tracks rowspan carries across the rows of one table.
type spanGrid struct {
	carries []carry
}

// expand lays one row's cells onto the grid and returns the text of every
// column it covers. Carried values take their columns first; own cells
// fill the remaining columns left to right.
func (g *spanGrid) expand(cells *goquery.Selection) []string {
	var out []string
	col := 0

	cells.Each(func(_ int, cell *goquery.Selection) {
		for g.active(col) {
			out = append(out, g.take(col))
			col++
		}

		text := wikiscrape.Normalize(cell.Text())
		colspan := spanAttr(cell, "colspan", maxColSpan)
		rowspan := spanAttr(cell, "rowspan", maxRowSpan)
		for range colspan {
			g.place(col, text, rowspan)
			out = append(out, text)
			col++
		}
	})

	// Carries beyond the last own cell still occupy their columns; any
	// gap before them stays empty.
	for last := g.lastActive(); col <= last; col++ {
		if g.active(col) {
			out = append(out, g.take(col))
		} else {
			out = append(out, "")
		}
	}
	return out
}

func (g *spanGrid) active(col int) bool {
	return col < len(g.carries) && g.carries[col].left > 0
}

func (g *spanGrid) take(col int) string {
	g.carries[col].left--
	return g.carries[col].text
}

// place records an own cell at col. A carry it overlaps is consumed so
// that malformed tables keep advancing row by row.
func (g *spanGrid) place(col int, text string, rowspan int) {
	for len(g.carries) <= col {
		g.carries = append(g.carries, carry{})
	}
	if g.carries[col].left > 0 {
		g.carries[col].left--
	}
	if rowspan > 1 {
		g.carries[col] = carry{text: text, left: rowspan - 1}
	}
}

func (g *spanGrid) lastActive() int {
	for col := len(g.carries) - 1; col >= 0; col-- {
		if g.carries[col].left > 0 {
			return col
		}
	}
	return -1
}

// spanAttr reads a colspan or rowspan attribute the way browsers do:
// leading digits count, anything else (or a value below 1) means 1.
func spanAttr(cell *goquery.Selection, name string, limit int) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil || n < 1 {
		return 1
	}
	return min(n, limit)
}
