package format

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPasses bounds the table unwrapping loop on pathological nesting.
const maxPasses = 10

var droppedTags = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Img:      true,
	atom.Svg:      true,
}

// unwrappedTags are replaced by their children.
var unwrappedTags = map[atom.Atom]bool{
	atom.A:    true,
	atom.Font: true,
	atom.Span: true,
}

// Simplify strips markup that carries no text (scripts, styles, images,
// comments), reduces links to their text and unwraps single-column layout
// tables. Input that can't be parsed is returned unchanged.
func Simplify(raw []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return raw
	}

	strip(doc)
	for range maxPasses {
		if !unwrapLayoutTables(doc) {
			break
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return raw
	}

	return buf.Bytes()
}

func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling

		switch {
		case c.Type == html.CommentNode,
			c.Type == html.ElementNode && droppedTags[c.DataAtom]:
			n.RemoveChild(c)

		case c.Type == html.ElementNode && unwrappedTags[c.DataAtom]:
			strip(c)
			moveChildren(c, n, c)
			n.RemoveChild(c)

		default:
			strip(c)
		}

		c = next
	}
}

// moveChildren moves every child of from into parent, before ref.
func moveChildren(from, parent, ref *html.Node) {
	for c := from.FirstChild; c != nil; {
		next := c.NextSibling
		from.RemoveChild(c)
		parent.InsertBefore(c, ref)
		c = next
	}
}

// unwrapLayoutTables works bottom-up and reports whether any table was
// unwrapped.
func unwrapLayoutTables(n *html.Node) bool {
	changed := false

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if unwrapLayoutTables(c) {
			changed = true
		}
		c = next
	}

	if n.Type == html.ElementNode && n.DataAtom == atom.Table && n.Parent != nil && isLayoutTable(n) {
		unwrapTable(n)
		changed = true
	}

	return changed
}

type tableShape struct {
	headers     bool
	maxCols     int
	rowCells    []int
	contentRows int
}

func measureTable(table *html.Node) tableShape {
	var s tableShape

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Th, atom.Thead:
				s.headers = true
			case atom.Tr:
				cells := 0
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
						cells++
					}
				}
				s.rowCells = append(s.rowCells, cells)
				s.maxCols = max(s.maxCols, cells)
				if hasText(n) {
					s.contentRows++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return s
}

// isLayoutTable keeps tables with headers, several columns or a long
// regular list of rows. Everything else only positions content.
func isLayoutTable(table *html.Node) bool {
	s := measureTable(table)
	if s.headers || s.maxCols > 1 {
		return false
	}

	for _, attr := range table.Attr {
		if attr.Key == "id" && (attr.Val == "main" || strings.Contains(attr.Val, "layout") || strings.Contains(attr.Val, "wrapper")) {
			return true
		}
	}

	return s.contentRows <= 5 || !sameCounts(s.rowCells)
}

func sameCounts(counts []int) bool {
	if len(counts) < 2 {
		return false
	}
	for _, n := range counts[1:] {
		if n != counts[0] {
			return false
		}
	}
	return true
}

func hasText(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) != ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasText(c) {
			return true
		}
	}
	return false
}

// unwrapTable replaces table with the content of its cells. Each row that
// had content ends with a line break.
func unwrapTable(table *html.Node) {
	parent := table.Parent

	// lift moves the content of n out of the table and reports whether
	// there was any.
	var lift func(n *html.Node) bool
	lift = func(n *html.Node) bool {
		moved := false
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling

			switch {
			case c.Type == html.ElementNode && isTablePart(c.DataAtom):
				if lift(c) {
					moved = true
					if c.DataAtom == atom.Tr {
						parent.InsertBefore(&html.Node{Type: html.TextNode, Data: "\n"}, table)
					}
				}
			case c.Type == html.TextNode && strings.TrimSpace(c.Data) == "":
			default:
				n.RemoveChild(c)
				parent.InsertBefore(c, table)
				moved = true
			}

			c = next
		}
		return moved
	}

	lift(table)
	parent.RemoveChild(table)
}

func isTablePart(a atom.Atom) bool {
	switch a {
	case atom.Tbody, atom.Thead, atom.Tfoot, atom.Tr, atom.Td, atom.Th:
		return true
	}
	return false
}
