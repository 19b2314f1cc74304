// Package tables reads and writes the HTML table markup that wizard pages
// store verbatim.
package tables

import (
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse returns the text of every cell, row by row, of the first table in
// markup. Header cells count as cells.
func Parse(markup string) ([][]string, error) {
	ctx := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}

	var rows [][]string
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.DataAtom == atom.Tr {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == xhtml.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					row = append(row, strings.TrimSpace(text(c)))
				}
			}
			rows = append(rows, row)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return rows, nil
}

func text(n *xhtml.Node) string {
	if n.Type == xhtml.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode && c.DataAtom == atom.Input {
			for _, a := range c.Attr {
				if a.Key == "value" {
					b.WriteString(a.Val)
				}
			}
			continue
		}
		b.WriteString(text(c))
	}
	return b.String()
}

// Render builds table markup. A nil header omits the header row.
func Render(id string, header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(`<table`)
	if id != "" {
		fmt.Fprintf(&b, ` id="%s"`, html.EscapeString(id))
	}
	b.WriteString(`>`)
	if header != nil {
		b.WriteString(`<tr>`)
		for _, h := range header {
			fmt.Fprintf(&b, `<th>%s</th>`, html.EscapeString(h))
		}
		b.WriteString(`</tr>`)
	}
	for _, row := range rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(cell))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</table>`)
	return b.String()
}
