package model

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToHTML converts the cell tree to nested HTML tables. Rows and columns are
// logical, so rotated tables come out upright. A cell whose children do not
// fill its grid yields an error wrapping ErrMalformedTable.
func (c *Cell) ToHTML() (string, error) {
	node, err := c.htmlTable()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return sb.String(), nil
}

func (c *Cell) htmlTable() (*html.Node, error) {
	table := element(atom.Table)

	if c.IsLeaf() {
		tr := element(atom.Tr)
		td := element(atom.Td)
		appendText(td, c.Text)
		tr.AppendChild(td)
		table.AppendChild(tr)
		return table, nil
	}

	for i := 0; i < c.Rows(); i++ {
		tr := element(atom.Tr)
		for j := 0; j < c.Cols(); j++ {
			child, err := c.Get(i, j)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", i, j, err)
			}

			td := element(atom.Td)
			if child.IsLeaf() {
				appendText(td, child.Text)
			} else {
				nested, err := child.htmlTable()
				if err != nil {
					return nil, err
				}
				td.AppendChild(nested)
			}
			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}

	return table, nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
}

// appendText adds text to n, turning newlines into <br> elements
func appendText(n *html.Node, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		if line != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}
