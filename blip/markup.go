package blip

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AppendMarkup appends XHTML markup to the document. The raw markup goes to
// the service in the queued operation; locally the model keeps the plain
// text rendering, with <br> and closed block elements becoming newlines.
func (b *Blip) AppendMarkup(markup string) error {
	text, err := markupText(markup)
	if err != nil {
		return fmt.Errorf("parse markup: %w", err)
	}
	b.queue.DocumentAppendMarkup(b.waveID, b.waveletID, b.id, markup)
	b.content = append(b.content, []rune(text)...)
	return nil
}

// markupText extracts the text rendering of markup: text nodes in document
// order, a newline for every <br> and after every non-empty block element,
// script and style contents skipped.
func markupText(markup string) (string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				buf.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			if s := buf.String(); s != "" && !strings.HasSuffix(s, "\n") {
				buf.WriteString("\n")
			}
		}
	}
	walk(doc)
	return buf.String(), nil
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Table, atom.Tr:
		return true
	}
	return false
}
