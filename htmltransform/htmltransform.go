// Package htmltransform provides the pure HTML rewrites applied to editor
// content before it is published or emailed: table-of-contents expansion,
// inline-image cid substitution, and a plain-text fallback. Every function is
// string in, string out, with no hidden state.
package htmltransform

import (
	"fmt"
	"strings"

	gslug "github.com/gosimple/slug"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseBody parses content as a body fragment and reattaches the parsed
// nodes under a body element so they can be rearranged.
func parseBody(content string) (*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func renderBody(body *html.Node) string {
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return ""
		}
	}
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// anchorSet hands out slugified anchors, suffixing duplicates with -2, -3, …
// so every heading target stays unique within one document.
type anchorSet map[string]int

func (a anchorSet) anchor(text string) string {
	s := gslug.Make(text)
	if s == "" {
		s = "section"
	}
	a[s]++
	if a[s] == 1 {
		return s
	}
	return fmt.Sprintf("%s-%d", s, a[s])
}

// ExpandTOC replaces the first <summary> marker element with an ordered list
// of links to every <h1> heading in content. Each heading receives an id
// derived from its text; linkPrefix is prepended to every href so the list
// still resolves when the content is rendered away from its own page (for
// example inside an emailed copy). Content without a marker passes through
// unchanged.
func ExpandTOC(content, linkPrefix string) string {
	body, err := parseBody(content)
	if err != nil {
		return content
	}

	var marker *html.Node
	var headings []*html.Node
	walk(body, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.Summary:
			if marker == nil {
				marker = n
			}
		case atom.H1:
			headings = append(headings, n)
		}
	})
	if marker == nil {
		return content
	}

	anchors := anchorSet{}
	list := &html.Node{
		Type:     html.ElementNode,
		Data:     "ol",
		DataAtom: atom.Ol,
		Attr:     []html.Attribute{{Key: "class", Val: "toc"}},
	}
	for _, h := range headings {
		anchor := anchors.anchor(textOf(h))
		setAttr(h, "id", anchor)

		li := &html.Node{Type: html.ElementNode, Data: "li", DataAtom: atom.Li}
		a := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr:     []html.Attribute{{Key: "href", Val: linkPrefix + "#" + anchor}},
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: textOf(h)})
		li.AppendChild(a)
		list.AppendChild(li)
	}

	marker.Parent.InsertBefore(list, marker)
	marker.Parent.RemoveChild(marker)
	return renderBody(body)
}

// RewriteInlineImages rewrites every <img src> that resolve recognizes into a
// cid: reference and returns the rewritten content plus the matched cid names
// in first-occurrence order, deduplicated by identity rather than occurrence
// count. Unrecognized image URLs are left untouched; content with no match is
// returned unchanged.
func RewriteInlineImages(content string, resolve func(src string) (cid string, ok bool)) (string, []string) {
	body, err := parseBody(content)
	if err != nil {
		return content, nil
	}

	var matched []string
	seen := map[string]bool{}
	changed := false
	walk(body, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Img {
			return
		}
		src, ok := getAttr(n, "src")
		if !ok {
			return
		}
		cid, ok := resolve(src)
		if !ok {
			return
		}
		setAttr(n, "src", "cid:"+cid)
		changed = true
		if !seen[cid] {
			seen[cid] = true
			matched = append(matched, cid)
		}
	})
	if !changed {
		return content, nil
	}
	return renderBody(body), matched
}

// Text extracts a plain-text rendition of content, used as the text/plain
// alternative of HTML emails.
func Text(content string) string {
	body, err := parseBody(content)
	if err != nil {
		return content
	}
	var b strings.Builder
	var emit func(n *html.Node)
	emit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			emit(c)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P, atom.Div, atom.Li, atom.Br,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				b.WriteString("\n")
			}
		}
	}
	emit(body)
	return strings.TrimSpace(b.String())
}
