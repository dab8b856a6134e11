package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removeScripts drops inline and third-party scripts. External readability
// and typekit scripts are kept.
func removeScripts(doc *goquery.Document) {
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" || (!strings.Contains(src, "readability") && !strings.Contains(src, "typekit")) {
			s.Remove()
		}
	})
}

func noscriptToDiv(doc *goquery.Document) {
	for _, n := range doc.Find("noscript").Nodes {
		setNodeTag(n, "div")
	}
}

// ensureBody returns the document's body, creating one when the markup has
// none (a frameset document, for example).
func ensureBody(doc *goquery.Document) *html.Node {
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body.Get(0)
	}
	body := newElement("body")
	if root := doc.Find("html").First(); root.Length() > 0 {
		root.Get(0).AppendChild(body)
	} else {
		doc.Get(0).AppendChild(body)
	}
	return body
}

// hasFrames scans the raw markup for frame and frameset tags. The tree
// builder drops a <frame> that appears inside <body>, so the check runs on
// tokens instead of the parsed tree.
func hasFrames(src string) bool {
	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "frame", "frameset":
				return true
			}
		}
	}
}

// prepDocument removes stylesheets, turns <br> chains into paragraphs and
// replaces <font> with <span>.
func prepDocument(doc *goquery.Document, body *html.Node) {
	doc.Find("style").Remove()
	doc.Find(`link[rel="stylesheet"]`).Remove()
	replaceBrs(body)
	for _, n := range doc.Find("font").Nodes {
		setNodeTag(n, "span")
	}
}

// replaceBrs replaces two or more successive <br> elements with a single
// <p> holding the phrasing content that follows them. Whitespace between
// the <br> elements is ignored:
//
//	<div>foo<br>bar<br> <br><br>abc</div>
//
// becomes
//
//	<div>foo<br>bar<p>abc</p></div>
func replaceBrs(root *html.Node) {
	for _, br := range elementsByTag(root, "br") {
		if br.Parent == nil {
			continue
		}

		replaced := false
		next := nextNode(br.NextSibling)
		for next != nil && isElement(next, "br") {
			replaced = true
			sibling := next.NextSibling
			detach(next)
			next = nextNode(sibling)
		}
		if !replaced {
			continue
		}

		p := newElement("p")
		br.Parent.InsertBefore(p, br)
		detach(br)

		for next = p.NextSibling; next != nil; {
			if isElement(next, "br") {
				if after := nextNode(next.NextSibling); isElement(after, "br") {
					break
				}
			}
			if !isPhrasingContent(next) {
				break
			}
			sibling := next.NextSibling
			detach(next)
			p.AppendChild(next)
			next = sibling
		}

		for p.LastChild != nil && isWhitespace(p.LastChild) {
			p.RemoveChild(p.LastChild)
		}

		if isElement(p.Parent, "p") {
			setNodeTag(p.Parent, "div")
		}
	}
}

// nextNode skips whitespace-only non-element siblings, starting at n.
func nextNode(n *html.Node) *html.Node {
	for n != nil && n.Type != html.ElementNode && strings.TrimSpace(n.Data) == "" {
		n = n.NextSibling
	}
	return n
}

func isWhitespace(n *html.Node) bool {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data) == ""
	}
	return isElement(n, "br")
}

var phrasingElements = map[string]bool{
	"abbr": true, "audio": true, "b": true, "bdo": true, "br": true, "button": true,
	"cite": true, "code": true, "data": true, "datalist": true, "dfn": true, "em": true,
	"embed": true, "i": true, "img": true, "input": true, "kbd": true, "label": true,
	"mark": true, "math": true, "meter": true, "noscript": true, "object": true,
	"output": true, "progress": true, "q": true, "ruby": true, "samp": true,
	"script": true, "select": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "textarea": true, "time": true, "var": true, "wbr": true,
}

func isPhrasingContent(n *html.Node) bool {
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
	default:
		return false
	}
	if phrasingElements[n.Data] {
		return true
	}
	switch n.Data {
	case "a", "del", "ins":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !isPhrasingContent(c) {
				return false
			}
		}
		return true
	}
	return false
}
