package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// prepArticle strips the selected article of styles and of elements that
// look like leftover boilerplate.
func (g *grabber) prepArticle(article *html.Node) {
	sel := selectionOf(article)
	sel.Find("*").AddBack().RemoveAttr("style")

	g.cleanConditionally(article, "form")
	sel.Find("object").Remove()
	sel.Find("h1").Remove()

	// A lone h2 usually repeats the title.
	if sel.Find("h2").Length() == 1 {
		sel.Find("h2").Remove()
	}
	sel.Find("iframe").Remove()

	g.cleanHeaders(article)

	g.cleanConditionally(article, "table")
	g.cleanConditionally(article, "ul")
	if first := firstElementChild(article); first != nil {
		g.cleanConditionally(first, "div")
	}

	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if p.Find("img, embed, object").Length() == 0 && strings.TrimSpace(p.Text()) == "" {
			p.Remove()
		}
	})

	sel.Find("br + p").Each(func(_ int, p *goquery.Selection) {
		p.Prev().Remove()
	})
}

// cleanHeaders removes h1 and h2 elements with a negative class weight or
// mostly made of links.
func (g *grabber) cleanHeaders(article *html.Node) {
	for _, tag := range []string{"h1", "h2"} {
		headers := elementsByTag(article, tag)
		for i := len(headers) - 1; i >= 0; i-- {
			if g.classWeight(headers[i]) < 0 || linkDensity(headers[i]) > 0.33 {
				detach(headers[i])
			}
		}
	}
}

// cleanConditionally removes the elements named tag under (and including)
// root that look like boilerplate: negative scores, more images than
// paragraphs, too many list items or inputs, too little text, too many links
// or embeds. It is a no-op once conditional cleaning has been switched off.
func (g *grabber) cleanConditionally(root *html.Node, tag string) {
	if !g.flags.cleanConditionally {
		return
	}

	nodes := elementsByTag(root, tag)
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !attached(n) {
			continue
		}

		weight := g.classWeight(n)
		score := g.scores[n]
		if weight+score < 0 {
			g.logger.Debug("removing negative element", "tag", tag, "weight", weight, "score", score)
			detach(n)
			continue
		}

		text := innerText(n)
		if strings.Count(text, ",") >= 10 {
			continue
		}

		var (
			p      = len(elementsByTag(n, "p"))
			img    = len(elementsByTag(n, "img"))
			li     = len(elementsByTag(n, "li")) - 100
			input  = len(elementsByTag(n, "input"))
			embeds = len(elementsByTag(n, "embed"))
			length = textLength(n)
			links  = linkDensity(n)
		)

		var remove bool
		switch {
		case img > p:
			remove = true
		case li > p && tag != "ul" && tag != "ol":
			remove = true
		case input > p/3:
			remove = true
		case length < 25 && (img == 0 || img > 2):
			remove = true
		case weight < 25 && links > 0.2:
			remove = true
		case weight >= 25 && links > 0.5:
			remove = true
		case (embeds == 1 && length < 75) || embeds > 1:
			remove = true
		}

		if remove {
			g.logger.Debug("removing element", "tag", tag, "class", className(n), "id", id(n))
			detach(n)
		}
	}
}
