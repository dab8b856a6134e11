package goquery

import (
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	// Paragraphs shorter than this do not contribute to scores.
	minParagraphLength = 25

	// Articles shorter than this trigger a retry with relaxed heuristics.
	minArticleLength = 250
)

// Divs containing one of these are structural and are not turned into
// paragraphs.
const blockSelector = "a, blockquote, dl, div, img, ol, p, pre, table, ul"

// flags are the heuristics of one selection attempt. All start enabled and
// are switched off one at a time, in field order, while the selected article
// stays too short.
type flags struct {
	stripUnlikely      bool
	classWeight        bool
	cleanConditionally bool
}

// grabber selects the article subtree of a document body.
type grabber struct {
	logger *slog.Logger
	flags  flags

	// Content scores of the current attempt. A node is "scored" when it has
	// an entry, whatever the value.
	scores map[*html.Node]float64

	// Synthetic paragraphs wrapped around loose text in structural divs.
	inline map[*html.Node]bool
}

func newGrabber(logger *slog.Logger) *grabber {
	return &grabber{logger: logger}
}

// grab replaces the children of body with the selected article container
// and returns the container. When every attempt comes out too short, body is
// restored to its original content and grab returns nil.
func (g *grabber) grab(body *html.Node) *html.Node {
	snapshot := cloneChildren(body)
	g.flags = flags{stripUnlikely: true, classWeight: true, cleanConditionally: true}

	for {
		article := g.attempt(body)
		length := textLength(article)
		if length >= minArticleLength {
			return article
		}

		g.logger.Debug("article too short",
			"length", length,
			"stripUnlikely", g.flags.stripUnlikely,
			"classWeight", g.flags.classWeight,
			"cleanConditionally", g.flags.cleanConditionally)

		restoreChildren(body, snapshot)
		switch {
		case g.flags.stripUnlikely:
			g.flags.stripUnlikely = false
		case g.flags.classWeight:
			g.flags.classWeight = false
		case g.flags.cleanConditionally:
			g.flags.cleanConditionally = false
		default:
			g.inline = nil
			return nil
		}
	}
}

func (g *grabber) attempt(body *html.Node) *html.Node {
	g.scores = make(map[*html.Node]float64)
	g.inline = make(map[*html.Node]bool)

	targets := g.prepareNodes(body)
	candidates := g.scoreParagraphs(targets)
	top := g.topCandidate(body, candidates)
	article := g.mergeSiblings(top)

	removeChildren(body)
	body.AppendChild(article)
	g.prepArticle(article)
	return article
}

// prepareNodes removes unlikely candidates, turns divs used as paragraphs
// into paragraphs, and returns the nodes to score in document order.
func (g *grabber) prepareNodes(body *html.Node) []*html.Node {
	var targets []*html.Node
	dead := make(map[*html.Node]bool)

	for _, n := range elementsByTag(body, "*") {
		if dead[n] {
			continue
		}

		if g.flags.stripUnlikely && n.Data != "body" {
			match := className(n) + id(n)
			if unlikelyCandidates.MatchString(match) && !maybeCandidate.MatchString(match) {
				g.logger.Debug("removing unlikely candidate", "tag", n.Data, "match", match)
				for _, d := range elementsByTag(n, "*") {
					dead[d] = true
				}
				detach(n)
				continue
			}
		}

		switch n.Data {
		case "p", "td", "pre":
			targets = append(targets, n)
		case "div":
			if selectionOf(n).Find(blockSelector).Length() == 0 {
				setNodeTag(n, "p")
				targets = append(targets, n)
			} else {
				g.wrapText(n)
			}
		}
	}
	return targets
}

// wrapText wraps every non-blank text child of div in an inline paragraph.
func (g *grabber) wrapText(div *html.Node) {
	for c := div.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode || strings.TrimSpace(c.Data) == "" {
			continue
		}
		p := newElement("p")
		div.InsertBefore(p, c)
		div.RemoveChild(c)
		p.AppendChild(c)
		g.inline[p] = true
		c = p
	}
}

// scoreParagraphs adds the score of every paragraph to its parent and half
// of it to its grandparent. It returns the candidates in the order they were
// first initialized.
func (g *grabber) scoreParagraphs(targets []*html.Node) []*html.Node {
	var candidates []*html.Node
	for _, n := range targets {
		parent := n.Parent
		if parent == nil || parent.Type != html.ElementNode {
			continue
		}
		grand := parent.Parent
		if grand == nil || grand.Type != html.ElementNode {
			continue
		}

		text := innerText(n)
		length := utf8.RuneCountInString(text)
		if length < minParagraphLength {
			continue
		}

		if _, ok := g.scores[parent]; !ok {
			g.initializeNode(parent)
			candidates = append(candidates, parent)
		}
		if _, ok := g.scores[grand]; !ok && grand.Parent != nil {
			g.initializeNode(grand)
			candidates = append(candidates, grand)
		}

		score := 1 + float64(strings.Count(text, ",")+1) + math.Min(math.Floor(float64(length)/100), 3)
		g.scores[parent] += score
		g.scores[grand] += score / 2
	}
	return candidates
}

// topCandidate scales candidate scores by link density and returns the
// best one. When there is none, or the best is the body itself, the body's
// content is moved into a new div that becomes the candidate.
func (g *grabber) topCandidate(body *html.Node, candidates []*html.Node) *html.Node {
	var top *html.Node
	for _, c := range candidates {
		score := g.scores[c] * (1 - linkDensity(c))
		g.scores[c] = score
		g.logger.Debug("candidate", "tag", c.Data, "class", className(c), "id", id(c), "score", score)
		if top == nil || score > g.scores[top] {
			top = c
		}
	}

	if top == nil || contains(top, body) {
		top = newElement("div")
		for body.FirstChild != nil {
			c := body.FirstChild
			body.RemoveChild(c)
			top.AppendChild(c)
		}
		body.AppendChild(top)
		g.initializeNode(top)
	}
	return top
}

// mergeSiblings builds the article container from the top candidate and
// those of its siblings that look related.
func (g *grabber) mergeSiblings(top *html.Node) *html.Node {
	article := newElement("div")
	topScore := g.scores[top]
	threshold := math.Max(10, topScore*0.2)
	topClass := className(top)

	for _, sibling := range childElements(top.Parent) {
		include := sibling == top

		var bonus float64
		if topClass != "" && className(sibling) == topClass {
			bonus = topScore * 0.2
		}
		if score, scored := g.scores[sibling]; scored && score+bonus >= threshold {
			include = true
		}

		if sibling.Data == "p" {
			density := linkDensity(sibling)
			text := innerText(sibling)
			length := utf8.RuneCountInString(text)
			switch {
			case length > 80 && density < 0.25:
				include = true
			case length < 80 && density == 0 && endsWithDot.MatchString(text):
				include = true
			}
		}

		if !include {
			continue
		}
		if sibling.Data != "div" && sibling.Data != "p" {
			setNodeTag(sibling, "div")
		}
		removeAttr(sibling, "class")
		detach(sibling)
		article.AppendChild(sibling)
	}
	return article
}
