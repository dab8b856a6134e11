package goquery

import "golang.org/x/net/html"

// initializeNode gives n its starting score: a base for its tag plus its
// class weight. Initialized nodes are candidates for the article root.
func (g *grabber) initializeNode(n *html.Node) {
	var score float64
	switch n.Data {
	case "div":
		score = 5
	case "pre", "td", "blockquote":
		score = 3
	case "address", "ol", "ul", "dl", "dd", "dt", "li", "form":
		score = -3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score = -5
	}
	g.scores[n] = score + g.classWeight(n)
}

// classWeight scores the class and id of n against the positive and
// negative patterns, 25 points per match. It is zero when class weighting
// is switched off.
func (g *grabber) classWeight(n *html.Node) float64 {
	if !g.flags.classWeight {
		return 0
	}
	var weight float64
	for _, s := range []string{className(n), id(n)} {
		if s == "" {
			continue
		}
		if negative.MatchString(s) {
			weight -= 25
		}
		if positive.MatchString(s) {
			weight += 25
		}
	}
	return weight
}

// linkDensity is the share of the text of n that sits inside links.
func linkDensity(n *html.Node) float64 {
	length := textLength(n)
	if length == 0 {
		return 0
	}
	var links int
	for _, a := range elementsByTag(n, "a") {
		links += textLength(a)
	}
	return float64(links) / float64(length)
}
