package goquery

import (
	"github.com/fwojciec/readtext"
	"golang.org/x/net/html"
)

var actions = map[string]readtext.Action{
	"img":    readtext.ActionAlt,
	"applet": readtext.ActionAlt,
	"area":   readtext.ActionAlt,
	"input":  readtext.ActionAlt,

	"script": readtext.ActionBanned,
	"iframe": readtext.ActionBanned,
	"style":  readtext.ActionBanned,

	"br":     readtext.ActionWhitespace,
	"center": readtext.ActionWhitespace,

	"p":          readtext.ActionSentence,
	"hr":         readtext.ActionSentence,
	"ul":         readtext.ActionSentence,
	"h1":         readtext.ActionSentence,
	"h2":         readtext.ActionSentence,
	"h3":         readtext.ActionSentence,
	"h4":         readtext.ActionSentence,
	"h5":         readtext.ActionSentence,
	"h6":         readtext.ActionSentence,
	"pre":        readtext.ActionSentence,
	"blockquote": readtext.ActionSentence,
	"title":      readtext.ActionSentence,
	"div":        readtext.ActionSentence,
	"form":       readtext.ActionSentence,
	"table":      readtext.ActionSentence,
	"td":         readtext.ActionSentence,
	"th":         readtext.ActionSentence,
	"li":         readtext.ActionSentence,
	"dir":        readtext.ActionSentence,
	"menu":       readtext.ActionSentence,
	"ol":         readtext.ActionSentence,
}

// Classify maps HTML elements to their effect on extracted text.
// Elements not in the table pass their content through.
func Classify(n *html.Node) readtext.Action {
	return actions[n.Data]
}

// classifyInline is Classify with the given synthetic paragraphs treated as
// inline content.
func classifyInline(inline map[*html.Node]bool) readtext.Classifier {
	return func(n *html.Node) readtext.Action {
		if inline[n] {
			return readtext.ActionNone
		}
		return Classify(n)
	}
}
