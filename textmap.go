package readtext

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Action describes how an element affects the flattened text stream.
type Action int

// Element actions used by a Classifier.
const (
	// ActionNone passes the element's content through unchanged.
	ActionNone Action = iota

	// ActionBanned suppresses all text below the element.
	ActionBanned

	// ActionAlt marks replaced elements (images, inputs). Their content
	// passes through like ActionNone.
	ActionAlt

	// ActionWhitespace separates the element's content with spaces.
	ActionWhitespace

	// ActionSentence ends the element's content with a sentence break.
	ActionSentence

	// ActionMark records the element's end offset without changing the text.
	ActionMark
)

// Classifier returns the Action for an element node.
type Classifier func(n *html.Node) Action

// TextRange relates a half-open byte span [Start, End) of the flattened text
// to the text node it was copied from. Text is nil for characters inserted
// by the flattener itself: separating spaces and sentence breaks.
type TextRange struct {
	Start int
	End   int
	Text  *html.Node
}

// Contains reports whether offset falls inside the range.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Len returns the number of bytes covered by the range.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Mark records where an element classified as ActionMark ended.
type Mark struct {
	Tag    string `json:"tag"`
	Offset int    `json:"offset"`
}

// TextMap is the flattened text of a DOM subtree together with the ranges
// that map every byte of it back to a source text node or to a synthetic
// break. Ranges are sorted, non-overlapping, and cover the whole text.
type TextMap struct {
	buf    strings.Builder
	ranges []TextRange
	marks  []Mark

	// Whether the last emission ended in whitespace or ended a sentence.
	space  bool
	period bool

	// Whether the last emission was a whitespace-only text node.
	blankRun bool

	// Index of the range returned by the last FindRange call.
	cursor int
}

// NewTextMap flattens the subtree rooted at root.
func NewTextMap(root *html.Node, classify Classifier) *TextMap {
	m := &TextMap{}
	if root != nil {
		m.walk(root, classify, false)
	}
	return m
}

func (m *TextMap) walk(n *html.Node, classify Classifier, banned bool) {
	action := ActionNone
	if n.Type == html.ElementNode {
		action = classify(n)
	}
	quiet := banned || action == ActionBanned

	if !quiet && (action == ActionWhitespace || action == ActionSentence) {
		m.appendSpace()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if !quiet {
				m.appendText(c)
			}
		case html.ElementNode:
			m.walk(c, classify, quiet)
		}
	}

	switch {
	case action == ActionMark:
		m.marks = append(m.marks, Mark{Tag: n.Data, Offset: m.buf.Len()})
	case quiet:
	case action == ActionWhitespace:
		m.appendSpace()
	case action == ActionSentence:
		m.appendPeriod()
	}
}

// appendText copies the raw content of a text node. Whitespace-only text
// following whitespace is dropped; it is indentation noise from the markup.
// A whitespace run that was let through continues into the following
// whitespace-only nodes, so a run split across nodes reads the same as one.
func (m *TextMap) appendText(n *html.Node) {
	text := n.Data
	if text == "" {
		return
	}
	blank := strings.TrimFunc(text, unicode.IsSpace) == ""
	if blank && m.space && !m.blankRun {
		return
	}

	start := m.buf.Len()
	m.buf.WriteString(text)
	m.ranges = append(m.ranges, TextRange{Start: start, End: start + len(text), Text: n})

	last, _ := utf8.DecodeLastRuneInString(text)
	m.space = unicode.IsSpace(last)
	m.period = isSentenceFinal(lastNonSpace(text))
	m.blankRun = blank
}

func (m *TextMap) appendSpace() {
	if m.space || m.period {
		return
	}
	m.emit(" ")
	m.space = true
}

func (m *TextMap) appendPeriod() {
	var s string
	switch {
	case !m.space && !m.period:
		s = " . \n"
	case !m.period:
		s = ". \n"
	case !m.space:
		s = " \n"
	default:
		return
	}
	m.emit(s)
	m.space = true
	m.period = true
}

// emit appends synthetic text with a range that has no source node.
func (m *TextMap) emit(s string) {
	start := m.buf.Len()
	m.buf.WriteString(s)
	m.ranges = append(m.ranges, TextRange{Start: start, End: m.buf.Len()})
	m.blankRun = false
}

// Text returns the flattened text.
func (m *TextMap) Text() string {
	return m.buf.String()
}

// Len returns the length of the flattened text in bytes.
func (m *TextMap) Len() int {
	return m.buf.Len()
}

// Ranges returns the offset ranges in text order.
// The slice is owned by the map and must not be modified.
func (m *TextMap) Ranges() []TextRange {
	return m.ranges
}

// Marks returns the recorded marks in document order.
func (m *TextMap) Marks() []Mark {
	return m.marks
}

// FindRange returns the index and value of the range containing offset.
// Lookups are optimized for increasing offsets: the search resumes from the
// range found by the previous call. Offsets outside the text are an error.
func (m *TextMap) FindRange(offset int) (int, TextRange, error) {
	if len(m.ranges) == 0 {
		return 0, TextRange{}, Errorf(EINVALID, "offset %d: text map is empty", offset)
	}

	cur := m.ranges[m.cursor]
	if cur.Contains(offset) {
		return m.cursor, cur, nil
	}

	if offset > cur.Start {
		for i := m.cursor + 1; i < len(m.ranges); i++ {
			if m.ranges[i].Contains(offset) {
				m.cursor = i
				return i, m.ranges[i], nil
			}
		}
		return 0, TextRange{}, Errorf(EINVALID, "offset %d beyond last range", offset)
	}

	for i := m.cursor - 1; i >= 0; i-- {
		if m.ranges[i].Contains(offset) {
			m.cursor = i
			return i, m.ranges[i], nil
		}
	}
	return 0, TextRange{}, Errorf(EINVALID, "offset %d before the first range", offset)
}

// Split cuts the range at index at byte position at, relative to the range
// start. The source text node keeps the head; a new text node holding the
// tail is inserted after it in the tree and returned. A new range for the
// tail follows the original, so indices of later ranges shift by one.
func (m *TextMap) Split(index, at int) (*html.Node, error) {
	if index < 0 || index >= len(m.ranges) {
		return nil, Errorf(EINVALID, "range index %d out of bounds", index)
	}
	r := m.ranges[index]
	if r.Text == nil {
		return nil, Errorf(EINVALID, "range %d has no source text", index)
	}
	data := r.Text.Data
	if at <= 0 || at >= len(data) || at >= r.Len() {
		return nil, Errorf(EINVALID, "split point %d outside range %d of length %d", at, index, r.Len())
	}
	if !utf8.RuneStart(data[at]) {
		return nil, Errorf(EINVALID, "split point %d is inside a character", at)
	}

	tail := &html.Node{Type: html.TextNode, Data: data[at:]}
	r.Text.Data = data[:at]
	if parent := r.Text.Parent; parent != nil {
		parent.InsertBefore(tail, r.Text.NextSibling)
	}

	m.ranges[index].End = r.Start + at
	m.ranges = slices.Insert(m.ranges, index+1, TextRange{Start: r.Start + at, End: r.End, Text: tail})
	return tail, nil
}

// Append concatenates other after m, shifting its ranges. Marks are not
// carried over.
func (m *TextMap) Append(other *TextMap) {
	if other == nil || other.Len() == 0 {
		return
	}
	shift := m.buf.Len()
	m.buf.WriteString(other.buf.String())
	for _, r := range other.ranges {
		r.Start += shift
		r.End += shift
		m.ranges = append(m.ranges, r)
	}
	m.space = other.space
	m.period = other.period
	m.blankRun = other.blankRun
}

func lastNonSpace(s string) rune {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if !unicode.IsSpace(r) {
			return r
		}
		s = s[:len(s)-size]
	}
	return '\ufeff'
}

func isSentenceFinal(r rune) bool {
	switch r {
	case '!', '?', '.', '"', '\u2029', '\u2018', '\u2019', '\u201c', '\u201d':
		return true
	}
	return false
}
