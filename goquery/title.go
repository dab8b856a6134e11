package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	beforeLastSeparator = regexp.MustCompile(`^(.*)[|\-] `)
	afterFirstSeparator = regexp.MustCompile(`^[^|\-]*[|\-](.*)$`)
	afterLastColon      = regexp.MustCompile(`^.*:(.*)$`)
	afterFirstColon     = regexp.MustCompile(`^[^:]*:(.*)$`)
)

// articleTitle derives the article title from <title>, dropping a site name
// separated by "|", "-" or ":". A title that is very short or very long is
// replaced by the page's only <h1>, if it has exactly one. Results of four
// words or fewer fall back to the original <title>.
func articleTitle(doc *goquery.Document) string {
	var orig string
	if t := doc.Find("title").First(); t.Length() > 0 {
		orig = innerText(t.Get(0))
	}

	title := orig
	switch length := utf8.RuneCountInString(orig); {
	case barDash.MatchString(orig):
		title = submatch(beforeLastSeparator, orig)
		if len(strings.Fields(title)) < 3 {
			title = submatch(afterFirstSeparator, orig)
		}
	case strings.Contains(orig, ": "):
		title = submatch(afterLastColon, orig)
		if len(strings.Fields(title)) < 3 {
			title = submatch(afterFirstColon, orig)
		}
	case length > 150 || length < 15:
		if h1 := doc.Find("h1"); h1.Length() == 1 {
			title = innerText(h1.Get(0))
		}
	}

	title = strings.TrimSpace(title)
	if len(strings.Fields(title)) <= 4 {
		return orig
	}
	return title
}

func submatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
