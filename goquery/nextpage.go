package goquery

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readtext"
	"golang.org/x/net/html"
)

// Minimum score for a link to be taken as the next page.
const minNextPageScore = 50

// pageLink is a candidate next-page link. Anchors resolving to the same
// href share one candidate; their texts are joined with " | ".
type pageLink struct {
	score float64
	text  string
	href  string
}

// findNextPageLink scores every link under body as a possible next page of
// the article at pageURL and returns the best one scoring at least
// minNextPageScore, or "" when there is none. The winner is added to
// visited; links already in visited are never candidates.
func findNextPageLink(body *html.Node, pageURL string, visited readtext.Visited) string {
	page, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	base, err := findBaseURL(pageURL)
	if err != nil {
		return ""
	}
	baseURL := base.String()
	current := strings.TrimSuffix(pageURL, "/")

	candidates := make(map[string]*pageLink)
	var order []*pageLink

	selectionOf(body).Find("a").Each(func(_ int, s *goquery.Selection) {
		raw, ok := s.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return
		}
		abs := page.ResolveReference(ref)
		abs.Fragment = ""
		abs.RawFragment = ""
		href := strings.TrimSuffix(abs.String(), "/")

		if href == "" || href == baseURL || href == current || visited.Has(href) {
			return
		}
		// Pagination never crosses domains.
		if abs.Host != base.Host {
			return
		}

		n := s.Get(0)
		text := innerText(n)
		if extraneousText.MatchString(text) || utf8.RuneCountInString(text) > 25 {
			return
		}

		// Page links carry a page number.
		if !digit.MatchString(strings.Replace(href, baseURL, "", 1)) {
			return
		}

		link, ok := candidates[href]
		if !ok {
			link = &pageLink{text: text, href: href}
			candidates[href] = link
			order = append(order, link)
		} else {
			link.text += " | " + text
		}

		scoreLink(link, n, href, text, baseURL)
	})

	var top *pageLink
	for _, link := range order {
		if link.score >= minNextPageScore && (top == nil || link.score > top.score) {
			top = link
		}
	}
	if top == nil {
		return ""
	}

	visited.Add(top.href)
	return top.href
}

func scoreLink(link *pageLink, a *html.Node, href, text, baseURL string) {
	if !strings.HasPrefix(href, baseURL) {
		link.score -= 25
	}

	data := text + " " + className(a) + " " + id(a)
	if nextLink.MatchString(data) {
		link.score += 50
	}
	if pagination.MatchString(data) {
		link.score += 25
	}
	// "last" next to "next" is probably fine.
	if firstLast.MatchString(data) && !nextLink.MatchString(link.text) {
		link.score -= 65
	}
	if negative.MatchString(data) || extraneous.MatchString(data) {
		link.score -= 50
	}
	if prevLink.MatchString(data) {
		link.score -= 200
	}

	var paged, negated bool
	for p := a.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		classAndID := className(p) + " " + id(p)
		if !paged && pagination.MatchString(classAndID) {
			paged = true
			link.score += 25
		}
		// "footer" is bad, "body-and-footer" is not.
		if !negated && negative.MatchString(classAndID) && !positive.MatchString(classAndID) {
			negated = true
			link.score -= 25
		}
	}

	if pageAndNumber.MatchString(href) || pageOrPaging.MatchString(href) {
		link.score += 25
	}
	if extraneous.MatchString(href) {
		link.score -= 15
	}

	// Numbered links get a small bonus that favors low page numbers; page 1
	// is most likely where we already are.
	if n, err := strconv.Atoi(text); err == nil {
		if n == 1 {
			link.score -= 10
		} else {
			link.score += max(0, 10-float64(n))
		}
	}
}
