package goquery

import "regexp"

// Case-insensitive classifiers for class names, ids, hrefs and link text.
// Unless anchored they match anywhere in the input.
var (
	// Trailing page-number suffixes of a path segment, e.g. "p2", "_3", "-10".
	pageNumberLike = regexp.MustCompile(`(?i)((_|-)?p[a-z]*|(_|-))[0-9]{1,2}$`)

	// Page-numbered URLs: /page/2, ?p=3, pagination=34.
	pageAndNumber = regexp.MustCompile(`(?i)p(a|g|ag)?(e|ing|ination)?(=|/)[0-9]{1,2}`)
	pageOrPaging  = regexp.MustCompile(`(?i)(page|paging)`)

	// Link text that is exactly one of these words is never a page link;
	// hrefs and class names containing them only lose points.
	extraneousText = regexp.MustCompile(`(?i)^(print|archive|comment|discuss|e[\-]?mail|share|reply|all|login|sign|single)$`)

	extraneous = regexp.MustCompile(`(?i)print|archive|comment|discuss|e[\-]?mail|share|reply|all|login|sign|single`)
	nextLink   = regexp.MustCompile(`(?i)(next|weiter|continue|>([^\|]|$)|»([^\|]|$))`)
	pagination = regexp.MustCompile(`(?i)pag(e|ing|inat)`)
	firstLast  = regexp.MustCompile(`(?i)(first|last)`)
	prevLink   = regexp.MustCompile(`(?i)(prev|earl|old|new|<|«)`)

	negative = regexp.MustCompile(`(?i)(combx|comment|com-|contact|foot|footer|footnote|masthead|media|meta|outbrain|promo|related|scroll|shoutbox|sidebar|sponsor|shopping|tags|tool|widget)`)
	positive = regexp.MustCompile(`(?i)(article|body|content|entry|hentry|main|page|pagination|post|text|blog|story)`)

	unlikelyCandidates = regexp.MustCompile(`(?i)combx|comment|community|disqus|extra|foot|header|menu|remark|rss|shoutbox|sidebar|sponsor|ad-break|agegate|pagination|pager|popup|tweet|twitter`)
	maybeCandidate     = regexp.MustCompile(`(?i)and|article|body|column|main|shadow`)

	endsWithDot = regexp.MustCompile(`\.( |$)`)
	digit       = regexp.MustCompile(`\d`)

	// Title separators.
	barDash = regexp.MustCompile(` [\|\-] `)

	oneOrTwoDigits = regexp.MustCompile(`^\d{1,2}$`)
	nonAlpha       = regexp.MustCompile(`[^a-zA-Z]`)
	letter         = regexp.MustCompile(`(?i)[a-z]`)
)
