package goquery

import (
	"net/url"
	"slices"
	"strings"
)

// findBaseURL strips page numbering from the last two path segments of
// pageURL so that the pages of one article share a base. Query and fragment
// are dropped.
//
//	http://example.com/article/page/2      -> http://example.com/article/page
//	http://example.com/story/index.html    -> http://example.com/story
//	http://example.com/news/story-p2       -> http://example.com/news/story
func findBaseURL(pageURL string) (*url.URL, error) {
	u, err := url.Parse(strings.ReplaceAll(pageURL, `\`, "/"))
	if err != nil {
		return nil, err
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	slices.Reverse(segments)

	var cleaned []string
	for i, segment := range segments {
		// Split off anything that looks like a file type.
		if before, ext, ok := strings.Cut(segment, "."); ok {
			ext, _, _ = strings.Cut(ext, ".")
			if !nonAlpha.MatchString(ext) {
				segment = before
			}
		}

		segment = strings.Replace(segment, ",00", "", 1)

		if i < 2 && pageNumberLike.MatchString(segment) {
			segment = pageNumberLike.ReplaceAllString(segment, "")
		}

		var del bool
		switch {
		case i < 2 && oneOrTwoDigits.MatchString(segment):
			del = true
		case i == 0 && strings.EqualFold(segment, "index"):
			del = true
		case i < 2 && len(segment) < 3 && !letter.MatchString(segments[0]):
			del = true
		}
		if !del {
			cleaned = append(cleaned, segment)
		}
	}
	slices.Reverse(cleaned)

	return &url.URL{
		Scheme: u.Scheme,
		User:   u.User,
		Host:   u.Host,
		Path:   "/" + strings.Join(cleaned, "/"),
	}, nil
}
