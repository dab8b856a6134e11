// Package charset decodes fetched page bytes to UTF-8.
package charset

import (
	"mime"
	"strings"

	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Decode converts body to a UTF-8 string and returns the name of the
// encoding used.
//
// When respectServer is set, a known charset named by the contentType
// header wins. Otherwise the encoding is detected from the content itself:
// byte order mark, <meta> declaration, UTF-8 validity, then windows-1252.
// Bytes that cannot be decoded are replaced with U+FFFD; Decode never fails.
func Decode(body []byte, contentType string, respectServer bool) (text string, name string) {
	if respectServer {
		if enc, name := lookup(ServerCharset(contentType)); enc != nil {
			if text, ok := decode(body, enc); ok {
				return text, name
			}
		}
	}

	enc, name, _ := htmlcharset.DetermineEncoding(body, "text/html")
	if text, ok := decode(body, enc); ok {
		return text, name
	}
	return strings.ToValidUTF8(string(body), "\uFFFD"), "utf-8"
}

// ServerCharset returns the charset parameter of a Content-Type header
// value, or "" when there is none.
func ServerCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

func lookup(label string) (encoding.Encoding, string) {
	if label == "" {
		return nil, ""
	}
	return htmlcharset.Lookup(label)
}

// decode replaces invalid UTF-8 in the result and drops a leading byte
// order mark.
func decode(body []byte, enc encoding.Encoding) (string, bool) {
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", false
	}
	text := strings.ToValidUTF8(string(out), "\uFFFD")
	return strings.TrimPrefix(text, "\ufeff"), true
}
