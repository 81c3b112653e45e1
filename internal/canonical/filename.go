package canonical

import (
	"net/url"
	"regexp"
	"strings"
)

// homeName is used for the root path and for paths that sanitize to nothing.
const homeName = "home"

// unsafeFileChars matches every character that may not appear in a file name.
var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// FileName derives a file name (without extension) from a canonical URL.
//
// The escaped path is used: the leading "/" is removed, the remaining "/"
// become "-", and every character other than letters, digits, "-", "_" and
// "." is dropped. The root path and empty results map to "home".
// Distinct URLs may map to the same name; the later write wins.
func FileName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return homeName
	}

	p := u.EscapedPath()
	if p == "" || p == "/" {
		return homeName
	}

	p = strings.TrimPrefix(p, "/")
	p = strings.ReplaceAll(p, "/", "-")
	p = unsafeFileChars.ReplaceAllString(p, "")
	if p == "" {
		return homeName
	}
	return p
}
