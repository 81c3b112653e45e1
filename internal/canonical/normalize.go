package canonical

import (
	"net/url"
	"regexp"
	"strings"
)

// absoluteURLPattern matches hrefs that carry their own http(s) scheme.
var absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)

// Normalizer produces canonical URLs for a single target host.
// The zero value rejects every URL; use NewNormalizer.
type Normalizer struct {
	// host is the lower-cased hostname URLs must belong to.
	host string
}

// NewNormalizer creates a Normalizer for the given hostname.
// The hostname is compared case-insensitively and without the port.
func NewNormalizer(host string) Normalizer {
	return Normalizer{host: strings.ToLower(host)}
}

// Host returns the target hostname.
func (n Normalizer) Host() string {
	return n.host
}

// Normalize resolves href against the page it was found on and returns the
// canonical URL. The second return value is false when the href does not
// lead to a crawlable page of the target host: empty and fragment-only
// hrefs, unparseable hrefs, other schemes and other hosts.
func (n Normalizer) Normalize(href, basePage string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	u, ok := resolve(href, basePage)
	if !ok {
		return "", false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if n.host == "" || !strings.EqualFold(u.Hostname(), n.host) {
		return "", false
	}

	return canonicalize(u), true
}

// Resolve resolves href against base without any host restriction and
// returns the absolute URL string. The query and fragment are kept.
// It is used for resources such as images that may live on another host.
func Resolve(href, base string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, ok := resolve(href, base)
	if !ok {
		return "", false
	}
	return u.String(), true
}

// resolve parses href, resolving it against base unless it is already an
// absolute http(s) URL. Dot segments are removed in both cases.
func resolve(href, base string) (*url.URL, bool) {
	if absoluteURLPattern.MatchString(href) {
		u, err := url.Parse(href)
		if err != nil {
			return nil, false
		}
		// An absolute reference ignores the base apart from path cleanup.
		return u.ResolveReference(u), true
	}

	b, err := url.Parse(base)
	if err != nil {
		return nil, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	return b.ResolveReference(ref), true
}

// defaultPorts maps schemes to the port that is implied when none is given.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// canonicalize strips the query and fragment, lower-cases scheme and host,
// drops a default port and turns an empty path into "/".
func canonicalize(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	if port := c.Port(); port != "" && defaultPorts[c.Scheme] == port {
		c.Host = strings.TrimSuffix(c.Host, ":"+port)
	}
	c.User = nil
	c.RawQuery = ""
	c.ForceQuery = false
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return c.String()
}
