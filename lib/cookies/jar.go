// Package cookies keeps the cookies of a single scraping session.
//
// Unlike net/http/cookiejar, a Jar never decides on its own when to store or
// send cookies: the owner feeds it response headers and asks it for the
// cookies to attach to the next request.
package cookies

import (
	"net/http"
	"strings"
)

type Cookie struct {
	Name  string
	Value string
	// Domain is nil when the cookie did not specify one, it is then treated
	// as belonging to the base domain of the session.
	Domain *string
	// Secure is nil when unspecified, which counts as secure.
	Secure *bool
}

func (c Cookie) domainOr(base string) string {
	if c.Domain == nil {
		return base
	}
	return *c.Domain
}

func (c Cookie) sendable() bool {
	return c.Secure == nil || *c.Secure
}

// Pair is a cookie as it appears in a Cookie request header.
type Pair struct {
	Name  string
	Value string
}

// Jar holds cookies keyed by name in insertion order, setting a cookie with
// a name already present replaces its value in place. A Jar is not safe for
// concurrent use.
type Jar struct {
	cookies []Cookie
	index   map[string]int
}

func NewJar() *Jar {
	return &Jar{index: map[string]int{}}
}

func (j *Jar) Set(c Cookie) {
	if j.index == nil {
		j.index = map[string]int{}
	}
	if i, ok := j.index[c.Name]; ok {
		j.cookies[i] = c
		return
	}
	j.index[c.Name] = len(j.cookies)
	j.cookies = append(j.cookies, c)
}

func (j *Jar) Len() int {
	return len(j.cookies)
}

// Snapshot returns a copy of every cookie in the jar.
func (j *Jar) Snapshot() []Cookie {
	out := make([]Cookie, len(j.cookies))
	copy(out, j.cookies)
	return out
}

// Ingest stores every cookie in the Set-Cookie headers of a response.
// Values that do not parse are dropped.
func (j *Jar) Ingest(header http.Header) int {
	count := 0
	for _, line := range header.Values("Set-Cookie") {
		c, ok := parseSetCookie(line)
		if !ok {
			continue
		}
		j.Set(c)
		count++
	}
	return count
}

// Outgoing returns the cookies that may be sent to `baseDomain`: those not
// explicitly marked insecure and whose domain (or `baseDomain` if they have
// none) ends with `baseDomain`.
func (j *Jar) Outgoing(baseDomain string) []Pair {
	var out []Pair
	for _, c := range j.cookies {
		if !c.sendable() {
			continue
		}
		if !strings.HasSuffix(c.domainOr(baseDomain), baseDomain) {
			continue
		}
		out = append(out, Pair{Name: c.Name, Value: c.Value})
	}
	return out
}

// parseSetCookie goes through net/http's parser, which silently skips
// malformed headers, so a header yielding no cookie is a parse failure.
func parseSetCookie(line string) (Cookie, bool) {
	res := http.Response{Header: http.Header{"Set-Cookie": {line}}}
	parsed := res.Cookies()
	if len(parsed) == 0 {
		return Cookie{}, false
	}
	hc := parsed[0]

	c := Cookie{Name: hc.Name, Value: hc.Value}
	if hc.Domain != "" {
		domain := hc.Domain
		c.Domain = &domain
	}
	if hc.Secure {
		secure := true
		c.Secure = &secure
	}
	return c, true
}
