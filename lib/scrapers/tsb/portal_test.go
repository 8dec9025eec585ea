package tsb

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

const signonPage = `<!DOCTYPE html>
<html><body>
	<form id="search"><input name="q"></form>
	<form id="signonForm" method="post">
		<input name="card">
		<input name="password" type="password">
		<input name="op" value="signon" type="hidden">
		<input type="submit" value="Log in">
	</form>
</body></html>`

const dashboardPage = `<!DOCTYPE html>
<html><body>
	<svg><dashboard customer-number="svg-decoy"></dashboard></svg>
	<form id="nav"><input name="nextSequenceID" value="12345" type="hidden"></form>
	<div><dashboard customer-number="987-654"></dashboard></div>
</body></html>`

type portalRequest struct {
	Method  string
	Cookies map[string]string
	Body    string
}

// portal fakes the online banking site: the signon page until a valid login
// has set the session cookie, the dashboard afterwards.
type portal struct {
	t *testing.T

	username string
	password string

	signonPage    string
	dashboardPage string
	// status overrides the response status of the n-th request (1 based)
	status map[int]int
	// extra Set-Cookie headers for the n-th request
	setCookies map[int][]string

	mutex    sync.Mutex
	requests []portalRequest
}

func newPortal(t *testing.T) *portal {
	return &portal{
		t:             t,
		username:      "alice",
		password:      "secret",
		signonPage:    signonPage,
		dashboardPage: dashboardPage,
		status:        map[int]int{},
		setCookies:    map[int][]string{},
	}
}

func (p *portal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		p.t.Error(err)
	}

	cookies := map[string]string{}
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}

	p.mutex.Lock()
	p.requests = append(p.requests, portalRequest{
		Method:  r.Method,
		Cookies: cookies,
		Body:    string(body),
	})
	n := len(p.requests)
	p.mutex.Unlock()

	for _, c := range p.setCookies[n] {
		w.Header().Add("Set-Cookie", c)
	}
	if status, ok := p.status[n]; ok {
		w.WriteHeader(status)
		fmt.Fprintf(w, "<html><body>error %d</body></html>", status)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Add("Set-Cookie", fmt.Sprintf("visit=%d; Path=/online", n))
		if cookies["JSESSIONID"] == "authenticated" {
			io.WriteString(w, p.dashboardPage)
			return
		}
		io.WriteString(w, p.signonPage)
	case http.MethodPost:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if values.Get("card") == p.username && values.Get("password") == p.password {
			w.Header().Add("Set-Cookie", "JSESSIONID=authenticated; Path=/online; Secure; HttpOnly")
		}
		io.WriteString(w, "<html><body>redirecting</body></html>")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (p *portal) Requests() []portalRequest {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := make([]portalRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *portal) start() (*httptest.Server, string) {
	server := httptest.NewServer(p)
	p.t.Cleanup(server.Close)
	return server, server.URL + "/online/"
}
