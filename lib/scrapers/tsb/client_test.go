package tsb

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExchangeKeepsCookiesOnlyFromSuccess(t *testing.T) {
	p := newPortal(t)
	p.status[1] = http.StatusInternalServerError
	p.setCookies[1] = []string{"leak=1"}
	_, baseUrl := p.start()
	client, _ := newTestClient(t, baseUrl, ClientOptions{})

	_, err := client.Exchange(context.Background(), http.MethodGet, baseUrl)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
	require.Empty(t, client.Cookies())

	body, err := client.Exchange(context.Background(), http.MethodGet, baseUrl)
	require.NoError(t, err)
	require.Contains(t, body, "signonForm")
	require.Empty(t, p.Requests()[1].Cookies)
}

func TestExchangeFiltersCookieDomains(t *testing.T) {
	p := newPortal(t)
	p.setCookies[1] = []string{
		"tracker=x; Domain=evil.com",
		"good=y; Domain=127.0.0.1",
	}
	_, baseUrl := p.start()
	client, _ := newTestClient(t, baseUrl, ClientOptions{})

	_, err := client.Exchange(context.Background(), http.MethodGet, baseUrl)
	require.NoError(t, err)
	require.Len(t, client.Cookies(), 3)

	_, err = client.Exchange(context.Background(), http.MethodGet, baseUrl)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"good":  "y",
		"visit": "1",
	}, p.Requests()[1].Cookies)
}

func TestExchangeOverwritesCookies(t *testing.T) {
	p := newPortal(t)
	_, baseUrl := p.start()
	client, _ := newTestClient(t, baseUrl, ClientOptions{})

	for i := 0; i < 3; i++ {
		_, err := client.Exchange(context.Background(), http.MethodGet, baseUrl)
		require.NoError(t, err)
	}

	requests := p.Requests()
	require.Equal(t, "2", requests[2].Cookies["visit"])
	cookies := client.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "3", cookies[0].Value)
}

func TestExchangeConnectionRefused(t *testing.T) {
	p := newPortal(t)
	server, baseUrl := p.start()
	server.Close()
	client, tel := newTestClient(t, baseUrl, ClientOptions{})

	_, err := client.Exchange(context.Background(), http.MethodGet, baseUrl)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Error(t, transportErr.Err)
	require.Len(t, tel.Reports("broken"), 1)
}

func TestNewClientRejectsRelativeUrl(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseUrl: "/online/"})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	require.Equal(t, DefaultBaseUrl, client.BaseUrl.String())
	require.Equal(t, DefaultCookieDomain, client.CookieDomain)
	require.Nil(t, client.Http.GetClient().Jar)
}

func TestParseErrorMatchesInvalidContent(t *testing.T) {
	cause := errors.New("unexpected eof")
	err := &LoginError{State: StateStart, Err: &ParseError{Page: "home", Err: cause}}

	require.ErrorIs(t, err, ErrInvalidContent)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "tsb: login: start")
}
