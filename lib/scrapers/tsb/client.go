package tsb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tsb-banking/lib/cookies"
	"tsb-banking/lib/htmlutil"
	"tsb-banking/lib/restyutil"
	"tsb-banking/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl      = "https://homebank.tsbbank.co.nz/online/"
	DefaultCookieDomain = "tsbbank.co.nz"
)

const (
	report_client_exchange     = "client.exchange"
	report_client_get_document = "client.get-document"
	report_client_login        = "client.login"
)

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// CookieDomain defaults to DefaultCookieDomain, only cookies for this
	// domain (or its subdomains) are sent.
	CookieDomain string
	// Timeout of a single request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond paces requests, defaults to 2.
	RequestsPerSecond float64
	// CloudflareBypass wraps the transport with cloudflare-bp.
	CloudflareBypass bool
	// DetectRejectedLogin fails the login with ErrBadCredentials when the
	// signon form is still present after submitting the credentials.
	DetectRejectedLogin bool

	// DebugOutput receives a dump of every exchange, nil disables dumps.
	DebugOutput restyutil.InstrumentOutput
	// Telemetry defaults to telemetry.SlogAPI.
	Telemetry telemetry.API
}

// Client is a single session against the online banking site. It owns its
// cookie jar and is not safe for concurrent use, use one Client per login.
type Client struct {
	BaseUrl      *url.URL
	CookieDomain string
	Http         *resty.Client

	jar                 *cookies.Jar
	detectRejectedLogin bool
	tel                 telemetry.API
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.CookieDomain == "" {
		opts.CookieDomain = DefaultCookieDomain
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.SlogAPI{}
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %s", opts.BaseUrl)
	}

	httpClient := resty.New()
	// the session's cookies live in Client.jar, resty must not keep its own
	httpClient.SetCookieJar(nil)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "tsb.lib.scrapers.tsb.http")
	restyutil.InstrumentClient(httpClient, opts.DebugOutput)

	return &Client{
		BaseUrl:             baseUrl,
		CookieDomain:        opts.CookieDomain,
		Http:                httpClient,
		jar:                 cookies.NewJar(),
		detectRejectedLogin: opts.DetectRejectedLogin,
		tel:                 telemetry.NewScopedAPI("tsb_scraper", opts.Telemetry),
	}, nil
}

// Cookies returns a snapshot of the session's cookie jar.
func (c *Client) Cookies() []cookies.Cookie {
	return c.jar.Snapshot()
}

// RequestOption customizes a request before it is sent.
type RequestOption func(req *resty.Request)

// WithForm sends `params` form encoded, in the given order.
func WithForm(params []Param) RequestOption {
	return func(req *resty.Request) {
		req.SetHeader("content-type", "application/x-www-form-urlencoded")
		req.SetBody(EncodeParams(params))
	}
}

// Param is a single form field.
type Param struct {
	Name  string
	Value string
}

// EncodeParams form encodes `params` keeping their order and duplicates,
// which url.Values does not.
func EncodeParams(params []Param) string {
	var out strings.Builder
	for i, p := range params {
		if i > 0 {
			out.WriteByte('&')
		}
		out.WriteString(url.QueryEscape(p.Name))
		out.WriteByte('=')
		out.WriteString(url.QueryEscape(p.Value))
	}
	return out.String()
}

// Exchange makes a single request with the session's cookies attached and
// returns the response body. Cookies set by the response are stored only if
// the response status is 2xx, any other status is a *TransportError.
func (c *Client) Exchange(ctx context.Context, method, endpoint string, opts ...RequestOption) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Exchange", trace.WithAttributes(
		attribute.String("method", method),
		attribute.String("url", endpoint),
	))
	defer span.End()

	req := c.Http.R().SetContext(ctx)
	outgoing := c.jar.Outgoing(c.CookieDomain)
	for _, p := range outgoing {
		req.SetCookie(&http.Cookie{Name: p.Name, Value: p.Value})
	}
	for _, opt := range opts {
		opt(req)
	}
	span.SetAttributes(attribute.Int("cookies.sent", len(outgoing)))

	res, err := req.Execute(method, endpoint)
	if err != nil {
		err = &TransportError{Method: method, URL: endpoint, Err: err}
		c.tel.ReportBroken(report_client_exchange, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", err
	}
	if !res.IsSuccess() {
		err = &TransportError{Method: method, URL: endpoint, StatusCode: res.StatusCode()}
		c.tel.ReportBroken(report_client_exchange, err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	received := c.jar.Ingest(res.Header())
	span.SetAttributes(attribute.Int("cookies.received", received))
	c.tel.ReportCount(report_client_exchange, int64(c.jar.Len()))

	return res.String(), nil
}

// GetDocument fetches the base url and parses it, `page` names the page in
// errors and debug dumps.
func (c *Client) GetDocument(ctx context.Context, page string) (*html.Node, error) {
	ctx, span := tracer.Start(ctx, "client:GetDocument")
	defer span.End()

	text, err := c.Exchange(
		restyutil.WithMessageName(ctx, page),
		http.MethodGet,
		c.BaseUrl.String(),
	)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}

	doc, err := htmlutil.ParseString(ctx, text)
	if err != nil {
		err = &ParseError{Page: page, Err: err}
		c.tel.ReportBroken(report_client_get_document, err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
