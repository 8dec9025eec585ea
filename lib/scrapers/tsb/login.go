package tsb

import (
	"context"
	"net/http"

	"tsb-banking/lib/cookies"
	"tsb-banking/lib/credentials"
	"tsb-banking/lib/htmlutil"
	"tsb-banking/lib/restyutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

const (
	signonFormId       = "signonForm"
	usernameField      = "card"
	passwordField      = "password"
	sequenceIdMarker   = "nextSequenceID"
	dashboardTag       = "dashboard"
	customerNumberAttr = "customer-number"
)

// LoginState is a step of the login protocol, a LoginError carries the state
// that was being left when the error occurred.
type LoginState string

const (
	StateStart                LoginState = "start"
	StateHomeFetched          LoginState = "home-fetched"
	StateFormLocated          LoginState = "form-located"
	StateCredentialsSubmitted LoginState = "credentials-submitted"
	StatePostLoginFetched     LoginState = "post-login-fetched"
	StateTokensExtracted      LoginState = "tokens-extracted"
)

// Session is the result of a successful login.
type Session struct {
	Cookies        []cookies.Cookie
	NextSequenceID string
	CustomerNumber string
}

type login struct {
	client *Client
	creds  credentials.Credentials
	state  LoginState
	span   trace.Span
}

func (l *login) advance(next LoginState) {
	l.client.tel.ReportDebug("login state", l.state, next)
	l.span.AddEvent("state", trace.WithAttributes(
		attribute.String("from", string(l.state)),
		attribute.String("to", string(next)),
	))
	l.state = next
}

func (l *login) fail(err error) error {
	l.span.RecordError(err)
	l.span.SetStatus(codes.Error, string(l.state))
	return &LoginError{State: l.state, Err: err}
}

// Login signs on with `creds`: it fetches the home page, submits the signon
// form with the credentials filled in, fetches the home page again and reads
// the session tokens from it. Nothing is retried, the first failure is
// returned as a *LoginError.
func (c *Client) Login(ctx context.Context, creds credentials.Credentials) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	l := &login{client: c, creds: creds, state: StateStart, span: span}

	doc, err := c.GetDocument(ctx, "home")
	if err != nil {
		return Session{}, l.fail(err)
	}
	l.advance(StateHomeFetched)

	form, ok := htmlutil.FindFormByID(doc, signonFormId)
	if !ok {
		c.tel.ReportWarning(report_client_login, ErrInvalidDom)
		return Session{}, l.fail(ErrInvalidDom)
	}
	l.advance(StateFormLocated)

	params := SignonParams(form, creds)
	_, err = c.Exchange(
		restyutil.WithMessageName(ctx, "signon"),
		http.MethodPost,
		c.BaseUrl.String(),
		WithForm(params),
	)
	if err != nil {
		return Session{}, l.fail(err)
	}
	l.advance(StateCredentialsSubmitted)

	doc, err = c.GetDocument(ctx, "dashboard")
	if err != nil {
		return Session{}, l.fail(err)
	}
	l.advance(StatePostLoginFetched)

	if c.detectRejectedLogin {
		if _, stillThere := htmlutil.FindFormByID(doc, signonFormId); stillThere {
			c.tel.ReportWarning(report_client_login, ErrBadCredentials)
			return Session{}, l.fail(ErrBadCredentials)
		}
	}

	sequenceId, err := FindNextSequenceID(doc)
	if err != nil {
		c.tel.ReportWarning(report_client_login, err)
		return Session{}, l.fail(err)
	}
	customerNumber, err := FindCustomerNumber(doc)
	if err != nil {
		c.tel.ReportWarning(report_client_login, err)
		return Session{}, l.fail(err)
	}
	l.advance(StateTokensExtracted)

	return Session{
		Cookies:        c.jar.Snapshot(),
		NextSequenceID: sequenceId,
		CustomerNumber: customerNumber,
	}, nil
}

// SignonParams builds the fields to submit for a signon form: every named
// input keeps its value (or "") except the username and password fields.
func SignonParams(form *html.Node, creds credentials.Credentials) []Param {
	var params []Param
	for _, element := range htmlutil.FindInputs(form) {
		name, ok := element.Name()
		if !ok {
			continue
		}
		value, _ := element.Value()
		switch name {
		case usernameField:
			value = creds.Username
		case passwordField:
			value = creds.Password
		}
		params = append(params, Param{Name: name, Value: value})
	}
	return params
}

// FindNextSequenceID returns the value of the first input whose name or id
// is nextSequenceID. Matching inputs without a value are skipped.
func FindNextSequenceID(doc *html.Node) (string, error) {
	for _, element := range htmlutil.FindInputs(doc) {
		name, _ := element.Name()
		id, _ := element.ID()
		if name != sequenceIdMarker && id != sequenceIdMarker {
			continue
		}
		value, ok := element.Value()
		if ok {
			return value, nil
		}
	}
	return "", ErrMissingSequenceID
}

// FindCustomerNumber returns the customer-number attribute of the first
// <dashboard> element carrying one.
func FindCustomerNumber(doc *html.Node) (string, error) {
	var customerNumber string
	found := false
	htmlutil.Walk(doc, func(node *html.Node) bool {
		tag, ok := htmlutil.TagName(node)
		if !ok || tag != dashboardTag {
			return true
		}
		customerNumber, found = htmlutil.Attr(node, customerNumberAttr)
		return !found
	})
	if !found {
		return "", ErrMissingCustomerNumber
	}
	return customerNumber, nil
}
