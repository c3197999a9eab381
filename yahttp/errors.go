package yahttp

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// StatusClientClosedRequest is the code carried by cancellation errors.
const StatusClientClosedRequest = 499

var (
	ErrTransport            = errors.New("transport failure")
	ErrUnsuccessfulResponse = errors.New("unsuccessful response")
	ErrRedirectProtocol     = errors.New("redirect protocol violation")
	ErrCanceled             = errors.New("request canceled")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInterceptor          = errors.New("interceptor failed")
)

// TransportError reports that no response was obtained for a request.
type TransportError struct {
	Method string
	URL    *url.URL
	Sends  int
	Cause  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: no response after %d sends: %v", e.Method, redact(e.URL), e.Sends, e.Cause)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Cause}
}

// UnsuccessfulResponseError reports a terminal non-2xx response. Content holds the
// start of the response body, decoded with its declared charset and cut at the
// configured content logging limit.
type UnsuccessfulResponseError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Content    string
	Method     string
	URL        *url.URL
	Sends      int
}

// Error formats "<code> <reason>", then "<METHOD> <URL>", then the body excerpt,
// each on its own line.
func (e *UnsuccessfulResponseError) Error() string {
	var b strings.Builder

	b.WriteString(statusLine(e.StatusCode, e.Status))

	if e.Method != "" || e.URL != nil {
		b.WriteString("\n")
		b.WriteString(e.Method)
		b.WriteString(" ")
		b.WriteString(redact(e.URL))
	}

	if e.Content != "" {
		b.WriteString("\n")
		b.WriteString(e.Content)
	}

	return b.String()
}

func (e *UnsuccessfulResponseError) Unwrap() error {
	return ErrUnsuccessfulResponse
}

// RedirectProtocolError reports a redirect status that cannot be followed, such as
// one without a Location header. It is never retried. Response describes the
// offending response once the executor has captured it.
type RedirectProtocolError struct {
	StatusCode int
	Location   string
	Reason     string
	Response   *UnsuccessfulResponseError
}

func (e *RedirectProtocolError) Error() string {
	msg := fmt.Sprintf("cannot follow %d redirect: %s", e.StatusCode, e.Reason)
	if e.Location != "" {
		msg += fmt.Sprintf(" (Location %q)", e.Location)
	}

	if e.Response != nil {
		msg += "\n" + e.Response.Error()
	}

	return msg
}

func (e *RedirectProtocolError) Unwrap() []error {
	if e.Response != nil {
		return []error{ErrRedirectProtocol, e.Response}
	}

	return []error{ErrRedirectProtocol}
}

// CancellationError reports that the request was stopped through its context,
// either during a back-off wait or while a send was in flight. Last is the failure
// that was being retried, if any.
type CancellationError struct {
	Method string
	URL    *url.URL
	Sends  int
	Cause  error
	Last   error
}

func (e *CancellationError) Error() string {
	msg := fmt.Sprintf("%s %s: canceled after %d sends: %v", e.Method, redact(e.URL), e.Sends, e.Cause)
	if e.Last != nil {
		msg += fmt.Sprintf(" (last failure: %v)", e.Last)
	}

	return msg
}

func (e *CancellationError) Unwrap() []error {
	return []error{ErrCanceled, e.Cause}
}

func statusLine(code int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprint(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}

	if reason == "" {
		return fmt.Sprint(code)
	}

	return fmt.Sprintf("%d %s", code, reason)
}

func redact(u *url.URL) string {
	if u == nil {
		return ""
	}

	return u.Redacted()
}
