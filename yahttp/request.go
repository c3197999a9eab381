package yahttp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// Request describes one logical request. The executor works on its own copy, so
// a Request may be reused after Execute returns.
type Request struct {
	Method  string
	URL     *url.URL
	Header  http.Header
	Content Content
}

// NewRequest parses rawURL and builds a Request. A nil content sends no body.
//
// Example usage:
//
//	req, err := yahttp.NewRequest(http.MethodGet, "https://example.com/status", nil)
//	if err != nil {
//		return err
//	}
func NewRequest(method, rawURL string, content Content) (*Request, yaerrors.Error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrInvalidRequest, err),
			"[HTTP] failed to parse request url",
		)
	}

	if method == "" {
		method = http.MethodGet
	}

	return &Request{
		Method:  method,
		URL:     u,
		Header:  make(http.Header),
		Content: content,
	}, nil
}

// Clone returns a copy whose URL and Header can be changed independently.
func (r *Request) Clone() *Request {
	clone := *r

	if r.URL != nil {
		u := *r.URL
		if r.URL.User != nil {
			user := *r.URL.User
			u.User = &user
		}

		clone.URL = &u
	}

	clone.Header = r.Header.Clone()
	if clone.Header == nil {
		clone.Header = make(http.Header)
	}

	return &clone
}

func (r *Request) validate() yaerrors.Error {
	if r == nil || r.URL == nil {
		return yaerrors.FromError(http.StatusBadRequest, ErrInvalidRequest, "[HTTP] request has no URL")
	}

	if !r.URL.IsAbs() {
		return yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidRequest,
			fmt.Sprintf("[HTTP] request URL %q is not absolute", r.URL.Redacted()),
		)
	}

	return nil
}

func (r *Request) applyRedirect(decision RedirectDecision) {
	r.URL = decision.URL
	r.Method = decision.Method

	if decision.DropBody {
		r.Content = nil
		r.Header.Del("Content-Type")
		r.Header.Del("Content-Encoding")
	}

	for _, name := range redirectStrippedHeaders {
		r.Header.Del(name)
	}
}
