package yahttp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// RedirectDecision tells the executor how to continue after a response.
type RedirectDecision struct {
	Follow   bool
	URL      *url.URL
	Method   string
	DropBody bool
}

// redirectStrippedHeaders are removed from a request before it follows a redirect.
var redirectStrippedHeaders = []string{
	"Authorization",
	"If-Match",
	"If-None-Match",
	"If-Modified-Since",
	"If-Unmodified-Since",
	"If-Range",
}

// ResolveRedirect decides whether a response redirects the request at current.
// 303 turns the request into a body-less GET; 301, 302, 307 and 308 keep method
// and body. The Location header is resolved against current. A redirect status
// without a usable Location returns a RedirectProtocolError.
//
// Example usage:
//
//	decision, err := yahttp.ResolveRedirect(resp.StatusCode, resp.Header, http.MethodPost, reqURL)
//	if err != nil {
//		return err
//	}
//	if decision.Follow {
//		reqURL, method = decision.URL, decision.Method
//	}
func ResolveRedirect(
	statusCode int,
	header http.Header,
	method string,
	current *url.URL,
) (RedirectDecision, yaerrors.Error) {
	if !IsRedirect(statusCode) {
		return RedirectDecision{}, nil
	}

	location := header.Get("Location")
	if location == "" {
		return RedirectDecision{}, redirectError(statusCode, location, "missing Location header", nil)
	}

	target, err := url.Parse(location)
	if err != nil {
		return RedirectDecision{}, redirectError(statusCode, location, "malformed Location header", err)
	}

	if current != nil {
		target = current.ResolveReference(target)
	}

	if !target.IsAbs() {
		return RedirectDecision{}, redirectError(statusCode, location, "Location does not resolve to an absolute URL", nil)
	}

	decision := RedirectDecision{
		Follow: true,
		URL:    target,
		Method: method,
	}

	if statusCode == http.StatusSeeOther {
		decision.Method = http.MethodGet
		decision.DropBody = true
	}

	return decision, nil
}

func redirectError(statusCode int, location, reason string, cause error) yaerrors.Error {
	if cause != nil {
		reason = fmt.Sprintf("%s: %v", reason, cause)
	}

	return yaerrors.FromError(
		http.StatusBadGateway,
		&RedirectProtocolError{
			StatusCode: statusCode,
			Location:   location,
			Reason:     reason,
		},
		"[HTTP] redirect",
	)
}
