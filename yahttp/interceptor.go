package yahttp

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"
)

// ExecuteInterceptor runs before every send and may change the request, for
// example to refresh credentials.
type ExecuteInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs once on the response handed back to the caller.
type ResponseInterceptor func(ctx context.Context, resp *Response) error

// UnsuccessfulResponseHandler gets the first look at every non-2xx response.
// Returning true means the request was fixed up and should be sent again right
// away, without back-off. supportsRetry is false when no retry is possible anyway.
type UnsuccessfulResponseHandler interface {
	HandleResponse(ctx context.Context, req *Request, resp *Response, supportsRetry bool) (bool, error)
}

// UnsuccessfulResponseHandlerFunc adapts a plain function to UnsuccessfulResponseHandler.
type UnsuccessfulResponseHandlerFunc func(ctx context.Context, req *Request, resp *Response, supportsRetry bool) (bool, error)

func (f UnsuccessfulResponseHandlerFunc) HandleResponse(
	ctx context.Context,
	req *Request,
	resp *Response,
	supportsRetry bool,
) (bool, error) {
	return f(ctx, req, resp, supportsRetry)
}

// BasicAuthentication sets an Authorization: Basic header on every send. Since
// followed redirects strip Authorization, the header is restored for each hop.
//
// Example usage:
//
//	executor := yahttp.NewExecutor(transport, cfg,
//		yahttp.WithExecuteInterceptors(yahttp.BasicAuthentication("user", "pass")))
func BasicAuthentication(username, password string) ExecuteInterceptor {
	value := "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))

	return func(_ context.Context, req *Request) error {
		req.Header.Set("Authorization", value)

		return nil
	}
}

// RequestIDInterceptor sets header to a random UUID unless already present, so
// every attempt of one logical request carries the same id.
func RequestIDInterceptor(header string) ExecuteInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, uuid.NewString())
		}

		return nil
	}
}
