package yahttp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
	"github.com/YaCodeDev/GoYaHTTP/yaproxy"
)

// TransportRequest is a single physical send. ContentLength is -1 when the body
// size is unknown.
type TransportRequest struct {
	Method        string
	URL           *url.URL
	Header        http.Header
	Body          io.ReadCloser
	ContentLength int64
}

// TransportResponse is the raw outcome of a send.
type TransportResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       io.ReadCloser
}

// Transport performs one physical attempt. It returns an error only when no
// response was obtained. It must neither follow redirects nor decompress bodies.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

func (f TransportFunc) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// NetTransport sends requests with net/http.
type NetTransport struct {
	client *http.Client
}

// NewNetTransport builds a NetTransport with a per-attempt timeout, transparent
// decompression disabled and requests routed through proxyURL (see yaproxy.Apply).
//
// Example usage:
//
//	transport, err := yahttp.NewNetTransport(20*time.Second, "", log)
func NewNetTransport(timeout time.Duration, proxyURL string, log yalogger.Logger) (*NetTransport, yaerrors.Error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}

	transport := base.Clone()
	transport.DisableCompression = true

	if err := yaproxy.Apply(transport, proxyURL, log); err != nil {
		return nil, err.Wrap("[HTTP] configure transport proxy")
	}

	return NewNetTransportWithClient(&http.Client{
		Transport: transport,
		Timeout:   timeout,
	}), nil
}

// NewNetTransportWithClient reuses client's transport, jar and timeout. Redirects
// are always left to the executor.
func NewNetTransportWithClient(client *http.Client) *NetTransport {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &NetTransport{client: &c}
}

func (t *NetTransport) Send(ctx context.Context, tr *TransportRequest) (*TransportResponse, error) {
	var body io.Reader
	if tr.Body != nil {
		body = tr.Body
	}

	req, err := http.NewRequestWithContext(ctx, tr.Method, tr.URL.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header = tr.Header
	if tr.Body != nil {
		req.ContentLength = tr.ContentLength
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       resp.Body,
	}, nil
}
