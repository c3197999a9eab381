package yahttp

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/yaencoding"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yagzip"
)

// Response is the final response of a logical request. Body is already
// decompressed when the server sent gzip, and closing it drains whatever the
// caller did not read.
type Response struct {
	StatusCode   int
	Status       string
	Header       http.Header
	Body         io.ReadCloser
	Method       string
	URL          *url.URL
	Attempts     int
	Decompressed bool
}

func newResponse(tr *TransportResponse, method string, u *url.URL, attempts int) *Response {
	raw := tr.Body
	if raw == nil {
		raw = http.NoBody
	}

	header := tr.Header
	if header == nil {
		header = make(http.Header)
	}

	resp := &Response{
		StatusCode: tr.StatusCode,
		Status:     tr.Status,
		Header:     header,
		Method:     method,
		URL:        u,
		Attempts:   attempts,
	}

	if yagzip.IsGzipEncoding(strings.Join(header.Values("Content-Encoding"), ",")) {
		resp.Body = yagzip.NewDecoder(raw)
		resp.Decompressed = true
	} else {
		resp.Body = yagzip.NewConsumingReadCloser(raw, raw)
	}

	return resp
}

// IsSuccess reports a 2xx status code.
func (r *Response) IsSuccess() bool {
	return IsSuccess(r.StatusCode)
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Bytes reads the whole body and closes it.
//
// Example usage:
//
//	payload, err := resp.Bytes()
func (r *Response) Bytes() ([]byte, yaerrors.Error) {
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadGateway,
			err,
			fmt.Sprintf("[HTTP] failed to read response body of %s %s", r.Method, redact(r.URL)),
		)
	}

	return data, nil
}

// String reads the whole body as text in the charset declared by Content-Type,
// then closes it.
//
// Example usage:
//
//	text, err := resp.String()
func (r *Response) String() (string, yaerrors.Error) {
	defer r.Body.Close()

	var b strings.Builder

	if _, err := io.Copy(&b, charsetReader(r.ContentType(), r.Body)); err != nil {
		return "", yaerrors.FromError(
			http.StatusBadGateway,
			err,
			fmt.Sprintf("[HTTP] failed to read response body of %s %s", r.Method, redact(r.URL)),
		)
	}

	return b.String(), nil
}

// Decode parses the body with codec into v and closes the body.
//
// Example usage:
//
//	var user User
//	if err := resp.Decode(yaencoding.JSON, &user); err != nil {
//		return err
//	}
func (r *Response) Decode(codec yaencoding.Codec, v any) yaerrors.Error {
	defer r.Body.Close()

	if err := codec.Decode(r.Body, v); err != nil {
		return err.Wrap(fmt.Sprintf("[HTTP] decode response of %s %s", r.Method, redact(r.URL)))
	}

	return nil
}

// Ignore drains and closes the body so the connection can be reused.
func (r *Response) Ignore() error {
	return r.Body.Close()
}

// snapshot reads up to limit bytes of the body for diagnostics, then drains and
// closes it.
func (r *Response) snapshot(limit int) string {
	defer r.Ignore()

	if limit <= 0 {
		return ""
	}

	var b strings.Builder

	_, _ = io.Copy(&b, io.LimitReader(charsetReader(r.ContentType(), r.Body), int64(limit)))

	return b.String()
}

func (r *Response) unsuccessfulError() *UnsuccessfulResponseError {
	return &UnsuccessfulResponseError{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Header:     r.Header,
		Method:     r.Method,
		URL:        r.URL,
		Sends:      r.Attempts,
	}
}
