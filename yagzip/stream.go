package yagzip

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// EncodingGzip is the Content-Encoding token written on compressed requests.
const EncodingGzip = "gzip"

// Encode compresses whatever write produces straight into dst.
//
// Example:
//
//	err := g.Encode(conn, func(w io.Writer) error {
//		_, err := io.Copy(w, file)
//		return err
//	})
func (g *Gzip) Encode(dst io.Writer, write func(w io.Writer) error) yaerrors.Error {
	zw, err := gzip.NewWriterLevel(dst, g.Level)
	if err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[GZIP] failed to create writer",
		)
	}

	if err := write(zw); err != nil {
		_ = zw.Close()

		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[GZIP] failed to write payload to gzip writer",
		)
	}

	if err := zw.Close(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"[GZIP] failed to close gzip writer",
		)
	}

	return nil
}

// EncodeReader returns a stream of the gzip-compressed output of write. Compression
// runs in its own goroutine and is paced by the reader. Closing the reader early
// aborts the producer.
//
// Example:
//
//	body := g.EncodeReader(content.WriteTo)
//	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
func (g *Gzip) EncodeReader(write func(w io.Writer) error) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		err := g.Encode(pw, write)
		if err != nil {
			_ = pw.CloseWithError(err)

			return
		}

		_ = pw.Close()
	}()

	return pr
}

// NewDecoder wraps a gzip-encoded body. The gzip header is read lazily on the
// first Read, an empty body decodes to an empty stream, and Close drains and
// closes body.
//
// Example:
//
//	if yagzip.IsGzipEncoding(resp.Header.Get("Content-Encoding")) {
//		resp.Body = yagzip.NewDecoder(resp.Body)
//	}
func NewDecoder(body io.ReadCloser) io.ReadCloser {
	return &decoder{raw: NewConsumingReadCloser(body, body)}
}

type decoder struct {
	raw io.ReadCloser
	zr  *gzip.Reader
	err error
}

func (d *decoder) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}

	if d.zr == nil {
		zr, err := gzip.NewReader(d.raw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.err = io.EOF
			} else {
				d.err = yaerrors.FromError(
					http.StatusBadGateway,
					err,
					"[GZIP] failed to read gzip header",
				)
			}

			return 0, d.err
		}

		// One member is the whole body; anything after it is drained by Close.
		zr.Multistream(false)

		d.zr = zr
	}

	n, err := d.zr.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		d.err = yaerrors.FromError(
			http.StatusBadGateway,
			err,
			"[GZIP] failed to read from gzip stream",
		)

		return n, d.err
	}

	return n, err
}

func (d *decoder) Close() error {
	if d.zr != nil {
		_ = d.zr.Close()
	}

	return d.raw.Close()
}

// NewConsumingReadCloser returns r whose Close first discards everything left in
// raw and then closes raw. r and raw may be the same stream.
func NewConsumingReadCloser(r io.Reader, raw io.ReadCloser) io.ReadCloser {
	return &consumingReadCloser{Reader: r, raw: raw}
}

type consumingReadCloser struct {
	io.Reader
	raw  io.ReadCloser
	once sync.Once
	err  error
}

func (c *consumingReadCloser) Close() error {
	c.once.Do(func() {
		_, drainErr := io.Copy(io.Discard, c.raw)
		closeErr := c.raw.Close()

		c.err = errors.Join(drainErr, closeErr)
	})

	return c.err
}

// IsGzipEncoding reports whether a Content-Encoding header value ends in the gzip
// coding. Only the exact tokens "gzip" and "x-gzip" match, case-insensitively.
//
// Example:
//
//	yagzip.IsGzipEncoding("GZIP")         // true
//	yagzip.IsGzipEncoding("br, gzip")     // true
//	yagzip.IsGzipEncoding("gzip-custom")  // false
func IsGzipEncoding(header string) bool {
	codings := strings.Split(header, ",")
	last := strings.TrimSpace(codings[len(codings)-1])

	return strings.EqualFold(last, "gzip") || strings.EqualFold(last, "x-gzip")
}
