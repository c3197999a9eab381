// Package yagzip implements the gzip content coding for HTTP bodies. Outgoing
// content is compressed while it is written, incoming bodies are decompressed
// while they are read, and both directions are also available as []byte helpers.
//
// Compressed request bodies have no known length, so they go out chunked. A
// decoded response body drains the raw stream on Close so the connection can be
// reused even when the caller stopped reading early.
//
// Example:
//
//	g := yagzip.NewGzip()
//
//	body := g.EncodeReader(func(w io.Writer) error {
//		_, err := w.Write(payload)
//		return err
//	})
//
//	if yagzip.IsGzipEncoding(resp.Header.Get("Content-Encoding")) {
//		resp.Body = yagzip.NewDecoder(resp.Body)
//	}
package yagzip

import (
	"bytes"
	"compress/flate"
	"errors"
	"io"
	"net/http"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

const (
	DefaultCompression               = flate.DefaultCompression
	DefaultMaxDecompressedSize int64 = 64 << 20
)

var ErrDecompressedPayloadTooLarge = errors.New("decompressed payload exceeds configured limit")

// Gzip holds the compression level for encoding and the ceiling Unzip applies to
// decompressed payloads.
type Gzip struct {
	Level               int
	MaxDecompressedSize int64
}

func NewGzipWithLevelAndMaxSize(level int, maxDecompressedSize int64) *Gzip {
	return &Gzip{
		Level:               level,
		MaxDecompressedSize: maxDecompressedSize,
	}
}

func NewGzipWithLevel(level int) *Gzip {
	return NewGzipWithLevelAndMaxSize(level, DefaultMaxDecompressedSize)
}

func NewGzip() *Gzip {
	return NewGzipWithLevel(DefaultCompression)
}

// Zip compresses payload in memory.
//
// Example:
//
//	zipped, err := yagzip.NewGzip().Zip([]byte(`{"id":1}`))
func (g *Gzip) Zip(payload []byte) ([]byte, yaerrors.Error) {
	var buf bytes.Buffer

	err := g.Encode(&buf, func(w io.Writer) error {
		_, werr := w.Write(payload)

		return werr
	})
	if err != nil {
		return nil, err.Wrap("[GZIP] zip")
	}

	return buf.Bytes(), nil
}

// Unzip decompresses compressed in memory and fails with
// ErrDecompressedPayloadTooLarge once the output passes MaxDecompressedSize.
// Empty input decodes to an empty payload.
//
// Example:
//
//	payload, err := yagzip.NewGzip().Unzip(zipped)
//	if errors.Is(err, yagzip.ErrDecompressedPayloadTooLarge) {
//		// refuse the body
//	}
func (g *Gzip) Unzip(compressed []byte) ([]byte, yaerrors.Error) {
	limit := g.MaxDecompressedSize
	if limit <= 0 {
		limit = DefaultMaxDecompressedSize
	}

	decoder := NewDecoder(io.NopCloser(bytes.NewReader(compressed)))
	defer decoder.Close()

	var out bytes.Buffer

	if _, err := io.Copy(&out, io.LimitReader(decoder, limit+1)); err != nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, err, "[GZIP] unzip")
	}

	if int64(out.Len()) > limit {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrDecompressedPayloadTooLarge,
			"[GZIP] unzip",
		)
	}

	return out.Bytes(), nil
}
