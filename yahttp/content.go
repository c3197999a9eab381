package yahttp

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/YaCodeDev/GoYaHTTP/yaencoding"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// Content is a request body. Length returns -1 when the size is unknown up front.
// Content that cannot be written twice reports RetrySupported() == false, which
// keeps the executor from retrying or redirecting the request.
type Content interface {
	Type() string
	Length() int64
	RetrySupported() bool
	WriteTo(w io.Writer) (int64, error)
}

// opener is implemented by contents that can hand out their bytes as a reader
// without going through a pipe.
type opener interface {
	Open() (io.Reader, error)
}

// ByteContent is an in-memory body.
type ByteContent struct {
	contentType string
	data        []byte
}

// NewByteContent wraps data with the given media type.
//
// Example usage:
//
//	content := yahttp.NewByteContent("application/octet-stream", payload)
func NewByteContent(contentType string, data []byte) *ByteContent {
	return &ByteContent{contentType: contentType, data: data}
}

// NewStringContent wraps s as text/plain unless another media type is given.
func NewStringContent(s string, contentType ...string) *ByteContent {
	typ := "text/plain; charset=UTF-8"
	if len(contentType) > 0 {
		typ = contentType[0]
	}

	return NewByteContent(typ, []byte(s))
}

// NewEmptyContent is a zero-length body that still carries a media type.
func NewEmptyContent(contentType string) *ByteContent {
	return NewByteContent(contentType, nil)
}

func (c *ByteContent) Type() string { return c.contentType }

func (c *ByteContent) Length() int64 { return int64(len(c.data)) }

func (c *ByteContent) RetrySupported() bool { return true }

func (c *ByteContent) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.data)

	return int64(n), err
}

func (c *ByteContent) Open() (io.Reader, error) {
	return bytes.NewReader(c.data), nil
}

// ReaderContent streams a reader exactly once.
type ReaderContent struct {
	contentType string
	length      int64
	reader      io.Reader
	once        sync.Once
}

// NewReaderContent wraps r. Pass length -1 when unknown.
//
// Example usage:
//
//	file, _ := os.Open("upload.bin")
//	content := yahttp.NewReaderContent("application/octet-stream", size, file)
func NewReaderContent(contentType string, length int64, r io.Reader) *ReaderContent {
	return &ReaderContent{contentType: contentType, length: length, reader: r}
}

func (c *ReaderContent) Type() string { return c.contentType }

func (c *ReaderContent) Length() int64 { return c.length }

func (c *ReaderContent) RetrySupported() bool { return false }

func (c *ReaderContent) WriteTo(w io.Writer) (int64, error) {
	r, err := c.Open()
	if err != nil {
		return 0, err
	}

	return io.Copy(w, r)
}

func (c *ReaderContent) Open() (io.Reader, error) {
	first := false

	c.once.Do(func() {
		first = true
	})

	if !first {
		return nil, yaerrors.FromString(http.StatusInternalServerError, "[HTTP] reader content already consumed")
	}

	return c.reader, nil
}

// CodecContent serializes a value with a yaencoding codec on every write.
type CodecContent struct {
	codec yaencoding.Codec
	value any
}

// NewJSONContent encodes v as JSON.
//
// Example usage:
//
//	req, _ := yahttp.NewRequest(http.MethodPost, "https://api.local/users", yahttp.NewJSONContent(user))
func NewJSONContent(v any) *CodecContent {
	return &CodecContent{codec: yaencoding.JSON, value: v}
}

// NewMessagePackContent encodes v as MessagePack.
func NewMessagePackContent(v any) *CodecContent {
	return &CodecContent{codec: yaencoding.MessagePack, value: v}
}

func (c *CodecContent) Type() string { return c.codec.ContentType() }

func (c *CodecContent) Length() int64 { return -1 }

func (c *CodecContent) RetrySupported() bool { return true }

func (c *CodecContent) WriteTo(w io.Writer) (int64, error) {
	counter := &countingWriter{w: w}

	if err := c.codec.Encode(counter, c.value); err != nil {
		return counter.n, err
	}

	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
