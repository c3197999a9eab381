package yagzip_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaHTTP/yagzip"
)

type trackingBody struct {
	*bytes.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true

	return nil
}

func gzipBytes(t *testing.T, payload string) []byte {
	t.Helper()

	z, err := yagzip.NewGzip().Zip([]byte(payload))
	require.Nil(t, err)

	return z
}

func TestEncodeReader_RoundTrip(t *testing.T) {
	payload := strings.Repeat("streamed content ", 4096)

	body := yagzip.NewGzip().EncodeReader(func(w io.Writer) error {
		_, err := io.WriteString(w, payload)

		return err
	})
	defer body.Close()

	zr, err := gzip.NewReader(body)
	require.NoError(t, err)

	out, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Equal(t, payload, string(out))
}

func TestEncodeReader_PropagatesProducerError(t *testing.T) {
	body := yagzip.NewGzip().EncodeReader(func(io.Writer) error {
		return assert.AnError
	})
	defer body.Close()

	_, err := io.ReadAll(body)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEncode_WritesGzip(t *testing.T) {
	var buf bytes.Buffer

	err := yagzip.NewGzip().Encode(&buf, func(w io.Writer) error {
		_, err := w.Write([]byte("abc"))

		return err
	})
	require.Nil(t, err)

	out, uerr := yagzip.NewGzip().Unzip(buf.Bytes())
	require.Nil(t, uerr)
	assert.Equal(t, "abc", string(out))
}

func TestDecoder_DrainsTrailingBytesOnClose(t *testing.T) {
	raw := append(gzipBytes(t, "logical content"), []byte("trailing framing")...)

	body := &trackingBody{Reader: bytes.NewReader(raw)}
	decoder := yagzip.NewDecoder(body)

	buf := make([]byte, 7)
	n, err := io.ReadFull(decoder, buf)
	require.NoError(t, err)
	assert.Equal(t, "logical", string(buf[:n]))

	require.NoError(t, decoder.Close())

	assert.True(t, body.closed)
	assert.Zero(t, body.Len(), "underlying stream must be fully consumed")
}

func TestDecoder_ReadAllStopsAtEndOfMember(t *testing.T) {
	raw := append(gzipBytes(t, "logical content"), []byte("trailing framing")...)

	body := &trackingBody{Reader: bytes.NewReader(raw)}
	decoder := yagzip.NewDecoder(body)

	out, err := io.ReadAll(decoder)
	require.NoError(t, err)
	assert.Equal(t, "logical content", string(out))

	require.NoError(t, decoder.Close())

	assert.True(t, body.closed)
	assert.Zero(t, body.Len())
}

func TestDecoder_EmptyBody(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewReader(nil)}
	decoder := yagzip.NewDecoder(body)

	out, err := io.ReadAll(decoder)
	require.NoError(t, err)
	assert.Empty(t, out)

	require.NoError(t, decoder.Close())
	assert.True(t, body.closed)
}

func TestDecoder_InvalidHeader(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewReader([]byte("plain text, not gzip"))}
	decoder := yagzip.NewDecoder(body)

	_, err := io.ReadAll(decoder)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gzip.ErrHeader))

	require.NoError(t, decoder.Close())
	assert.Zero(t, body.Len())
}

func TestConsumingReadCloser_ClosesOnce(t *testing.T) {
	body := &trackingBody{Reader: bytes.NewReader([]byte("unread"))}
	rc := yagzip.NewConsumingReadCloser(body, body)

	require.NoError(t, rc.Close())
	require.NoError(t, rc.Close())

	assert.True(t, body.closed)
	assert.Zero(t, body.Len())
}

func TestIsGzipEncoding(t *testing.T) {
	cases := map[string]bool{
		"gzip":            true,
		"GZIP":            true,
		" GZip ":          true,
		"x-gzip":          true,
		"deflate, gzip":   true,
		"gzip, br":        false,
		"gzip-custom":     false,
		"mygzip":          false,
		"not-gzip-at-all": false,
		"":                false,
	}

	for header, want := range cases {
		assert.Equal(t, want, yagzip.IsGzipEncoding(header), "header %q", header)
	}
}
