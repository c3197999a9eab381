package yaencoding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/YaCodeDev/GoYaHTTP/yaencoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    int
	Name  string
	Tags  []string
	Meta  map[string]string
	Bytes []byte
}

func newSample() sample {
	return sample{
		ID:    7,
		Name:  "RZK",
		Tags:  []string{"a", "b", "c"},
		Meta:  map[string]string{"k1": "v1", "k2": "v2"},
		Bytes: []byte{0, 1, 2, 250, 251, 252},
	}
}

func TestMessagePackEncoding_Flow(t *testing.T) {
	t.Run("Full Round Trip", func(t *testing.T) {
		in := newSample()

		payload, err := yaencoding.Marshal(yaencoding.MessagePack, in)
		require.Nil(t, err, "encode failed")

		out, err := yaencoding.Decode[sample](yaencoding.MessagePack, bytes.NewReader(payload))
		require.Nil(t, err, "decode failed")
		require.NotNil(t, out)

		assert.Equal(t, in, *out)
	})

	t.Run("Invalid Data Returns Error", func(t *testing.T) {
		out, err := yaencoding.Decode[sample](yaencoding.MessagePack, strings.NewReader("\xc1"))
		require.Nil(t, out)
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal message pack")
	})

	t.Run("Content Type", func(t *testing.T) {
		assert.Equal(t, "application/msgpack", yaencoding.MessagePack.ContentType())
	})
}

func TestJSONEncoding_Flow(t *testing.T) {
	t.Run("Full Round Trip", func(t *testing.T) {
		in := newSample()

		var buf bytes.Buffer

		require.Nil(t, yaencoding.JSON.Encode(&buf, in))

		out, err := yaencoding.Decode[sample](yaencoding.JSON, &buf)
		require.Nil(t, err)

		assert.Equal(t, in, *out)
	})

	t.Run("Unsupported Value Returns Error", func(t *testing.T) {
		_, err := yaencoding.Marshal(yaencoding.JSON, make(chan int))
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "failed to encode `chan int` as json")
	})

	t.Run("Invalid Data Returns Error", func(t *testing.T) {
		out, err := yaencoding.Decode[sample](yaencoding.JSON, strings.NewReader("{"))
		require.Nil(t, out)
		require.NotNil(t, err)
	})
}
