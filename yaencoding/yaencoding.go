// Package yaencoding provides the body codecs used by request contents and response
// parsing: JSON and MessagePack. Each codec streams to an io.Writer and from an
// io.Reader so bodies never need to be materialised twice.
//
// Each encode/decode returns yaerrors.Error to unify structured error handling
// with the rest of the module.
//
// Example usage:
//
//	type User struct {
//	    ID   int
//	    Name string
//	}
//
//	var buf bytes.Buffer
//
//	if err := yaencoding.MessagePack.Encode(&buf, User{ID: 1, Name: "Alice"}); err != nil {
//	    log.Fatalf("encode failed: %v", err)
//	}
//
//	user, err := yaencoding.Decode[User](yaencoding.MessagePack, &buf)
//	if err != nil {
//	    log.Fatalf("decode failed: %v", err)
//	}
//
//	fmt.Println(user.Name) // Output: Alice
package yaencoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON        = "application/json; charset=UTF-8"
	ContentTypeMessagePack = "application/msgpack"
)

// Codec serializes values to and from a byte stream of one media type.
type Codec interface {
	// ContentType is the media type written into the Content-Type header.
	ContentType() string

	// Encode writes v to w.
	Encode(w io.Writer, v any) yaerrors.Error

	// Decode reads one value from r into v, which must be a pointer.
	Decode(r io.Reader, v any) yaerrors.Error
}

var (
	JSON        Codec = jsonCodec{}
	MessagePack Codec = messagePackCodec{}
)

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return ContentTypeJSON }

func (jsonCodec) Encode(w io.Writer, v any) yaerrors.Error {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to encode `%T` as json", v),
		)
	}

	return nil
}

func (jsonCodec) Decode(r io.Reader, v any) yaerrors.Error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to decode json to `%T`", v),
		)
	}

	return nil
}

type messagePackCodec struct{}

func (messagePackCodec) ContentType() string { return ContentTypeMessagePack }

func (messagePackCodec) Encode(w io.Writer, v any) yaerrors.Error {
	if err := msgpack.NewEncoder(w).Encode(v); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to marshal `%T` using message pack format", v),
		)
	}

	return nil
}

func (messagePackCodec) Decode(r io.Reader, v any) yaerrors.Error {
	if err := msgpack.NewDecoder(r).Decode(v); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			fmt.Sprintf("[ENCODING] failed to unmarshal message pack to `%T`", v),
		)
	}

	return nil
}

// Marshal encodes v with codec into memory.
//
// Example:
//
//	payload, err := yaencoding.Marshal(yaencoding.JSON, request)
func Marshal(codec Codec, v any) ([]byte, yaerrors.Error) {
	var buf bytes.Buffer

	if err := codec.Encode(&buf, v); err != nil {
		return nil, err.Wrap("[ENCODING] marshal")
	}

	return buf.Bytes(), nil
}

// Decode reads a T from r using codec.
//
// Example:
//
//	user, err := yaencoding.Decode[User](yaencoding.JSON, resp.Body)
func Decode[T any](codec Codec, r io.Reader) (*T, yaerrors.Error) {
	var res T

	if err := codec.Decode(r, &res); err != nil {
		return nil, err
	}

	return &res, nil
}
