package valueparser

import (
	"encoding"
	"reflect"
)

// tryUnmarshal parses value through encoding.TextUnmarshaler or Unmarshalable when
// *valueType implements either. ok is false when neither is implemented or both fail.
func tryUnmarshal(value string, valueType reflect.Type) (reflect.Value, bool) {
	ptr := reflect.New(valueType)

	if unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(value)); err == nil {
			return ptr.Elem(), true
		}
	}

	if unmarshaler, ok := ptr.Interface().(Unmarshalable); ok {
		if err := unmarshaler.Unmarshal(value); err == nil {
			return ptr.Elem(), true
		}
	}

	return reflect.Value{}, false
}

// TryUnmarshal converts value to T using only the custom unmarshal hooks of T.
//
// Example usage:
//
//	level, err := TryUnmarshal[yalogger.Level]("debug")
//	if err != nil {
//		// Handle error
//	}
func TryUnmarshal[T any](value string) (T, error) {
	var zero T

	parsed, ok := tryUnmarshal(value, reflect.TypeOf(&zero).Elem())
	if !ok {
		return zero, ErrUnparsableValue
	}

	val, ok := parsed.Interface().(T)
	if !ok {
		return zero, ErrInvalidValue
	}

	return val, nil
}
