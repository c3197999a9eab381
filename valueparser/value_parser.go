package valueparser

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// ParseValue is a generic function that converts a string value to the specified type T.
// It returns the converted value and an error if the conversion fails.
// time.Duration values accept the time.ParseDuration syntax ("250ms", "1m30s").
//
// Example usage:
//
//	var intValue int
//	intValue, err := ParseValue[int]("123")
//	if err != nil {
//		// Handle error
//	}
func ParseValue[T ParsableType](value string) (T, yaerrors.Error) {
	return ParseValueWithCustomType[T](value, reflect.TypeOf(new(T)).Elem())
}

// ParseValueWithCustomType is a generic function that converts a string value to the specified type T,
// using the provided valueType for parsing. This is useful when T is a primitive but parsing
// should go through the custom unmarshal of a named type.
//
// Example usage:
//
//	level, err := ParseValueWithCustomType[uint32]("debug", reflect.TypeOf(yalogger.Level(0)))
//	if err != nil {
//		// Handle error
//	}
func ParseValueWithCustomType[T ParsableType](
	value string,
	valueType reflect.Type,
) (T, yaerrors.Error) {
	var zero T

	parsed, err := ParseReflectValue(value, valueType)
	if err != nil {
		return zero, err
	}

	converted, err := ConvertValue(parsed, reflect.TypeOf(zero))
	if err != nil {
		return zero, err.Wrap("parse value: custom type does not match target")
	}

	val, ok := converted.Interface().(T)
	if !ok {
		return zero, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrInvalidType,
			"parse value: unexpected result type "+converted.Type().String(),
		)
	}

	return val, nil
}

// ParseReflectValue parses value into a reflect.Value of valueType. Custom unmarshal
// hooks win over the kind-based parsing.
//
// Example usage:
//
//	val, err := ParseReflectValue("30s", reflect.TypeOf(time.Duration(0)))
func ParseReflectValue(value string, valueType reflect.Type) (reflect.Value, yaerrors.Error) {
	if parsed, ok := tryUnmarshal(value, valueType); ok {
		return parsed, nil
	}

	if valueType == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return reflect.Value{}, unparsable(value, valueType, err)
		}

		return reflect.ValueOf(d), nil
	}

	out := reflect.New(valueType).Elem()

	switch valueType.Kind() {
	case reflect.String:
		out.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, valueType.Bits())
		if err != nil {
			return reflect.Value{}, unparsable(value, valueType, err)
		}

		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(value, 10, valueType.Bits())
		if err != nil {
			return reflect.Value{}, unparsable(value, valueType, err)
		}

		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, valueType.Bits())
		if err != nil {
			return reflect.Value{}, unparsable(value, valueType, err)
		}

		out.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return reflect.Value{}, unparsable(value, valueType, err)
		}

		out.SetBool(b)

	case reflect.Slice:
		if valueType.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, unsupported(valueType)
		}

		out.SetBytes([]byte(value))

	default:
		return reflect.Value{}, unsupported(valueType)
	}

	return out, nil
}

func unparsable(value string, valueType reflect.Type, cause error) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusInternalServerError,
		fmt.Errorf("%w: %w", ErrUnparsableValue, cause),
		fmt.Sprintf("parse value: failed to parse %q as %s", value, valueType),
	)
}

func unsupported(valueType reflect.Type) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnknownType,
		"parse value: unsupported type "+valueType.String(),
	)
}
