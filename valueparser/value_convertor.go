package valueparser

import (
	"net/http"
	"reflect"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// ConvertValue converts a reflect.Value to the specified target type.
// An invalid value becomes the zero value of targetType; a value that is not
// convertible returns ErrUnconvertibleType.
func ConvertValue(val reflect.Value, targetType reflect.Type) (reflect.Value, yaerrors.Error) {
	if !val.IsValid() {
		return reflect.Zero(targetType), nil
	}

	if val.Type().ConvertibleTo(targetType) {
		return val.Convert(targetType), nil
	}

	return reflect.Value{}, yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnconvertibleType,
		"convert value: "+val.Type().String()+" is not convertible to "+targetType.String(),
	)
}
