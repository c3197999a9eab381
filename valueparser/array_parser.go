package valueparser

import (
	"fmt"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// ParseArray splits a string by 'separator' and parses each part into T.
// If the string is empty, it returns an empty slice.
// If 'separator' is nil, it defaults to DefaultEntrySeparator.
//
// Example usage:
//
//	codes, err := ParseArray[int]("500,502,503", nil)
//	if err != nil {
//		// Handle error
//	}
func ParseArray[T ParsableType](
	str string,
	separator *string,
) ([]T, yaerrors.Error) {
	if str == "" {
		return []T{}, nil
	}

	sep := DefaultEntrySeparator
	if separator != nil {
		sep = *separator
	}

	parts := strings.Split(str, sep)
	result := make([]T, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)

		parsed, err := ParseValue[T](trimmed)
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("parse array: failed to parse part '%s'", trimmed))
		}

		result = append(result, parsed)
	}

	return result, nil
}
