package valueparser

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
)

// ParseMap parses a string into a map[K]V using the provided separators.
// It splits the string by 'entrySeparator' and each entry by the first 'kvSeparator',
// so values may themselves contain the separator (e.g. "Accept:text/html").
// Nil separators default to DefaultEntrySeparator and DefaultKVSeparator.
// If the string is empty, it returns an empty map.
//
// Example usage:
//
//	headers, err := ParseMap[string, string]("X-Env:prod,X-Team:core", nil, nil)
//	if err != nil {
//		// Handle error
//	}
func ParseMap[K ParsableComparableType, V ParsableType](
	str string,
	entrySeparator *string,
	kvSeparator *string,
) (map[K]V, yaerrors.Error) {
	result := make(map[K]V)

	if str == "" {
		return result, nil
	}

	entrySep := DefaultEntrySeparator
	if entrySeparator != nil {
		entrySep = *entrySeparator
	}

	kvSep := DefaultKVSeparator
	if kvSeparator != nil {
		kvSep = *kvSeparator
	}

	for item := range strings.SplitSeq(str, entrySep) {
		parts := strings.SplitN(item, kvSep, MapPartsCount)
		if len(parts) != MapPartsCount {
			return nil, yaerrors.FromError(
				http.StatusInternalServerError,
				ErrInvalidEntry,
				fmt.Sprintf("parse map: expected %d parts in '%s', got %d", MapPartsCount, item, len(parts)),
			)
		}

		k, err := ParseValue[K](strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("parse map: failed to parse key '%s'", strings.TrimSpace(parts[0])))
		}

		v, err := ParseValue[V](strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, err.Wrap(fmt.Sprintf("parse map: failed to parse value '%s'", strings.TrimSpace(parts[1])))
		}

		result[k] = v
	}

	return result, nil
}
