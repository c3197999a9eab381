package config

import (
	"os"

	"github.com/YaCodeDev/GoYaHTTP/valueparser"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

// GetEnv reads key and parses it into T. An unset or unparsable variable yields
// fallback, or is fatal when required is set.
//
// Example usage:
//
//	timeout := config.GetEnv("YAHTTP_TIMEOUT", 20*time.Second, false, log)
func GetEnv[T valueparser.ParsableType](
	key string,
	fallback T,
	required bool,
	log yalogger.Logger,
) T {
	return lookupEnv(key, fallback, required, log, valueparser.ParseValue[T])
}

// GetEnvArray is GetEnv for a list split by separator, "," when nil.
//
// Example usage:
//
//	codes := config.GetEnvArray("YAHTTP_BACKOFF_STATUS_CODES", []int{503}, nil, false, log)
func GetEnvArray[T valueparser.ParsableType](
	key string,
	fallback []T,
	separator *string,
	required bool,
	log yalogger.Logger,
) []T {
	return lookupEnv(key, fallback, required, log, func(value string) ([]T, yaerrors.Error) {
		return valueparser.ParseArray[T](value, separator)
	})
}

// GetEnvMap is GetEnv for "k:v,k2:v2" maps. Nil separators mean "," and ":".
//
// Example usage:
//
//	headers := config.GetEnvMap("YAHTTP_DEFAULT_HEADERS", map[string]string{}, false, nil, nil, log)
func GetEnvMap[K valueparser.ParsableComparableType, V valueparser.ParsableType](
	key string,
	fallback map[K]V,
	required bool,
	entrySeparator *string,
	kvSeparator *string,
	log yalogger.Logger,
) map[K]V {
	return lookupEnv(key, fallback, required, log, func(value string) (map[K]V, yaerrors.Error) {
		return valueparser.ParseMap[K, V](value, entrySeparator, kvSeparator)
	})
}

func lookupEnv[T any](
	key string,
	fallback T,
	required bool,
	log yalogger.Logger,
	parse func(string) (T, yaerrors.Error),
) T {
	safetyCheck(&log)

	value, exists := os.LookupEnv(key)
	if exists {
		parsed, err := parse(value)
		if err == nil {
			return parsed
		}

		log.Errorf("Failed to parse environment variable %s: %v", key, err)
	}

	if required {
		log.Fatalf("Environment variable %s is required", key)
	}

	log.Debugf("Environment variable %s is not usable, falling back to %v", key, fallback)

	return fallback
}
