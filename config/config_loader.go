package config

import (
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/valueparser"
	"github.com/YaCodeDev/GoYaHTTP/yaerrors"
	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

// LoadConfigStructFromEnv loads environment variables into a struct.
// It uses the field names of the struct as keys to look up values in the environment.
// The keys are converted to SCREAMING_SNAKE_CASE; nested structs prefix their fields
// with their own key.
//
// For every field:
//
//   - a set environment variable always wins;
//   - otherwise a zero field takes the value of its `default` tag;
//   - a zero field without a `default` tag is required. Use `default:""` to mark it optional.
//
// Scalars (including time.Duration and types implementing encoding.TextUnmarshaler or
// valueparser.Unmarshalable), slices ("a,b,c") and maps ("k:v,k2:v2") are supported.
//
// This is a wrapper around LoadConfigStructFromEnvHandlingError that calls log.Fatalf on error.
//
// Example usage:
//
//	type Config struct {
//		Timeout    time.Duration     `default:"20s"`
//		MaxRetries uint              `default:"10"`
//		Headers    map[string]string `default:""`
//		Level      yalogger.Level    `default:"info"`
//	}
//
//	var cfg Config
//
//	config.LoadConfigStructFromEnv(&cfg, nil)
func LoadConfigStructFromEnv[T any](instance *T, log yalogger.Logger) {
	safetyCheck(&log)

	if err := LoadConfigStructFromEnvHandlingError(instance, log); err != nil {
		log.Fatalf("Failed to load config struct from env: %v", err)
	}
}

// LoadConfigStructFromEnvHandlingError is LoadConfigStructFromEnv that returns the error
// instead of terminating.
//
// Example usage:
//
//	if err := config.LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
//		// handle error
//	}
func LoadConfigStructFromEnvHandlingError[T any](instance *T, log yalogger.Logger) yaerrors.Error {
	return LoadConfigStructFromEnvWithPrefix(instance, "", log)
}

// LoadConfigStructFromEnvWithPrefix is LoadConfigStructFromEnvHandlingError with every key
// prefixed by prefix and an underscore.
//
// Example usage:
//
//	// reads YAHTTP_MAX_RETRIES, YAHTTP_BACKOFF_INITIAL_INTERVAL, ...
//	err := config.LoadConfigStructFromEnvWithPrefix(&cfg, "YAHTTP", log)
func LoadConfigStructFromEnvWithPrefix[T any](
	instance *T,
	prefix string,
	log yalogger.Logger,
) yaerrors.Error {
	safetyCheck(&log)

	if err := loadDotEnv(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}

	if instance == nil {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			"config loader, got nil",
			log,
		)
	}

	value := reflect.ValueOf(instance).Elem()
	if value.Kind() != reflect.Struct {
		return yaerrors.FromErrorWithLog(
			http.StatusInternalServerError,
			ErrConfigStructMustBeStruct,
			fmt.Sprintf("config loader, got %T", instance),
			log,
		)
	}

	return loadConfigStructFromEnv(value, prefix, log)
}

func loadConfigStructFromEnv(
	structValue reflect.Value,
	keyPath string,
	log yalogger.Logger,
) yaerrors.Error {
	structType := structValue.Type()

	for i := range structValue.NumField() {
		field := structType.Field(i)
		fieldVal := structValue.Field(i)

		if !fieldVal.CanSet() {
			log.Debugf("Field %s cannot be set", field.Name)

			continue
		}

		envKey := toScreamingSnakeCase(field.Name)
		if keyPath != "" {
			envKey = keyPath + "_" + envKey
		}

		if field.Type.Kind() == reflect.Struct && !isLeafStruct(field.Type) {
			if err := loadConfigStructFromEnv(fieldVal, envKey, log); err != nil {
				return err.Wrap("failed to load struct field " + field.Name)
			}

			continue
		}

		raw, fromEnv := os.LookupEnv(envKey)
		defaultVal, hasDefault := field.Tag.Lookup(DefaultTagName)

		switch {
		case fromEnv:
		case !fieldVal.IsZero():
			continue
		case hasDefault:
			if defaultVal == "" {
				continue
			}

			raw = defaultVal
		default:
			return yaerrors.FromErrorWithLog(
				http.StatusInternalServerError,
				ErrValueIsRequired,
				fmt.Sprintf("config loader: environment variable %s is required", envKey),
				log,
			)
		}

		parsed, err := parseField(raw, field.Type)
		if err != nil {
			return err.WrapWithLog(
				fmt.Sprintf("config loader: field %s (%s)", field.Name, envKey),
				log,
			)
		}

		fieldVal.Set(parsed)
	}

	return nil
}

// isLeafStruct reports struct types that parse from a single value instead of
// being walked field by field.
func isLeafStruct(typ reflect.Type) bool {
	_, ok := reflect.New(typ).Interface().(valueparser.Unmarshalable)

	return ok
}

func parseField(raw string, typ reflect.Type) (reflect.Value, yaerrors.Error) {
	switch typ.Kind() {
	case reflect.Slice:
		return parseSlice(raw, typ)
	case reflect.Map:
		return parseMap(raw, typ)
	default:
		return valueparser.ParseReflectValue(raw, typ)
	}
}

func parseSlice(raw string, typ reflect.Type) (reflect.Value, yaerrors.Error) {
	result := reflect.MakeSlice(typ, 0, 0)

	if raw == "" {
		return result, nil
	}

	for part := range strings.SplitSeq(raw, valueparser.DefaultEntrySeparator) {
		elem, err := valueparser.ParseReflectValue(strings.TrimSpace(part), typ.Elem())
		if err != nil {
			return reflect.Value{}, err.Wrap("parse slice element")
		}

		result = reflect.Append(result, elem)
	}

	return result, nil
}

func parseMap(raw string, typ reflect.Type) (reflect.Value, yaerrors.Error) {
	result := reflect.MakeMap(typ)

	if raw == "" {
		return result, nil
	}

	for entry := range strings.SplitSeq(raw, valueparser.DefaultEntrySeparator) {
		parts := strings.SplitN(entry, valueparser.DefaultKVSeparator, valueparser.MapPartsCount)
		if len(parts) != valueparser.MapPartsCount {
			return reflect.Value{}, yaerrors.FromError(
				http.StatusInternalServerError,
				valueparser.ErrInvalidEntry,
				fmt.Sprintf("parse map entry '%s'", entry),
			)
		}

		key, err := valueparser.ParseReflectValue(strings.TrimSpace(parts[0]), typ.Key())
		if err != nil {
			return reflect.Value{}, err.Wrap("parse map key")
		}

		val, err := valueparser.ParseReflectValue(strings.TrimSpace(parts[1]), typ.Elem())
		if err != nil {
			return reflect.Value{}, err.Wrap("parse map value")
		}

		result.SetMapIndex(key, val)
	}

	return result, nil
}
