package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/YaCodeDev/GoYaHTTP/yalogger"
)

// safetyCheck replaces a nil logger with a silent one so loaders can be called
// without wiring logging first.
func safetyCheck(log *yalogger.Logger) {
	if *log == nil {
		*log = yalogger.NewNop()
	}
}

// toScreamingSnakeCase converts a string to SCREAMING_SNAKE_CASE.
//
// Example:
//
//	toScreamingSnakeCase("MaxElapsedTime") // "MAX_ELAPSED_TIME"
func toScreamingSnakeCase(s string) string {
	s = matchFirstCap.ReplaceAllString(s, "${1}_${2}")
	s = matchAllCap.ReplaceAllString(s, "${1}_${2}")

	return strings.ToUpper(s)
}

// loadDotEnv exports KEY=VALUE pairs from DotEnvFile in the working directory.
// Variables already present in the environment are left untouched. A missing
// file is not an error.
func loadDotEnv() error {
	file, err := os.Open(DotEnvFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		text = strings.TrimPrefix(text, "export ")

		parts := strings.SplitN(text, "=", DotEnvKVParts)
		if len(parts) != DotEnvKVParts {
			return fmt.Errorf("%w: line %d", ErrInvalidDotEnvFileFormat, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}

	return scanner.Err()
}
