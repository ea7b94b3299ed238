package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnv parses the variable named key, falling back to defaultVal when it
// is unset or does not parse.
func getEnv[T any](key string, defaultVal T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	value, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvAsString(key string, defaultVal string) string {
	return getEnv(key, defaultVal, func(s string) (string, error) { return s, nil })
}

func getEnvAsInt(key string, defaultVal int) int {
	return getEnv(key, defaultVal, strconv.Atoi)
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	return getEnv(key, defaultVal, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getEnvAsBool(key string, defaultVal bool) bool {
	return getEnv(key, defaultVal, strconv.ParseBool)
}

// getEnvAsTimeDuration reads a bare number as seconds, otherwise a Go
// duration such as "1m30s".
func getEnvAsTimeDuration(key string, defaultVal time.Duration) time.Duration {
	return getEnv(key, defaultVal, func(s string) (time.Duration, error) {
		if seconds, err := strconv.Atoi(s); err == nil {
			return time.Duration(seconds) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

// getEnvAsSlice splits a comma list, dropping empty entries.
func getEnvAsSlice(key string, defaultVal []string) []string {
	return getEnv(key, defaultVal, func(s string) ([]string, error) {
		result := make([]string, 0)
		for _, part := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result, nil
	})
}
