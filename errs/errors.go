package errs

import (
	"fmt"
	"sort"
	"strings"
)

// UpstreamError is returned when the YouTube or GitHub API answers with a non-2xx status.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("API error (%s): %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("API error (%s): %d %s", e.Op, e.StatusCode, body)
}

// ConfigError lists required settings that are missing or unusable for an operation.
type ConfigError struct {
	Op      string
	Missing []string
	Invalid map[string]string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	for _, key := range sortedKeys(e.Invalid) {
		parts = append(parts, fmt.Sprintf("invalid %s: %s", key, e.Invalid[key]))
	}
	return fmt.Sprintf("config (%s): %s", e.Op, strings.Join(parts, "; "))
}

// Empty reports whether nothing was recorded.
func (e *ConfigError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

// MalformedResponseError wraps a payload that could not be interpreted.
type MalformedResponseError struct {
	What string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.What, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
