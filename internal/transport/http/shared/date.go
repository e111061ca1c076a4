package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts an RFC3339 timestamp or a bare YYYY-MM-DD date. The
// empty string parses to the zero time so optional fields stay optional.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}
