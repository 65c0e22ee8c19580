package metrics

import (
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration converts an ISO-8601 duration like "PT1H2M3S" to seconds.
// Malformed or non-matching input parses to 0.
func ParseISODuration(value string) int {
	match := isoDurationPattern.FindStringSubmatch(value)
	if match == nil {
		return 0
	}

	hours := atoiOrZero(match[1])
	minutes := atoiOrZero(match[2])
	seconds := atoiOrZero(match[3])

	return hours*3600 + minutes*60 + seconds
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
