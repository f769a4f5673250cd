package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var ErrUnparseableTime = errors.New("unparseable time")

// ParseHour reads the hour out of a display time such as "14:30" or
// "2:30 PM". Only the leading number matters; a "pm" anywhere moves hours
// below 12 into the afternoon and "12 am" is midnight. The result is not
// range checked.
func ParseHour(s string) (int, error) {
	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
	}
	hour, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "pm") && hour < 12 {
		hour += 12
	}
	if strings.Contains(lower, "am") && hour == 12 {
		hour = 0
	}
	return hour, nil
}
