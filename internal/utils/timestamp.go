package utils

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// UnknownTimestamp is returned for creation instants that cannot be
// recovered. It mirrors domain.UnknownTimestamp.
const UnknownTimestamp int64 = -1

// msThreshold separates epoch seconds from epoch milliseconds. Values above it
// are read as milliseconds (1e12 seconds is roughly the year 33658).
const msThreshold = 1e12

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp converts the stored shapes of a creation instant into
// epoch seconds. Accepted shapes:
//
//   - {"seconds": N, "nanoseconds": M} and {"_seconds": N, "_nanoseconds": M}
//   - RFC3339 strings and a few common date-time layouts (UTC when no zone)
//   - numbers in epoch seconds, or epoch milliseconds above 1e12
//   - null or absent
//
// The boolean reports whether the value was well formed. Null and absent
// values return (UnknownTimestamp, true): the caller decides whether "now"
// applies. Malformed values return (UnknownTimestamp, false) and are never
// replaced by the current time.
func NormalizeTimestamp(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return UnknownTimestamp, true
	}

	switch raw[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return UnknownTimestamp, false
		}
		for _, k := range []string{"seconds", "_seconds"} {
			if v, ok := obj[k]; ok {
				return epochFromNumber(v, false)
			}
		}
		return UnknownTimestamp, false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return UnknownTimestamp, false
		}
		return ParseTimestampString(s)
	default:
		return epochFromNumber(raw, true)
	}
}

// ParseTimestampString parses a textual timestamp using the accepted layouts.
// Purely numeric strings are read as epoch values.
func ParseTimestampString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownTimestamp, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), true
		}
	}
	return epochFromNumber(json.RawMessage(s), true)
}

func epochFromNumber(raw json.RawMessage, allowMillis bool) (int64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return UnknownTimestamp, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return UnknownTimestamp, false
	}
	if allowMillis && f > msThreshold {
		f /= 1000
	}
	return int64(f), true
}
