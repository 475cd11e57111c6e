package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// MaxEpochMillis bounds epoch-millisecond dates to the range a JavaScript Date
// can represent; anything outside it is treated as unparseable.
const MaxEpochMillis = 8.64e15

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is a point in time as the backend serializes it: an ISO-8601 string,
// a bare date, or epoch milliseconds. Values that fail to parse decode to the zero
// time instead of failing the whole document; callers see ErrInvalidDate later.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp holds a parsed date.
func (t Timestamp) Valid() bool {
	return !t.IsZero()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		t.Time = ParseTimestamp(raw)
		return nil
	}
	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = fromEpochMillis(ms)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// ParseTimestamp parses the string forms accepted by Timestamp, returning the zero
// time when none match.
func ParseTimestamp(raw string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return fromEpochMillis(float64(ms))
	}
	return time.Time{}
}

func fromEpochMillis(ms float64) time.Time {
	if math.IsNaN(ms) || math.Abs(ms) > MaxEpochMillis {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}
