package streak

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformed is returned when a persisted streak blob cannot be decoded.
var ErrMalformed = errors.New("malformed streak blob")

// isoMillis matches the instant format written by earlier versions.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type record struct {
	Count    int     `json:"count"`
	LastDate *string `json:"lastDate"`
}

// Encode serializes a streak. LastDate is written as a UTC ISO-8601
// instant, or null when unset.
func Encode(s Streak) ([]byte, error) {
	s = s.normalize()
	rec := record{Count: s.Count}
	if !s.LastDate.IsZero() {
		v := s.LastDate.UTC().Format(isoMillis)
		rec.LastDate = &v
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode streak: %w", err)
	}
	return data, nil
}

// Decode parses a streak blob. Missing fields default; a date-only
// lastDate is accepted. Instants decode into loc so calendar comparisons
// happen in the learner's local day.
func Decode(data []byte, loc *time.Location) (Streak, error) {
	if loc == nil {
		loc = time.Local
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Streak{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rec.Count < 0 {
		return Streak{}, fmt.Errorf("%w: negative count %d", ErrMalformed, rec.Count)
	}

	s := Streak{Count: rec.Count}
	if rec.LastDate != nil {
		t, err := parseDate(*rec.LastDate, loc)
		if err != nil {
			return Streak{}, fmt.Errorf("%w: lastDate: %v", ErrMalformed, err)
		}
		s.LastDate = t
	}
	return s.normalize(), nil
}

func parseDate(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation(time.DateOnly, v, loc)
}
