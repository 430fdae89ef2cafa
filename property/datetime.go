package property

import (
	"math"
	"time"
)

// DateTimeProperty maps between time.Time in memory and a Unix timestamp
// in storage. Raw numeric timestamps pass through ConvertToDb unchanged,
// so numbers round-trip exactly. With no configured default, DefaultValue
// is the current time.
type DateTimeProperty struct {
	Base
}

// NewDateTime creates a datetime property.
func NewDateTime(opts Options) *DateTimeProperty {
	p := &DateTimeProperty{Base: newBase(opts)}
	p.coerce = func(v any) (any, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return t, nil
		}
		if f, err := toNumber(v); err == nil {
			return timestampToTime(f), nil
		}
		return nil, typeErr("datetime accepts a timestamp or time.Time, not %T", v)
	}
	p.check = func(v any) bool {
		switch t := v.(type) {
		case nil:
			return true
		case time.Time:
			return true
		default:
			f, err := toNumber(t)
			if err != nil {
				return false
			}
			return validCalendarTime(f)
		}
	}
	p.encode = func(v any) (any, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return timeToTimestamp(t), nil
		}
		if _, err := toNumber(v); err == nil {
			return v, nil
		}
		return nil, typeErr("datetime cannot serialize %T", v)
	}
	p.decode = func(v any) (any, error) {
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		f, err := toNumber(v)
		if err != nil {
			return nil, typeErr("stored datetime must be a timestamp, got %T", v)
		}
		return timestampToTime(f), nil
	}
	p.emptyDefault = func() any { return time.Now() }
	return p
}

// toNumber converts numeric kinds to float64, rejecting strings and
// bools (timestamps arrive as numbers, never text).
func toNumber(v any) (float64, error) {
	switch v.(type) {
	case string, bool, nil:
		return 0, typeErr("not a number: %T", v)
	}
	return toFloat64(v)
}

func timestampToTime(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9))
}

func timeToTimestamp(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// validCalendarTime bounds timestamps to representable calendar dates.
func validCalendarTime(ts float64) bool {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return false
	}
	year := timestampToTime(ts).Year()
	return year >= 1 && year <= 9999
}
