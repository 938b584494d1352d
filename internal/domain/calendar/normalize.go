package calendar

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	isoDatePattern      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:$|[T ])`)
	isoPrefixPattern    = regexp.MustCompile(`^\d{4}-\d`)
	compactDatePattern  = regexp.MustCompile(`^\d{7,8}$`)
	clockPattern        = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)
	compactClockPattern = regexp.MustCompile(`^\d{3,4}$`)
)

// NormalizeDate converts any supported raw date encoding into a CalendarDate.
//
// Accepted shapes, first match wins:
//  1. a [year, month, day] integer tuple (also a CalendarDate or time.Time value)
//  2. a string YYYY-M-D / YYYY-MM-DD, optionally followed by a T or space and a time
//  3. a compact 7 or 8 digit string (YYYYMDD / YYYYMMDD)
//  4. anything else a general date parser understands
//
// Failures are *NormalizationError wrapping ErrUnparseable or ErrOutOfRange.
func NormalizeDate(raw any) (CalendarDate, error) {
	switch v := raw.(type) {
	case nil:
		return CalendarDate{}, unparseable(raw)
	case CalendarDate:
		return checkedDate(raw, v.Year, v.Month, v.Day)
	case *CalendarDate:
		if v == nil {
			return CalendarDate{}, unparseable(raw)
		}
		return checkedDate(raw, v.Year, v.Month, v.Day)
	case time.Time:
		if v.IsZero() {
			return CalendarDate{}, unparseable(raw)
		}
		return FromTime(v), nil
	case [3]int:
		return checkedDate(raw, v[0], v[1], v[2])
	case string:
		return normalizeDateString(raw, v)
	}

	parts, ok := integerTuple(raw)
	if !ok {
		return CalendarDate{}, unparseable(raw)
	}
	if len(parts) != 3 {
		return CalendarDate{}, unparseable(raw)
	}
	return checkedDate(raw, parts[0], parts[1], parts[2])
}

func normalizeDateString(raw any, s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, unparseable(raw)
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return checkedDate(raw, atoi(m[1]), atoi(leftPad(m[2], 2)), atoi(leftPad(m[3], 2)))
	}
	// A dashed date with extra digits or trailing junk must not reach the general parser.
	if isoPrefixPattern.MatchString(s) {
		return CalendarDate{}, unparseable(raw)
	}

	if compactDatePattern.MatchString(s) {
		// The year is always four digits; only the month/day tail can be short.
		tail := leftPad(s[4:], 4)
		return checkedDate(raw, atoi(s[:4]), atoi(tail[:2]), atoi(tail[2:]))
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return CalendarDate{}, unparseable(raw)
	}
	return checkedDate(raw, t.Year(), int(t.Month()), t.Day())
}

// NormalizeTime converts a raw time-of-day encoding into a ClockTime.
//
// Accepted shapes: an [hour, minute(, second)] tuple, "H:M[:S]", compact "HMM"/"HHMM",
// or anything the general parser understands (its time-of-day is used).
func NormalizeTime(raw any) (ClockTime, error) {
	switch v := raw.(type) {
	case nil:
		return ClockTime{}, unparseable(raw)
	case ClockTime:
		return checkedClock(raw, v.Hour, v.Minute, v.Second)
	case *ClockTime:
		if v == nil {
			return ClockTime{}, unparseable(raw)
		}
		return checkedClock(raw, v.Hour, v.Minute, v.Second)
	case time.Time:
		return ClockFromTime(v), nil
	case string:
		return normalizeTimeString(raw, v)
	}

	parts, ok := integerTuple(raw)
	if !ok {
		return ClockTime{}, unparseable(raw)
	}
	switch len(parts) {
	case 2:
		return checkedClock(raw, parts[0], parts[1], 0)
	case 3:
		return checkedClock(raw, parts[0], parts[1], parts[2])
	}
	return ClockTime{}, unparseable(raw)
}

func normalizeTimeString(raw any, s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClockTime{}, unparseable(raw)
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		second := 0
		if m[3] != "" {
			second = atoi(m[3])
		}
		return checkedClock(raw, atoi(m[1]), atoi(m[2]), second)
	}

	if compactClockPattern.MatchString(s) {
		padded := leftPad(s, 4)
		return checkedClock(raw, atoi(padded[:2]), atoi(padded[2:]), 0)
	}

	// Without a clock part the general parser would yield midnight.
	if !strings.Contains(s, ":") {
		return ClockTime{}, unparseable(raw)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return ClockTime{}, unparseable(raw)
	}
	return ClockFromTime(t), nil
}

func checkedDate(raw any, year, month, day int) (CalendarDate, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 || day > daysIn(year, month) {
		return CalendarDate{}, outOfRange(raw)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

func checkedClock(raw any, hour, minute, second int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return ClockTime{}, outOfRange(raw)
	}
	return ClockTime{Hour: hour, Minute: minute, Second: second}, nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// integerTuple accepts the slice shapes upstream sources produce, including
// JSON-decoded arrays ([]any of float64). Non-integral numbers are rejected.
func integerTuple(raw any) ([]int, bool) {
	switch v := raw.(type) {
	case []int:
		return v, true
	case []int64:
		out := make([]int, len(v))
		for i, n := range v {
			out[i] = int(n)
		}
		return out, true
	case []float64:
		out := make([]int, len(v))
		for i, f := range v {
			n, ok := integral(f)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	case []any:
		out := make([]int, len(v))
		for i, e := range v {
			switch n := e.(type) {
			case int:
				out[i] = n
			case int32:
				out[i] = int(n)
			case int64:
				out[i] = int(n)
			case float64:
				iv, ok := integral(n)
				if !ok {
					return nil, false
				}
				out[i] = iv
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	return int(f), true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// atoi is only called on regexp-validated digit runs.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
