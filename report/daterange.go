package report

import (
	"time"

	"github.com/timberio/go-datemath"
)

// Symbolic date-range tokens accepted in date filters.
const (
	RangeLast7Days    = "last_7_days"
	RangeCurrentMonth = "current_month"
	RangeLastMonth    = "last_month"
)

// ResolveDateRange turns a date filter value into a concrete inclusive
// [start, end] pair relative to now. Accepted values:
//
//   - a symbolic token (last_7_days, current_month, last_month)
//   - a datemath expression such as "now-2d" (resolved as [expr, now])
//   - a literal two-element range of "2006-01-02" strings, passed through
//
// Anything else resolves to the single day of now. That default is
// intentional: a malformed range narrows the report to today instead of
// silently scanning the full table.
func ResolveDateRange(value any, now time.Time) (time.Time, time.Time) {
	switch v := value.(type) {
	case string:
		return resolveToken(v, now)
	case []string:
		if len(v) == 2 {
			return resolveLiteral(v[0], v[1], now)
		}
	case []any:
		if len(v) == 2 {
			from, fromOK := v[0].(string)
			to, toOK := v[1].(string)
			if fromOK && toOK {
				return resolveLiteral(from, to, now)
			}
		}
	}

	return startOfDay(now), endOfDay(now)
}

func resolveToken(token string, now time.Time) (time.Time, time.Time) {
	switch token {
	case RangeLast7Days:
		return startOfDay(now.AddDate(0, 0, -7)), endOfDay(now)
	case RangeCurrentMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, endOfDay(first.AddDate(0, 1, -1))
	case RangeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return first, endOfDay(first.AddDate(0, 1, -1))
	}

	if expr, err := datemath.Parse(token); err == nil {
		return expr.Time(datemath.WithNow(now)), endOfDay(now)
	}

	return startOfDay(now), endOfDay(now)
}

func resolveLiteral(from, to string, now time.Time) (time.Time, time.Time) {
	start, err := time.ParseInLocation("2006-01-02", from, now.Location())
	if err != nil {
		start = startOfDay(now)
	}

	end, err := time.ParseInLocation("2006-01-02", to, now.Location())
	if err != nil {
		end = now
	}

	return startOfDay(start), endOfDay(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
