package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Filterable fields that are not registry columns. These address the raw
// foreign keys and base columns of work entries directly.
const (
	FieldDate          = "date"
	FieldStatus        = "status"
	FieldClientID      = "client_id"
	FieldStaffID       = "staff_id"
	FieldServiceID     = "service_id"
	FieldAmount        = "amount"
	FieldDurationMins  = "duration_mins"
	FieldReferenceCode = "reference_code"
	FieldLocation      = "location"
)

// pushdownColumns maps filterable fields to work_entries columns.
// Fields absent from this map are reachable only through a relation and are
// filtered in memory after the batch joins (two-tier filtering).
var pushdownColumns = map[string]string{
	FieldDate:          "started_at",
	FieldStatus:        "status",
	FieldClientID:      "client_id",
	FieldStaffID:       "staff_id",
	FieldServiceID:     "service_id",
	FieldAmount:        "amount",
	FieldDurationMins:  "duration_mins",
	FieldReferenceCode: "reference_code",
	FieldLocation:      "location",
}

// applyPushdownFilters translates every filter the data source supports into
// a predicate on the query and returns the remainder for in-memory
// application. Symbolic date tokens never reach the data source; they are
// resolved to concrete ranges here.
func applyPushdownFilters(q *gorm.DB, filters []Filter, now time.Time) (*gorm.DB, []Filter) {
	var remaining []Filter

	for _, f := range filters {
		column, ok := pushdownColumns[f.Field]
		if !ok {
			remaining = append(remaining, f)
			continue
		}

		if f.Field == FieldDate {
			start, end := ResolveDateRange(f.Value, now)
			q = q.Where(fmt.Sprintf("%s >= ? AND %s <= ?", column, column), start, end)
			continue
		}

		switch f.Op {
		case OpEquals:
			q = q.Where(fmt.Sprintf("%s = ?", column), f.Value)
		case OpIn:
			q = q.Where(fmt.Sprintf("%s IN ?", column), toSlice(f.Value))
		case OpContains:
			q = q.Where(fmt.Sprintf("%s LIKE ?", column), "%"+fmt.Sprint(f.Value)+"%")
		case OpGreaterThan:
			q = q.Where(fmt.Sprintf("%s > ?", column), toFloat(f.Value))
		case OpLessThan:
			q = q.Where(fmt.Sprintf("%s < ?", column), toFloat(f.Value))
		case OpBetween:
			if pair := toSlice(f.Value); len(pair) == 2 {
				q = q.Where(fmt.Sprintf("%s >= ? AND %s <= ?", column, column), pair[0], pair[1])
			}
		}
	}

	return q, remaining
}

// matchValue evaluates an in-memory filter against a resolved relation value.
// String comparison for contains is case-insensitive; equals is exact.
func matchValue(f Filter, value string) bool {
	switch f.Op {
	case OpEquals:
		return value == fmt.Sprint(f.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(fmt.Sprint(f.Value)))
	case OpIn:
		for _, candidate := range toSlice(f.Value) {
			if value == fmt.Sprint(candidate) {
				return true
			}
		}
		return false
	}

	return true
}

func toSlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case nil:
		return nil
	default:
		return []any{v}
	}
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
