package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tracklite/reporting/context"
	"github.com/tracklite/reporting/models"
)

// summaryBucket accumulates one group of entries keyed by a dimension value
// or a composite key. A bucket exists only once it has received a record, so
// count is always >= 1 when derived metrics are computed.
type summaryBucket struct {
	clientID uuid.UUID
	staffID  uuid.UUID
	count    int
	sum      float64
	services map[string]struct{}
}

func (b *summaryBucket) add(e models.WorkEntry, rel *relationSet) {
	b.count++
	b.sum += e.Amount
	if name := rel.serviceName(e.ServiceID); name != "" {
		b.services[name] = struct{}{}
	}
}

func (b *summaryBucket) average() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

func summaryKey(e models.WorkEntry, mode Mode) string {
	switch mode {
	case ModeStaffSummary:
		return e.StaffID.String()
	case ModeCombinedSummary:
		return e.ClientID.String() + "|" + e.StaffID.String()
	default:
		return e.ClientID.String()
	}
}

// summaryKeyFields lists the foreign keys a mode buckets on. They must be
// fetched even when no selected column needs them, e.g. a groupBy-driven
// summary that displays only aggregate columns.
func summaryKeyFields(mode Mode) []string {
	switch mode {
	case ModeStaffSummary:
		return []string{"staff_id"}
	case ModeCombinedSummary:
		return []string{"client_id", "staff_id"}
	default:
		return []string{"client_id"}
	}
}

// runSummary groups the filtered entries by the dimension(s) the mode
// implies and materializes one row per bucket. Buckets are collected in
// first-seen order, then sorted by the amount sum descending unless an
// explicit sort directive targets an aggregate column.
func runSummary(ctx context.Context, cfg Config, cols ColumnDefList, mode Mode, now time.Time) ([]Row, error) {
	// summary scans the whole filtered set; entry-level sorting is irrelevant
	fetchCfg := cfg
	fetchCfg.Sorting = nil

	entries, postFilters, err := fetchWorkEntries(ctx, fetchCfg, cols, summaryKeyFields(mode), now)
	if err != nil {
		return nil, err
	}

	needs := relationNeedsFor(cols, cfg.Filters, nil)
	rel, err := resolveRelations(ctx, entries, needs)
	if err != nil {
		return nil, err
	}

	entries = filterEntries(entries, postFilters, rel)

	var order []string
	buckets := map[string]*summaryBucket{}
	for _, e := range entries {
		key := summaryKey(e, mode)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &summaryBucket{
				clientID: e.ClientID,
				staffID:  e.StaffID,
				services: map[string]struct{}{},
			}
			buckets[key] = bucket
			order = append(order, key)
		}
		bucket.add(e, rel)
	}

	sorted := lo.Map(order, func(key string, _ int) *summaryBucket {
		return buckets[key]
	})
	sortBuckets(sorted, cfg.Sorting)

	rows := make([]Row, 0, len(sorted))
	for _, bucket := range sorted {
		row := make(Row, len(cols))
		for _, col := range cols {
			row[col.Label] = formatBucketColumn(bucket, col, rel)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// sortBuckets orders buckets by an explicit aggregate sort directive if one
// is present, otherwise by the primary sum metric descending.
func sortBuckets(buckets []*summaryBucket, sorting []Sort) {
	for _, s := range sorting {
		col, ok := Registry.Find(s.Field)
		if !ok || !col.Aggregate {
			continue
		}

		sort.SliceStable(buckets, func(a, b int) bool {
			av, bv := bucketMetric(buckets[a], col.ID), bucketMetric(buckets[b], col.ID)
			if s.Direction == SortAsc {
				return av < bv
			}
			return av > bv
		})
		return
	}

	sort.SliceStable(buckets, func(a, b int) bool {
		return buckets[a].sum > buckets[b].sum
	})
}

func bucketMetric(b *summaryBucket, columnID string) float64 {
	switch columnID {
	case ColumnTotalEntries:
		return float64(b.count)
	case ColumnTotalAmount:
		return b.sum
	case ColumnAverageAmount:
		return b.average()
	case ColumnDistinctServices:
		return float64(len(b.services))
	default:
		return 0
	}
}

func formatBucketColumn(b *summaryBucket, col ColumnDef, rel *relationSet) any {
	switch col.ID {
	case ColumnClientName:
		return rel.clientName(b.clientID)
	case ColumnStaffName:
		return rel.staffName(b.staffID)
	case ColumnTotalEntries:
		return b.count
	case ColumnTotalAmount:
		return round2(b.sum)
	case ColumnAverageAmount:
		return round2(b.average())
	case ColumnDistinctServices:
		return len(b.services)
	default:
		return ""
	}
}
