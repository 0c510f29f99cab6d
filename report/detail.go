package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/tracklite/reporting/context"
	"github.com/tracklite/reporting/models"
)

// columnEntryFields maps a registry column to the work_entries fields needed
// to produce it. Relation-backed columns need only the foreign key; the
// entity itself is batch-resolved afterwards.
var columnEntryFields = map[string][]string{
	ColumnDate:             {"started_at"},
	ColumnClientName:       {"client_id"},
	ColumnStaffName:        {"staff_id"},
	ColumnServiceName:      {"service_id"},
	ColumnRateName:         {"service_id"},
	ColumnDurationMins:     {"duration_mins"},
	ColumnAmount:           {"amount"},
	ColumnStatus:           {"status"},
	ColumnNotes:            {"notes"},
	ColumnReferenceCode:    {"reference_code"},
	ColumnLocation:         {"location"},
	ColumnTotalEntries:     {},
	ColumnTotalAmount:      {"amount"},
	ColumnAverageAmount:    {"amount"},
	ColumnDistinctServices: {"service_id"},
}

// relationFields maps relation-backed fields to the foreign key they travel
// through. Used for post-filters and in-memory sorts.
var relationFields = map[string][]string{
	ColumnClientName:  {"client_id"},
	ColumnStaffName:   {"staff_id"},
	ColumnServiceName: {"service_id"},
	ColumnRateName:    {"service_id"},
}

// sortColumns lists the sort targets the data source can order on directly.
var sortColumns = map[string]string{
	ColumnDate:          "started_at",
	ColumnDurationMins:  "duration_mins",
	ColumnAmount:        "amount",
	ColumnStatus:        "status",
	ColumnReferenceCode: "reference_code",
	ColumnLocation:      "location",
}

type relationNeeds struct {
	clients   bool
	staff     bool
	services  bool
	rateCards bool
}

// relationSet holds the id→entity lookup maps for one invocation.
// It is never shared or cached across invocations.
type relationSet struct {
	clients   map[uuid.UUID]models.Client
	staff     map[uuid.UUID]models.Staff
	services  map[uuid.UUID]models.Service
	rateCards map[uuid.UUID]models.RateCard
}

func (r *relationSet) clientName(id uuid.UUID) string {
	if c, ok := r.clients[id]; ok {
		return c.Name
	}
	return ""
}

func (r *relationSet) staffName(id uuid.UUID) string {
	if s, ok := r.staff[id]; ok {
		return s.Name
	}
	return ""
}

func (r *relationSet) serviceName(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if s, ok := r.services[*id]; ok {
		return s.Name
	}
	return ""
}

func (r *relationSet) rateName(serviceID *uuid.UUID) string {
	if serviceID == nil {
		return ""
	}
	svc, ok := r.services[*serviceID]
	if !ok || svc.RateCardID == nil {
		return ""
	}
	if rc, ok := r.rateCards[*svc.RateCardID]; ok {
		return rc.Name
	}
	return ""
}

func (r *relationSet) fieldValue(e models.WorkEntry, field string) string {
	switch field {
	case ColumnClientName:
		return r.clientName(e.ClientID)
	case ColumnStaffName:
		return r.staffName(e.StaffID)
	case ColumnServiceName:
		return r.serviceName(e.ServiceID)
	case ColumnRateName:
		return r.rateName(e.ServiceID)
	}
	return ""
}

func relationNeedsFor(cols ColumnDefList, filters []Filter, sorting []Sort) relationNeeds {
	var needs relationNeeds

	mark := func(field string) {
		switch field {
		case ColumnClientName:
			needs.clients = true
		case ColumnStaffName:
			needs.staff = true
		case ColumnServiceName, ColumnDistinctServices:
			needs.services = true
		case ColumnRateName:
			needs.services = true
			needs.rateCards = true
		}
	}

	for _, col := range cols {
		mark(col.ID)
	}
	for _, f := range filters {
		mark(f.Field)
	}
	for _, s := range sorting {
		mark(s.Field)
	}

	return needs
}

// needsInMemorySort reports whether any sort directive targets a field the
// data source cannot order on. When it does, the whole sort happens in
// memory so directive precedence stays intact.
func needsInMemorySort(sorting []Sort) bool {
	for _, s := range sorting {
		if _, ok := sortColumns[s.Field]; !ok {
			return true
		}
	}
	return false
}

// fetchWorkEntries fetches the primary records narrowed to exactly the base
// fields the selection, filters, sorts and grouping keys require. Returns the
// filters that could not be pushed down.
func fetchWorkEntries(ctx context.Context, cfg Config, cols ColumnDefList, keyFields []string, now time.Time) ([]models.WorkEntry, []Filter, error) {
	fields := append([]string{"id"}, keyFields...)
	for _, col := range cols {
		fields = append(fields, columnEntryFields[col.ID]...)
	}
	for _, f := range cfg.Filters {
		fields = append(fields, relationFields[f.Field]...)
	}
	for _, s := range cfg.Sorting {
		if column, ok := sortColumns[s.Field]; ok {
			fields = append(fields, column)
		}
		fields = append(fields, relationFields[s.Field]...)
	}
	fields = lo.Uniq(fields)

	q := ctx.DB().Model(&models.WorkEntry{}).Select(strings.Join(quoteColumns(fields), ", "))
	q, remaining := applyPushdownFilters(q, cfg.Filters, now)

	if len(cfg.Sorting) > 0 && !needsInMemorySort(cfg.Sorting) {
		for _, s := range cfg.Sorting {
			q = q.Order(fmt.Sprintf("%s %s", sortColumns[s.Field], s.Direction))
		}
		q = q.Order("id ASC")
	} else {
		// deterministic base order; in-memory sorts are stable on top of it
		q = q.Order("started_at ASC, id ASC")
	}

	var entries []models.WorkEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to fetch work entries: %w", err)
	}

	return entries, remaining, nil
}

// resolveRelations batch-fetches every related entity type referenced by the
// fetched entries. Independent fetches run as one parallel wave; rate cards
// depend on the fetched services and form a second wave.
func resolveRelations(ctx context.Context, entries []models.WorkEntry, needs relationNeeds) (*relationSet, error) {
	rel := &relationSet{
		clients:   map[uuid.UUID]models.Client{},
		staff:     map[uuid.UUID]models.Staff{},
		services:  map[uuid.UUID]models.Service{},
		rateCards: map[uuid.UUID]models.RateCard{},
	}

	eg, _ := errgroup.WithContext(ctx)

	if needs.clients {
		ids := lo.Uniq(lo.Map(entries, func(e models.WorkEntry, _ int) uuid.UUID {
			return e.ClientID
		}))
		eg.Go(func() error {
			var items []models.Client
			if err := ctx.DB().Where("id IN ?", ids).Find(&items).Error; err != nil {
				return fmt.Errorf("failed to fetch clients: %w", err)
			}
			rel.clients = lo.KeyBy(items, func(c models.Client) uuid.UUID { return c.ID })
			return nil
		})
	}

	if needs.staff {
		ids := lo.Uniq(lo.Map(entries, func(e models.WorkEntry, _ int) uuid.UUID {
			return e.StaffID
		}))
		eg.Go(func() error {
			var items []models.Staff
			if err := ctx.DB().Where("id IN ?", ids).Find(&items).Error; err != nil {
				return fmt.Errorf("failed to fetch staff: %w", err)
			}
			rel.staff = lo.KeyBy(items, func(s models.Staff) uuid.UUID { return s.ID })
			return nil
		})
	}

	if needs.services || needs.rateCards {
		var ids []uuid.UUID
		for _, e := range entries {
			if e.ServiceID != nil {
				ids = append(ids, *e.ServiceID)
			}
		}
		ids = lo.Uniq(ids)
		eg.Go(func() error {
			var items []models.Service
			if err := ctx.DB().Where("id IN ?", ids).Find(&items).Error; err != nil {
				return fmt.Errorf("failed to fetch services: %w", err)
			}
			rel.services = lo.KeyBy(items, func(s models.Service) uuid.UUID { return s.ID })
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// second wave: rate card ids are only known once services are resolved
	if needs.rateCards {
		var ids []uuid.UUID
		for _, svc := range rel.services {
			if svc.RateCardID != nil {
				ids = append(ids, *svc.RateCardID)
			}
		}
		if len(ids) > 0 {
			var items []models.RateCard
			if err := ctx.DB().Where("id IN ?", lo.Uniq(ids)).Find(&items).Error; err != nil {
				return nil, fmt.Errorf("failed to fetch rate cards: %w", err)
			}
			rel.rateCards = lo.KeyBy(items, func(rc models.RateCard) uuid.UUID { return rc.ID })
		}
	}

	return rel, nil
}

// filterEntries applies the filters that could not be pushed down.
func filterEntries(entries []models.WorkEntry, filters []Filter, rel *relationSet) []models.WorkEntry {
	if len(filters) == 0 {
		return entries
	}

	return lo.Filter(entries, func(e models.WorkEntry, _ int) bool {
		for _, f := range filters {
			if !matchValue(f, rel.fieldValue(e, f.Field)) {
				return false
			}
		}
		return true
	})
}

func sortEntries(entries []models.WorkEntry, sorting []Sort, rel *relationSet) {
	// applied last directive first so the first directive wins overall
	for i := len(sorting) - 1; i >= 0; i-- {
		s := sorting[i]
		sort.SliceStable(entries, func(a, b int) bool {
			less := entryLess(entries[a], entries[b], s.Field, rel)
			if s.Direction == SortDesc {
				return entryLess(entries[b], entries[a], s.Field, rel)
			}
			return less
		})
	}
}

func entryLess(a, b models.WorkEntry, field string, rel *relationSet) bool {
	switch field {
	case ColumnDate:
		return a.StartedAt.Before(b.StartedAt)
	case ColumnAmount:
		return a.Amount < b.Amount
	case ColumnDurationMins:
		return a.DurationMins < b.DurationMins
	case ColumnStatus:
		return a.Status < b.Status
	case ColumnReferenceCode:
		return a.ReferenceCode < b.ReferenceCode
	case ColumnLocation:
		return a.Location < b.Location
	default:
		return rel.fieldValue(a, field) < rel.fieldValue(b, field)
	}
}

// projectRows flattens each entry into a labeled row restricted to the
// requested columns. Unresolvable relations become empty strings.
func projectRows(entries []models.WorkEntry, cols ColumnDefList, rel *relationSet) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := make(Row, len(cols))
		for _, col := range cols {
			row[col.Label] = formatEntryColumn(e, col, rel)
		}
		rows = append(rows, row)
	}

	return rows
}

func formatEntryColumn(e models.WorkEntry, col ColumnDef, rel *relationSet) any {
	switch col.ID {
	case ColumnDate:
		return e.StartedAt.Format("2006-01-02")
	case ColumnClientName, ColumnStaffName, ColumnServiceName, ColumnRateName:
		return rel.fieldValue(e, col.ID)
	case ColumnDurationMins:
		return e.DurationMins
	case ColumnAmount:
		return round2(e.Amount)
	case ColumnStatus:
		return string(e.Status)
	case ColumnNotes:
		return e.Notes
	case ColumnReferenceCode:
		return e.ReferenceCode
	case ColumnLocation:
		return e.Location
	default:
		return ""
	}
}

// runDetail executes the detail pipeline: narrowed fetch, batched relation
// resolution, in-memory filtering/sorting, projection.
func runDetail(ctx context.Context, cfg Config, cols ColumnDefList, now time.Time) ([]Row, error) {
	entries, postFilters, err := fetchWorkEntries(ctx, cfg, cols, nil, now)
	if err != nil {
		return nil, err
	}

	needs := relationNeedsFor(cols, cfg.Filters, cfg.Sorting)
	rel, err := resolveRelations(ctx, entries, needs)
	if err != nil {
		return nil, err
	}

	entries = filterEntries(entries, postFilters, rel)

	if needsInMemorySort(cfg.Sorting) {
		sortEntries(entries, cfg.Sorting, rel)
	}

	return projectRows(entries, cols, rel), nil
}
