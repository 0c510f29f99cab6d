package report

import (
	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/tracklite/reporting/api"
)

type ColumnCategory string

const (
	CategoryEntry     ColumnCategory = "entry"
	CategoryClient    ColumnCategory = "client"
	CategoryStaff     ColumnCategory = "staff"
	CategoryService   ColumnCategory = "service"
	CategoryFinancial ColumnCategory = "financial"
	CategorySummary   ColumnCategory = "summary"
)

// Column ids exposed to report configurations.
const (
	ColumnDate             = "date"
	ColumnClientName       = "client_name"
	ColumnStaffName        = "staff_name"
	ColumnServiceName      = "service_name"
	ColumnRateName         = "rate_name"
	ColumnDurationMins     = "duration_mins"
	ColumnAmount           = "amount"
	ColumnStatus           = "status"
	ColumnNotes            = "notes"
	ColumnReferenceCode    = "reference_code"
	ColumnLocation         = "location"
	ColumnTotalEntries     = "total_entries"
	ColumnTotalAmount      = "total_amount"
	ColumnAverageAmount    = "average_amount"
	ColumnDistinctServices = "distinct_services"
)

// ColumnDef is one entry of the column registry.
type ColumnDef struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Category ColumnCategory `json:"category"`

	// Aggregate columns are computed over a group of entries rather than per entry.
	Aggregate bool `json:"aggregate,omitempty"`

	// Advanced columns are fetched only when explicitly selected.
	Advanced bool `json:"advanced,omitempty"`
}

// IsDimension reports whether selecting this column implies grouping
// aggregate metrics by the entity it names.
func (c ColumnDef) IsDimension() bool {
	return c.ID == ColumnClientName || c.ID == ColumnStaffName
}

type ColumnDefList []ColumnDef

// Registry is the catalog of every exposable column.
// It is read-only and shared by all invocations.
var Registry = ColumnDefList{
	{ID: ColumnDate, Label: "Date", Category: CategoryEntry},
	{ID: ColumnClientName, Label: "Client", Category: CategoryClient},
	{ID: ColumnStaffName, Label: "Staff Member", Category: CategoryStaff},
	{ID: ColumnServiceName, Label: "Service", Category: CategoryService},
	{ID: ColumnRateName, Label: "Rate Card", Category: CategoryService, Advanced: true},
	{ID: ColumnDurationMins, Label: "Duration (mins)", Category: CategoryEntry},
	{ID: ColumnAmount, Label: "Amount", Category: CategoryFinancial},
	{ID: ColumnStatus, Label: "Status", Category: CategoryEntry},
	{ID: ColumnNotes, Label: "Notes", Category: CategoryEntry, Advanced: true},
	{ID: ColumnReferenceCode, Label: "Reference", Category: CategoryEntry, Advanced: true},
	{ID: ColumnLocation, Label: "Location", Category: CategoryEntry, Advanced: true},
	{ID: ColumnTotalEntries, Label: "Total Entries", Category: CategorySummary, Aggregate: true},
	{ID: ColumnTotalAmount, Label: "Total Amount", Category: CategorySummary, Aggregate: true},
	{ID: ColumnAverageAmount, Label: "Average Amount", Category: CategorySummary, Aggregate: true},
	{ID: ColumnDistinctServices, Label: "Distinct Services", Category: CategorySummary, Aggregate: true},
}

func (c ColumnDefList) Find(id string) (ColumnDef, bool) {
	return lo.Find(c, func(col ColumnDef) bool {
		return col.ID == id
	})
}

func (c ColumnDefList) IDs() []string {
	return lo.Map(c, func(col ColumnDef, _ int) string {
		return col.ID
	})
}

func (c ColumnDefList) Labels() []string {
	return lo.Map(c, func(col ColumnDef, _ int) string {
		return col.Label
	})
}

func (c ColumnDefList) Dimensions() ColumnDefList {
	return lo.Filter(c, func(col ColumnDef, _ int) bool {
		return col.IsDimension()
	})
}

// Select resolves ids against the registry, preserving order.
// Unknown ids are a configuration error, never silently dropped.
func (c ColumnDefList) Select(ids []string) (ColumnDefList, error) {
	selected := make(ColumnDefList, 0, len(ids))
	for _, id := range ids {
		col, ok := c.Find(id)
		if !ok {
			return nil, api.Errorf(api.EINVALID, "unknown column: %s", id)
		}
		selected = append(selected, col)
	}

	return selected, nil
}

// Partition splits a selection into detail and aggregate columns,
// each preserving the selection order.
func (c ColumnDefList) Partition(ids []string) (detail, aggregate ColumnDefList, err error) {
	selected, err := c.Select(ids)
	if err != nil {
		return nil, nil, err
	}

	for _, col := range selected {
		if col.Aggregate {
			aggregate = append(aggregate, col)
		} else {
			detail = append(detail, col)
		}
	}

	return detail, aggregate, nil
}

// quoteColumns quotes raw database identifiers for a SELECT clause.
func quoteColumns(fields []string) []string {
	return lo.Map(fields, func(f string, _ int) string {
		return pq.QuoteIdentifier(f)
	})
}
