package report

import (
	"github.com/samber/lo"

	"github.com/tracklite/reporting/api"
)

type Operator string

const (
	OpEquals      Operator = "equals"
	OpContains    Operator = "contains"
	OpBetween     Operator = "between"
	OpIn          Operator = "in"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Filter struct {
	Field string   `json:"field" yaml:"field"`
	Op    Operator `json:"operator" yaml:"operator"`
	Value any      `json:"value" yaml:"value"`
}

type Sort struct {
	Field     string        `json:"field" yaml:"field"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// Config is the declarative, user-editable report definition.
// It is a serializable value object; the engine is a pure function of
// (Config, now, data source contents).
type Config struct {
	Columns []string `json:"columns" yaml:"columns"`
	Filters []Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sorting []Sort   `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	GroupBy string   `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
}

// filterOperators lists the operators supported per filterable field.
// Fields backed by a relation (names) are applied in memory after the
// primary fetch; the rest are pushed down to the data source.
var filterOperators = map[string][]Operator{
	FieldDate:          {OpBetween},
	FieldStatus:        {OpEquals, OpContains, OpIn},
	FieldClientID:      {OpEquals, OpIn},
	FieldStaffID:       {OpEquals, OpIn},
	FieldServiceID:     {OpEquals, OpIn},
	FieldAmount:        {OpEquals, OpBetween, OpGreaterThan, OpLessThan},
	FieldDurationMins:  {OpBetween, OpGreaterThan, OpLessThan},
	FieldReferenceCode: {OpEquals, OpContains, OpIn},
	FieldLocation:      {OpEquals, OpContains, OpIn},
	ColumnClientName:   {OpEquals, OpContains, OpIn},
	ColumnStaffName:    {OpEquals, OpContains, OpIn},
	ColumnServiceName:  {OpEquals, OpContains, OpIn},
	ColumnRateName:     {OpEquals, OpContains, OpIn},
}

// Validate fails fast on anything that would make the execution ambiguous:
// unknown columns, unfilterable fields, unsupported operators and unknown
// sort targets. Nothing is fetched before this passes.
func (c Config) Validate() error {
	if len(c.Columns) == 0 {
		return api.Errorf(api.EINVALID, "at least one column is required")
	}

	if _, err := Registry.Select(c.Columns); err != nil {
		return err
	}

	for _, f := range c.Filters {
		ops, ok := filterOperators[f.Field]
		if !ok {
			return api.Errorf(api.EINVALID, "field %s does not support filtering", f.Field)
		}
		if !lo.Contains(ops, f.Op) {
			return api.Errorf(api.EINVALID, "operator %s is not supported for field %s", f.Op, f.Field)
		}

		// date ranges also accept symbolic tokens; every other between
		// needs an explicit pair
		if f.Op == OpBetween && f.Field != FieldDate && len(toSlice(f.Value)) != 2 {
			return api.Errorf(api.EINVALID, "between filter on %s requires a [min, max] pair", f.Field)
		}
	}

	for _, s := range c.Sorting {
		if _, ok := Registry.Find(s.Field); !ok {
			return api.Errorf(api.EINVALID, "unknown sort field: %s", s.Field)
		}
		if s.Direction != SortAsc && s.Direction != SortDesc {
			return api.Errorf(api.EINVALID, "invalid sort direction: %s", s.Direction)
		}
	}

	if c.GroupBy != "" {
		if col, ok := Registry.Find(c.GroupBy); !ok || !col.IsDimension() {
			return api.Errorf(api.EINVALID, "groupBy must name a grouping dimension column, got %s", c.GroupBy)
		}
	}

	return nil
}
