package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/tracklite/reporting/context"
)

type Mode string

const (
	ModeDetail          Mode = "detail"
	ModeClientSummary   Mode = "client_summary"
	ModeStaffSummary    Mode = "staff_summary"
	ModeCombinedSummary Mode = "combined_summary"
	ModeMixed           Mode = "mixed"
)

// DecideMode inspects the selected columns against the registry and picks
// the execution mode.
//
// Aggregate columns without any grouping dimension column fall back to a
// detail-only report. The original product degraded this way silently; the
// fallback is kept but logged so misconfigured templates are visible.
func DecideMode(detailCols, aggregateCols ColumnDefList) Mode {
	if len(aggregateCols) == 0 {
		return ModeDetail
	}

	dims := detailCols.Dimensions()
	if len(dims) == 0 {
		return ModeDetail
	}

	if len(detailCols) > len(dims) {
		return ModeMixed
	}

	return summaryModeFor(dims)
}

func summaryModeFor(dims ColumnDefList) Mode {
	if len(dims) == 2 {
		return ModeCombinedSummary
	}
	if dims[0].ID == ColumnStaffName {
		return ModeStaffSummary
	}
	return ModeClientSummary
}

// Run executes a report configuration against the data source and returns
// the export-ready rows. It is a pure function of the configuration, the
// current time and the data source contents; nothing survives the call.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	return RunAt(ctx, cfg, time.Now())
}

// RunAt is Run with an explicit reference time for symbolic date ranges.
// Useful for deterministic replays.
func RunAt(ctx context.Context, cfg Config, now time.Time) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	detailCols, aggregateCols, err := Registry.Partition(cfg.Columns)
	if err != nil {
		return nil, err
	}

	mode := DecideMode(detailCols, aggregateCols)
	if mode == ModeDetail && len(aggregateCols) > 0 {
		// an explicit groupBy can stand in for a missing dimension column
		if col, ok := Registry.Find(cfg.GroupBy); ok && col.IsDimension() {
			mode = summaryModeFor(ColumnDefList{col})
		} else {
			ctx.Logger.Warnf("aggregate columns %v selected without a grouping dimension, falling back to a detail report", aggregateCols.IDs())
		}
	}

	selected, err := Registry.Select(cfg.Columns)
	if err != nil {
		return nil, err
	}
	labels := selected.Labels()

	var rows []Row
	switch mode {
	case ModeDetail:
		rows, err = runDetail(ctx, cfg, detailCols, now)
		if err != nil {
			return nil, err
		}
		// fallback reports may still carry aggregate columns; pad them out
		rows = expandRows(rows, labels)

	case ModeClientSummary, ModeStaffSummary, ModeCombinedSummary:
		rows, err = runSummary(ctx, cfg, selected, mode, now)
		if err != nil {
			return nil, err
		}

	case ModeMixed:
		detailRows, err := runDetail(ctx, cfg, detailCols, now)
		if err != nil {
			return nil, err
		}

		dims := detailCols.Dimensions()
		summaryCols := lo.Filter(selected, func(col ColumnDef, _ int) bool {
			return col.Aggregate || col.IsDimension()
		})
		summaryRows, err := runSummary(ctx, cfg, summaryCols, summaryModeFor(dims), now)
		if err != nil {
			return nil, err
		}

		rows = composeMixed(detailRows, summaryRows, labels)
	}

	return &Result{
		Mode:    mode,
		Columns: labels,
		Rows:    rows,
	}, nil
}
