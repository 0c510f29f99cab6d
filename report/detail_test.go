package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tracklite/reporting/api"
	"github.com/tracklite/reporting/report"
)

var _ = Describe("detail reports", func() {
	dateFilter := func(value any) report.Filter {
		return report.Filter{Field: "date", Op: report.OpBetween, Value: value}
	}

	It("emits one row per entry with exactly the selected columns", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date", "client_name", "staff_name", "amount"},
			Filters: []report.Filter{dateFilter(marchFilter())},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Mode).To(Equal(report.ModeDetail))
		Expect(result.Columns).To(Equal([]string{"Date", "Client", "Staff Member", "Amount"}))
		Expect(result.Rows).To(HaveLen(4))
		for _, row := range result.Rows {
			Expect(row).To(HaveLen(4))
		}

		// default ordering is chronological
		Expect(result.Rows[0]["Date"]).To(Equal("2024-03-01"))
		Expect(result.Rows[0]["Client"]).To(Equal("Globex GmbH"))
		Expect(result.Rows[1]["Client"]).To(Equal("Acme Corp"))
		Expect(result.Rows[1]["Amount"]).To(Equal(25.0))
	})

	It("applies inclusive date boundaries", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date"},
			Filters: []report.Filter{dateFilter(marchFilter())},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		var dates []any
		for _, row := range result.Rows {
			dates = append(dates, row["Date"])
		}
		Expect(dates).To(ContainElement("2024-03-01"))
		Expect(dates).ToNot(ContainElement("2024-02-29"))
	})

	It("excludes symbolic ranges entries outside the current month", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date", "reference_code"},
			Filters: []report.Filter{dateFilter("current_month")},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Rows).To(HaveLen(4))
		for _, row := range result.Rows {
			Expect(row["Reference"]).ToNot(Equal("WRK-000")) // february
			Expect(row["Reference"]).ToNot(Equal("WRK-005")) // april
		}
	})

	It("resolves second-wave relations for advanced columns", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"reference_code", "service_name", "rate_name"},
			Filters: []report.Filter{dateFilter(marchFilter())},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		byRef := map[any]report.Row{}
		for _, row := range result.Rows {
			byRef[row["Reference"]] = row
		}

		Expect(byRef["WRK-001"]["Service"]).To(Equal("Consulting"))
		Expect(byRef["WRK-001"]["Rate Card"]).To(Equal("Standard"))

		// audit has no rate card attached
		Expect(byRef["WRK-003"]["Service"]).To(Equal("Audit"))
		Expect(byRef["WRK-003"]["Rate Card"]).To(Equal(""))
	})

	It("renders unresolvable relations as empty strings instead of failing", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"reference_code", "service_name"},
			Filters: []report.Filter{dateFilter(marchFilter())},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Rows).To(HaveLen(4))
		for _, row := range result.Rows {
			if row["Reference"] == "WRK-004" {
				Expect(row["Service"]).To(Equal(""))
			}
		}
	})

	It("filters on relation values in memory", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date", "amount"},
			Filters: []report.Filter{
				dateFilter(marchFilter()),
				{Field: "client_name", Op: report.OpContains, Value: "acme"},
			},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Rows).To(HaveLen(2))
	})

	It("pushes set-membership filters down to the data source", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"reference_code", "status"},
			Filters: []report.Filter{
				dateFilter(marchFilter()),
				{Field: "status", Op: report.OpIn, Value: []string{"invoiced"}},
			},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Rows).To(HaveLen(2))
		for _, row := range result.Rows {
			Expect(row["Status"]).To(Equal("invoiced"))
		}
	})

	It("sorts on relation values in memory, stably over the base order", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date", "client_name"},
			Filters: []report.Filter{dateFilter(marchFilter())},
			Sorting: []report.Sort{{Field: "client_name", Direction: report.SortAsc}},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		var order []any
		for _, row := range result.Rows {
			order = append(order, row["Client"].(string)+" "+row["Date"].(string))
		}
		Expect(order).To(Equal([]any{
			"Acme Corp 2024-03-05",
			"Acme Corp 2024-03-10",
			"Globex GmbH 2024-03-01",
			"Globex GmbH 2024-03-12",
		}))
	})

	It("applies base-column sort directives under an in-memory primary sort", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"reference_code", "client_name"},
			Filters: []report.Filter{dateFilter(marchFilter())},
			Sorting: []report.Sort{
				{Field: "client_name", Direction: report.SortAsc},
				{Field: "date", Direction: report.SortDesc},
			},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		var refs []any
		for _, row := range result.Rows {
			refs = append(refs, row["Reference"])
		}

		// newest first within each client
		Expect(refs).To(Equal([]any{"WRK-002", "WRK-001", "WRK-003", "WRK-004"}))
	})

	It("sorts on base columns via the data source", func() {
		result, err := report.RunAt(ctx, report.Config{
			Columns: []string{"amount"},
			Filters: []report.Filter{dateFilter(marchFilter())},
			Sorting: []report.Sort{{Field: "amount", Direction: report.SortDesc}},
		}, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Rows[0]["Amount"]).To(Equal(40.0))
	})

	It("fails with a configuration error on unknown columns", func() {
		_, err := report.RunAt(ctx, report.Config{
			Columns: []string{"date", "shoe_size"},
		}, now)
		Expect(err).To(HaveOccurred())
		Expect(api.ErrorCode(err)).To(Equal(api.EINVALID))
	})

	It("returns identical results for identical configurations", func() {
		cfg := report.Config{
			Columns: []string{"date", "client_name", "service_name", "amount"},
			Filters: []report.Filter{dateFilter(marchFilter())},
		}

		first, err := report.RunAt(ctx, cfg, now)
		Expect(err).ToNot(HaveOccurred())
		second, err := report.RunAt(ctx, cfg, now)
		Expect(err).ToNot(HaveOccurred())

		Expect(second).To(Equal(first))
	})
})
