package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tracklite/reporting/api"
	"github.com/tracklite/reporting/report"
)

var _ = Describe("DecideMode", func() {
	decide := func(columns ...string) report.Mode {
		detail, aggregate, err := report.Registry.Partition(columns)
		Expect(err).ToNot(HaveOccurred())
		return report.DecideMode(detail, aggregate)
	}

	DescribeTable("routes a selection to the right builder",
		func(expected report.Mode, columns ...string) {
			Expect(decide(columns...)).To(Equal(expected))
		},
		Entry("only detail columns", report.ModeDetail,
			"date", "client_name", "amount"),
		Entry("aggregates grouped by client", report.ModeClientSummary,
			"client_name", "total_entries", "total_amount"),
		Entry("aggregates grouped by staff", report.ModeStaffSummary,
			"staff_name", "total_amount", "average_amount"),
		Entry("aggregates grouped by both dimensions", report.ModeCombinedSummary,
			"client_name", "staff_name", "total_amount"),
		Entry("detail and aggregates together", report.ModeMixed,
			"date", "client_name", "amount", "total_amount"),
		Entry("aggregates without a dimension fall back to detail", report.ModeDetail,
			"date", "total_amount"),
	)

	It("rejects unknown column ids instead of ignoring them", func() {
		_, _, err := report.Registry.Partition([]string{"date", "shoe_size"})
		Expect(err).To(HaveOccurred())
		Expect(api.ErrorCode(err)).To(Equal(api.EINVALID))
	})
})

var _ = Describe("Config validation", func() {
	It("rejects an empty column list", func() {
		err := report.Config{}.Validate()
		Expect(api.ErrorCode(err)).To(Equal(api.EINVALID))
	})

	It("rejects unsupported operators for a field", func() {
		cfg := report.Config{
			Columns: []string{"date"},
			Filters: []report.Filter{{Field: "date", Op: report.OpContains, Value: "03"}},
		}
		Expect(api.ErrorCode(cfg.Validate())).To(Equal(api.EINVALID))
	})

	It("rejects filters on unknown fields", func() {
		cfg := report.Config{
			Columns: []string{"date"},
			Filters: []report.Filter{{Field: "shoe_size", Op: report.OpEquals, Value: 42}},
		}
		Expect(api.ErrorCode(cfg.Validate())).To(Equal(api.EINVALID))
	})

	It("rejects a between filter without a [min, max] pair", func() {
		cfg := report.Config{
			Columns: []string{"amount"},
			Filters: []report.Filter{{Field: "amount", Op: report.OpBetween, Value: 10}},
		}
		Expect(api.ErrorCode(cfg.Validate())).To(Equal(api.EINVALID))
	})

	It("rejects a groupBy that is not a grouping dimension", func() {
		cfg := report.Config{
			Columns: []string{"total_amount"},
			GroupBy: "amount",
		}
		Expect(api.ErrorCode(cfg.Validate())).To(Equal(api.EINVALID))
	})

	It("accepts a complete well-formed configuration", func() {
		cfg := report.Config{
			Columns: []string{"date", "client_name", "amount"},
			Filters: []report.Filter{
				{Field: "date", Op: report.OpBetween, Value: "current_month"},
				{Field: "status", Op: report.OpIn, Value: []string{"invoiced", "paid"}},
			},
			Sorting: []report.Sort{{Field: "amount", Direction: report.SortDesc}},
		}
		Expect(cfg.Validate()).To(Succeed())
	})
})
