package report_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tracklite/reporting/report"
)

var _ = Describe("ResolveDateRange", func() {
	reference := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	day := func(t time.Time) string {
		return t.Format("2006-01-02")
	}

	DescribeTable("resolves symbolic tokens relative to now",
		func(token string, expectedStart, expectedEnd string) {
			start, end := report.ResolveDateRange(token, reference)
			Expect(day(start)).To(Equal(expectedStart))
			Expect(day(end)).To(Equal(expectedEnd))
		},
		Entry("current month", "current_month", "2024-03-01", "2024-03-31"),
		Entry("last month", "last_month", "2024-02-01", "2024-02-29"),
		Entry("last 7 days", "last_7_days", "2024-03-08", "2024-03-15"),
		Entry("datemath expression", "now-2d", "2024-03-13", "2024-03-15"),
		Entry("unrecognized token defaults to the single day of now", "fortnight", "2024-03-15", "2024-03-15"),
	)

	It("passes literal ranges through unchanged", func() {
		start, end := report.ResolveDateRange([]string{"2024-01-10", "2024-02-20"}, reference)
		Expect(day(start)).To(Equal("2024-01-10"))
		Expect(day(end)).To(Equal("2024-02-20"))
	})

	It("accepts literal ranges decoded from JSON", func() {
		start, end := report.ResolveDateRange([]any{"2024-01-10", "2024-02-20"}, reference)
		Expect(day(start)).To(Equal("2024-01-10"))
		Expect(day(end)).To(Equal("2024-02-20"))
	})

	It("covers whole days inclusively", func() {
		start, end := report.ResolveDateRange("current_month", reference)
		Expect(start.Hour()).To(Equal(0))
		Expect(end.Hour()).To(Equal(23))

		boundary := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		Expect(boundary.Before(start)).To(BeFalse())

		leapDay := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)
		Expect(leapDay.Before(start)).To(BeTrue())
	})
})
