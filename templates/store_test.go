package templates_test

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/tracklite/reporting/api"
	"github.com/tracklite/reporting/report"
	"github.com/tracklite/reporting/templates"
)

var _ = Describe("system templates", func() {
	It("exposes a valid built-in catalog with stable ids", func() {
		first, err := templates.SystemTemplates()
		Expect(err).ToNot(HaveOccurred())
		Expect(first).ToNot(BeEmpty())

		second, err := templates.SystemTemplates()
		Expect(err).ToNot(HaveOccurred())

		for i := range first {
			Expect(first[i].ID).To(Equal(second[i].ID))
			Expect(first[i].IsSystemTemplate).To(BeTrue())
			Expect(first[i].Config.Validate()).To(Succeed())
		}
	})

	It("refuses to delete a system template", func() {
		system, err := templates.SystemTemplates()
		Expect(err).ToNot(HaveOccurred())

		err = templates.Delete(ctx, system[0].ID)
		Expect(api.ErrorCode(err)).To(Equal(api.EFORBIDDEN))
	})

	It("keeps no usage counters for system templates", func() {
		system, err := templates.SystemTemplates()
		Expect(err).ToNot(HaveOccurred())

		Expect(templates.RecordUse(ctx, system[0].ID)).To(Succeed())

		got, err := templates.Get(ctx, system[0].ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(got.UseCount).To(BeZero())
	})
})

var _ = Describe("user templates", func() {
	validConfig := func() report.Config {
		return report.Config{
			Columns: []string{"date", "client_name", "amount"},
			Filters: []report.Filter{
				{Field: "date", Op: report.OpBetween, Value: "current_month"},
			},
		}
	}

	It("round-trips a created template through the store", func() {
		created, err := templates.Create(ctx, "My March Log", "march entries", validConfig())
		Expect(err).ToNot(HaveOccurred())
		Expect(created.ID).ToNot(Equal(uuid.Nil))

		got, err := templates.Get(ctx, created.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(got.Name).To(Equal("My March Log"))
		Expect(got.IsSystemTemplate).To(BeFalse())
		Expect(got.Config.Columns).To(Equal([]string{"date", "client_name", "amount"}))
		Expect(got.Config.Filters[0].Op).To(Equal(report.OpBetween))
	})

	It("lists system and user templates together", func() {
		created, err := templates.Create(ctx, "Listed Template", "", validConfig())
		Expect(err).ToNot(HaveOccurred())

		system, err := templates.SystemTemplates()
		Expect(err).ToNot(HaveOccurred())

		all, err := templates.List(ctx)
		Expect(err).ToNot(HaveOccurred())

		ids := lo.Map(all, func(tpl templates.SavedTemplate, _ int) uuid.UUID { return tpl.ID })
		Expect(ids).To(ContainElement(created.ID))
		Expect(ids).To(ContainElement(system[0].ID))
	})

	It("rejects a template without a name", func() {
		_, err := templates.Create(ctx, "", "", validConfig())
		Expect(api.ErrorCode(err)).To(Equal(api.EINVALID))
	})

	It("validates the configuration before persisting", func() {
		_, err := templates.Create(ctx, "Broken", "", report.Config{
			Columns: []string{"shoe_size"},
		})
		Expect(api.ErrorCode(err)).To(Equal(api.EINVALID))

		all, err := templates.List(ctx)
		Expect(err).ToNot(HaveOccurred())
		for _, tpl := range all {
			Expect(tpl.Name).ToNot(Equal("Broken"))
		}
	})

	It("tracks usage per template", func() {
		created, err := templates.Create(ctx, "Counted", "", validConfig())
		Expect(err).ToNot(HaveOccurred())

		Expect(templates.RecordUse(ctx, created.ID)).To(Succeed())
		Expect(templates.RecordUse(ctx, created.ID)).To(Succeed())

		got, err := templates.Get(ctx, created.ID)
		Expect(err).ToNot(HaveOccurred())
		Expect(got.UseCount).To(Equal(2))
		Expect(got.LastUsedAt).ToNot(BeNil())
	})

	It("deletes a user template exactly once", func() {
		created, err := templates.Create(ctx, "Ephemeral", "", validConfig())
		Expect(err).ToNot(HaveOccurred())

		Expect(templates.Delete(ctx, created.ID)).To(Succeed())

		_, err = templates.Get(ctx, created.ID)
		Expect(api.ErrorCode(err)).To(Equal(api.ENOTFOUND))

		err = templates.Delete(ctx, created.ID)
		Expect(api.ErrorCode(err)).To(Equal(api.ENOTFOUND))
	})
})
