package reporting

import (
	"github.com/spf13/pflag"

	"github.com/tracklite/reporting/context"
	"github.com/tracklite/reporting/db"
	"github.com/tracklite/reporting/models"
	"github.com/tracklite/reporting/report"
)

func BindFlags(flags *pflag.FlagSet) {
	db.BindFlags(flags)
}

// Run executes a report configuration. Convenience wrapper around the
// report package.
func Run(ctx context.Context, cfg report.Config) (*report.Result, error) {
	return report.Run(ctx, cfg)
}

// Migrate creates or updates the schema for every model this module owns.
func Migrate(ctx context.Context) error {
	return ctx.DB().AutoMigrate(
		&models.Client{},
		&models.Staff{},
		&models.Service{},
		&models.RateCard{},
		&models.WorkEntry{},
		&models.ReportTemplate{},
	)
}
