package db

import (
	"fmt"

	"github.com/samber/oops"
	"gorm.io/gorm"
)

// oopsPlugin wraps every gorm error with oops and tags it "db", so callers
// can distinguish data source failures from configuration errors.
type oopsPlugin struct{}

func NewOopsPlugin() gorm.Plugin {
	return &oopsPlugin{}
}

func (p oopsPlugin) Name() string {
	return "tracklite-oops"
}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

func (p oopsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	registrars := map[string]gormRegister{
		"create": cb.Create().After("tracklite-oops:create"),
		"query":  cb.Query().After("tracklite-oops:query"),
		"update": cb.Update().After("tracklite-oops:update"),
		"delete": cb.Delete().After("tracklite-oops:delete"),
		"row":    cb.Row().After("tracklite-oops:row"),
		"raw":    cb.Raw().After("tracklite-oops:raw"),
	}

	for name, r := range registrars {
		if err := r.Register("tracklite-oops:wrap-"+name, p.wrapError); err != nil {
			return fmt.Errorf("failed to register %s callback: %w", name, err)
		}
	}

	return nil
}

func (p oopsPlugin) wrapError(tx *gorm.DB) {
	if tx.Error != nil {
		tx.Error = oops.Tags("db").Wrap(ErrorDetails(tx.Error))
	}
}
