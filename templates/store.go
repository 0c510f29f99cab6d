package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tracklite/reporting/api"
	"github.com/tracklite/reporting/context"
	"github.com/tracklite/reporting/models"
	"github.com/tracklite/reporting/report"
)

// List returns the system catalog followed by all user templates.
func List(ctx context.Context) ([]SavedTemplate, error) {
	templates, err := SystemTemplates()
	if err != nil {
		return nil, err
	}

	var saved []models.ReportTemplate
	if err := ctx.DB().Order("created_at").Find(&saved).Error; err != nil {
		return nil, err
	}

	for _, tpl := range saved {
		var cfg report.Config
		if err := json.Unmarshal(tpl.Spec, &cfg); err != nil {
			return nil, fmt.Errorf("template %s has an unreadable config: %w", tpl.ID, err)
		}

		templates = append(templates, SavedTemplate{ReportTemplate: tpl, Config: cfg})
	}

	return templates, nil
}

// Get looks up a template by id, checking the system catalog first.
func Get(ctx context.Context, id uuid.UUID) (*SavedTemplate, error) {
	system, err := SystemTemplates()
	if err != nil {
		return nil, err
	}
	for _, tpl := range system {
		if tpl.ID == id {
			return &tpl, nil
		}
	}

	var saved models.ReportTemplate
	if err := ctx.DB().Where("id = ?", id).First(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, api.Errorf(api.ENOTFOUND, "template %s not found", id)
		}
		return nil, err
	}

	var cfg report.Config
	if err := json.Unmarshal(saved.Spec, &cfg); err != nil {
		return nil, fmt.Errorf("template %s has an unreadable config: %w", saved.ID, err)
	}

	return &SavedTemplate{ReportTemplate: saved, Config: cfg}, nil
}

// Create persists a named user template. The configuration is validated
// before anything is written.
func Create(ctx context.Context, name, description string, cfg report.Config) (*models.ReportTemplate, error) {
	if name == "" {
		return nil, api.Errorf(api.EINVALID, "template name is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spec, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}

	template := models.ReportTemplate{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Spec:        spec,
	}
	if err := ctx.DB().Create(&template).Error; err != nil {
		return nil, err
	}

	return &template, nil
}

// Delete removes a user template. System templates cannot be deleted.
func Delete(ctx context.Context, id uuid.UUID) error {
	if system, err := isSystemTemplate(id); err != nil {
		return err
	} else if system {
		return api.Errorf(api.EFORBIDDEN, "system templates cannot be deleted")
	}

	result := ctx.DB().Where("id = ? AND is_system_template = ?", id, false).Delete(&models.ReportTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return api.Errorf(api.ENOTFOUND, "template %s not found", id)
	}

	return nil
}

// RecordUse bumps the usage bookkeeping of a user template.
// System templates keep no usage counters; recording a use is a no-op.
func RecordUse(ctx context.Context, id uuid.UUID) error {
	if system, err := isSystemTemplate(id); err != nil {
		return err
	} else if system {
		return nil
	}

	return ctx.DB().Model(&models.ReportTemplate{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"use_count":    gorm.Expr("use_count + 1"),
			"last_used_at": time.Now(),
		}).Error
}
