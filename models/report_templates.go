package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportTemplate is a named, persisted report configuration.
// Spec holds the serialized report.Config.
type ReportTemplate struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Spec             json.RawMessage `json:"spec" gorm:"type:jsonb"`
	IsSystemTemplate bool            `json:"is_system_template"`
	UseCount         int             `json:"use_count"`
	LastUsedAt       *time.Time      `json:"last_used_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}
