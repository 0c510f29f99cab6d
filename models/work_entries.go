package models

import (
	"time"

	"github.com/google/uuid"
)

type WorkEntryStatus string

const (
	WorkEntryStatusLogged   WorkEntryStatus = "logged"
	WorkEntryStatusInvoiced WorkEntryStatus = "invoiced"
	WorkEntryStatusPaid     WorkEntryStatus = "paid"
	WorkEntryStatusVoided   WorkEntryStatus = "voided"
)

// WorkEntry is one atomic billable event.
// Foreign keys are resolved in batches by the report engine, not preloaded.
type WorkEntry struct {
	ID            uuid.UUID       `json:"id"`
	ClientID      uuid.UUID       `json:"client_id"`
	StaffID       uuid.UUID       `json:"staff_id"`
	ServiceID     *uuid.UUID      `json:"service_id,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	DurationMins  int             `json:"duration_mins"`
	Amount        float64         `json:"amount"`
	Status        WorkEntryStatus `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	ReferenceCode string          `json:"reference_code,omitempty"`
	Location      string          `json:"location,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (WorkEntry) TableName() string {
	return "work_entries"
}
