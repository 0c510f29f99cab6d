package models

import (
	"time"

	"github.com/google/uuid"
)

type Service struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	RateCardID *uuid.UUID `json:"rate_card_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Service) TableName() string {
	return "services"
}

type RateCard struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	HourlyRate float64   `json:"hourly_rate"`
	Currency   string    `json:"currency,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (RateCard) TableName() string {
	return "rate_cards"
}
