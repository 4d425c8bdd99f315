package models

import (
	"time"
)

// EventTemplate is a recurring event definition ("Monthly Workshop").
type EventTemplate struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	RecurrencePattern string `json:"recurrence_pattern"`
	Description       string `json:"description"`
	DefaultCapacity   int    `json:"default_capacity"`
}

// EventOccurrence is one scheduled instance of a template.
type EventOccurrence struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	EventTemplateID      uint          `json:"event_template_id"`
	EventTemplate        EventTemplate `json:"event_template"`
	StartsAt             time.Time     `json:"starts_at"`
	EndsAt               time.Time     `json:"ends_at"`
	Location             string        `json:"location"`
	Capacity             int           `json:"capacity"`
	RegistrationDeadline *time.Time    `json:"registration_deadline"`
}
