package models

import (
	"time"
)

const StatusRegistered = "Registered"

// Registration records one participant attending one occurrence. The
// composite unique index backstops the at-most-one-per-pair invariant that
// the ledger also checks inside its transaction.
type Registration struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ParticipantID     uint            `gorm:"uniqueIndex:idx_participant_occurrence" json:"participant_id"`
	EventOccurrenceID uint            `gorm:"uniqueIndex:idx_participant_occurrence" json:"event_occurrence_id"`
	Participant       Participant     `json:"participant"`
	EventOccurrence   EventOccurrence `json:"event_occurrence"`
	CreatedAt         time.Time       `json:"created_at"`
	Status            string          `json:"status"`
	Attended          *bool           `json:"attended"`
	CheckInTime       *time.Time      `json:"check_in_time"`
}
