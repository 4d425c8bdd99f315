package models

import (
	"time"
)

// Donation is one gift attached to a resolved participant identity.
// SequenceNo numbers a participant's donations the same way milestone
// records are numbered. Totals are computed on read, not maintained.
type Donation struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ParticipantID uint        `json:"participant_id"`
	Participant   Participant `json:"participant"`
	Amount        float64     `json:"amount"`
	Date          time.Time   `json:"date"`
	SequenceNo    int         `json:"sequence_no"`
}
