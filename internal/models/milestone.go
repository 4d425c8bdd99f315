package models

import (
	"time"
)

// Milestone is an achievable milestone definition.
type Milestone struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `json:"title"`
}

// ParticipantMilestone is one achievement record. SequenceNo is a
// per-participant number starting at 1; freed numbers are never reused.
// The same milestone may be recorded more than once for a participant.
type ParticipantMilestone struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ParticipantID uint      `json:"participant_id"`
	MilestoneID   uint      `json:"milestone_id"`
	Milestone     Milestone `json:"milestone"`
	AchievedOn    time.Time `json:"achieved_on"`
	SequenceNo    int       `json:"sequence_no"`
}
