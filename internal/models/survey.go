package models

import (
	"time"
)

// ParticipantSurvey is a submitted post-event survey header. Surveys are
// read-only in this service; submission happens out of band.
type ParticipantSurvey struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	ParticipantID     uint            `json:"participant_id"`
	Participant       Participant     `json:"participant"`
	EventOccurrenceID uint            `json:"event_occurrence_id"`
	EventOccurrence   EventOccurrence `json:"event_occurrence"`
	SubmittedAt       time.Time       `json:"submitted_at"`
}

type SurveyQuestion struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Question string `json:"question"`
}

type SurveyResponse struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	ParticipantSurveyID uint           `json:"participant_survey_id"`
	QuestionID          uint           `json:"question_id"`
	Question            SurveyQuestion `gorm:"foreignKey:QuestionID" json:"question"`
	Response            string         `json:"response"`
}
