package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// SurveyHandler serves submitted post-event surveys. Surveys are read-only
// here; collection happens outside this service.
type SurveyHandler struct {
	db *gorm.DB
}

func NewSurveyHandler(db *gorm.DB) *SurveyHandler {
	return &SurveyHandler{db: db}
}

type ListSurveysRequest struct{}

type ListSurveysResponse struct {
	Body []models.ParticipantSurvey
}

// HandleListSurveys lists all submitted surveys, newest first.
func (h *SurveyHandler) HandleListSurveys(ctx context.Context, input *ListSurveysRequest) (*ListSurveysResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityAuthenticated); err != nil {
		return nil, err
	}

	var surveys []models.ParticipantSurvey
	err := h.db.Preload("Participant").
		Preload("EventOccurrence.EventTemplate").
		Order("submitted_at DESC").
		Find(&surveys).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading surveys")
	}
	return &ListSurveysResponse{Body: surveys}, nil
}

type SurveyDetailRequest struct {
	ID uint `path:"id" doc:"Survey identifier"`
}

type SurveyDetailResponse struct {
	Body struct {
		Survey    models.ParticipantSurvey `json:"survey"`
		Responses []models.SurveyResponse  `json:"responses"`
	}
}

// HandleSurveyDetail returns one survey header with its question/response
// pairs in question order.
func (h *SurveyHandler) HandleSurveyDetail(ctx context.Context, input *SurveyDetailRequest) (*SurveyDetailResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityAuthenticated); err != nil {
		return nil, err
	}
	return h.detail(input.ID, 0)
}

type MySurveysRequest struct{}

type MySurveysResponse struct {
	Body []models.ParticipantSurvey
}

// HandleMySurveys lists the logged-in participant's own submissions.
func (h *SurveyHandler) HandleMySurveys(ctx context.Context, input *MySurveysRequest) (*MySurveysResponse, error) {
	identity, err := requireCapability(ctx, auth.CapabilityAuthenticated)
	if err != nil {
		return nil, err
	}

	var surveys []models.ParticipantSurvey
	err = h.db.Preload("EventOccurrence.EventTemplate").
		Where("participant_id = ?", identity.ParticipantID).
		Order("submitted_at DESC").
		Find(&surveys).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading your surveys")
	}
	return &MySurveysResponse{Body: surveys}, nil
}

// HandleMySurveyDetail returns one of the logged-in participant's own
// submissions; other participants' surveys read as not found.
func (h *SurveyHandler) HandleMySurveyDetail(ctx context.Context, input *SurveyDetailRequest) (*SurveyDetailResponse, error) {
	identity, err := requireCapability(ctx, auth.CapabilityAuthenticated)
	if err != nil {
		return nil, err
	}
	return h.detail(input.ID, identity.ParticipantID)
}

// detail loads a survey header and its responses. A non-zero ownerID scopes
// the lookup to that participant.
func (h *SurveyHandler) detail(surveyID, ownerID uint) (*SurveyDetailResponse, error) {
	query := h.db.Preload("Participant").Preload("EventOccurrence.EventTemplate")
	if ownerID != 0 {
		query = query.Where("participant_id = ?", ownerID)
	}

	var survey models.ParticipantSurvey
	if err := query.First(&survey, surveyID).Error; err != nil {
		return nil, huma.Error404NotFound("Survey not found.")
	}

	var responses []models.SurveyResponse
	err := h.db.Preload("Question").
		Where("participant_survey_id = ?", surveyID).
		Order("question_id").
		Find(&responses).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading survey details")
	}

	res := &SurveyDetailResponse{}
	res.Body.Survey = survey
	res.Body.Responses = responses
	return res, nil
}
