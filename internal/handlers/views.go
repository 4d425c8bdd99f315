package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/ledger"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// ViewHandler serves the read-only JSON surface: the calendar feed, the
// profile view and the staff listings. Mutations stay on the form endpoints.
type ViewHandler struct {
	db            *gorm.DB
	registrations *ledger.RegistrationLedger
	milestones    *ledger.MilestoneLedger
	donations     *ledger.DonationLedger
}

func NewViewHandler(db *gorm.DB, r *ledger.RegistrationLedger, m *ledger.MilestoneLedger, d *ledger.DonationLedger) *ViewHandler {
	return &ViewHandler{db: db, registrations: r, milestones: m, donations: d}
}

func requireCapability(ctx context.Context, capability auth.Capability) (*auth.Identity, error) {
	identity := auth.IdentityFrom(ctx)
	if err := auth.Decide(identity, capability); err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			return nil, huma.Error403Forbidden("Access Denied.")
		}
		return nil, huma.Error401Unauthorized("Login required")
	}
	return identity, nil
}

type CalendarEntry struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
}

type CalendarDataRequest struct {
	TemplateID uint `path:"templateId" doc:"Event template identifier"`
}

type CalendarDataResponse struct {
	Body []CalendarEntry
}

// HandleCalendarData returns the occurrences of one template in the shape
// the calendar widget consumes.
func (h *ViewHandler) HandleCalendarData(ctx context.Context, input *CalendarDataRequest) (*CalendarDataResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityAuthenticated); err != nil {
		return nil, err
	}

	var occurrences []models.EventOccurrence
	err := h.db.Preload("EventTemplate").
		Where("event_template_id = ?", input.TemplateID).
		Find(&occurrences).Error
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading events")
	}

	entries := make([]CalendarEntry, 0, len(occurrences))
	for _, occurrence := range occurrences {
		entries = append(entries, CalendarEntry{
			ID:       occurrence.ID,
			Title:    occurrence.EventTemplate.Name,
			Start:    occurrence.StartsAt,
			End:      occurrence.EndsAt,
			Location: occurrence.Location,
		})
	}
	return &CalendarDataResponse{Body: entries}, nil
}

type ListEventsRequest struct {
	Search string `query:"search" doc:"Filter templates by name"`
}

type ListEventsResponse struct {
	Body []models.EventTemplate
}

// HandleListEvents lists event templates, optionally filtered by name.
func (h *ViewHandler) HandleListEvents(ctx context.Context, input *ListEventsRequest) (*ListEventsResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityAuthenticated); err != nil {
		return nil, err
	}

	query := h.db.Order("id")
	if input.Search != "" {
		query = query.Where("name LIKE ?", "%"+input.Search+"%")
	}
	var templates []models.EventTemplate
	if err := query.Find(&templates).Error; err != nil {
		return nil, huma.Error500InternalServerError("Error loading events")
	}
	return &ListEventsResponse{Body: templates}, nil
}

type ListMilestonesRequest struct{}

type ListMilestonesResponse struct {
	Body []models.Milestone
}

// HandleListMilestones lists milestone definitions for the achievement forms.
func (h *ViewHandler) HandleListMilestones(ctx context.Context, input *ListMilestonesRequest) (*ListMilestonesResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityAuthenticated); err != nil {
		return nil, err
	}

	milestones, err := h.milestones.ListDefinitions()
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading milestones")
	}
	return &ListMilestonesResponse{Body: milestones}, nil
}

type ProfileRequest struct{}

type ProfileResponse struct {
	Body struct {
		Participant   models.Participant            `json:"participant"`
		Milestones    []models.ParticipantMilestone `json:"milestones"`
		Donations     []models.Donation             `json:"donations"`
		DonationTotal float64                       `json:"donation_total"`
		Upcoming      []models.Registration         `json:"upcoming"`
		Past          []models.Registration         `json:"past"`
	}
}

// HandleProfile returns the logged-in participant's profile: contact info,
// milestones, donations with their running total, and registrations split
// into upcoming and past partitions.
func (h *ViewHandler) HandleProfile(ctx context.Context, input *ProfileRequest) (*ProfileResponse, error) {
	identity, err := requireCapability(ctx, auth.CapabilityAuthenticated)
	if err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := h.db.First(&participant, identity.ParticipantID).Error; err != nil {
		return nil, huma.Error404NotFound("Participant record not found")
	}

	now := time.Now()
	milestones, err := h.milestones.AchievementsFor(participant.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading profile")
	}
	donations, err := h.donations.ListFor(participant.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading profile")
	}
	total, err := h.donations.TotalForParticipant(participant.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading profile")
	}
	upcoming, err := h.registrations.Upcoming(participant.ID, now)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading profile")
	}
	past, err := h.registrations.Past(participant.ID, now)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading profile")
	}

	res := &ProfileResponse{}
	res.Body.Participant = participant
	res.Body.Milestones = milestones
	res.Body.Donations = donations
	res.Body.DonationTotal = total
	res.Body.Upcoming = upcoming
	res.Body.Past = past
	return res, nil
}

type AdminDonationsRequest struct{}

type AdminDonationsResponse struct {
	Body struct {
		Donations  []models.Donation `json:"donations"`
		GrandTotal float64           `json:"grand_total"`
	}
}

// HandleAdminDonations lists every donation with the computed grand total.
func (h *ViewHandler) HandleAdminDonations(ctx context.Context, input *AdminDonationsRequest) (*AdminDonationsResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityElevated); err != nil {
		return nil, err
	}

	donations, err := h.donations.List()
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading donations")
	}
	total, err := h.donations.GrandTotal()
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading donations")
	}

	res := &AdminDonationsResponse{}
	res.Body.Donations = donations
	res.Body.GrandTotal = total
	return res, nil
}

type ParticipantDetailRequest struct {
	ID uint `path:"id" doc:"Participant identifier"`
}

type ParticipantDetailResponse struct {
	Body struct {
		Participant models.Participant            `json:"participant"`
		Upcoming    []models.Registration         `json:"upcoming"`
		Milestones  []models.ParticipantMilestone `json:"milestones"`
	}
}

// HandleParticipantDetail returns the staff view of one participant.
func (h *ViewHandler) HandleParticipantDetail(ctx context.Context, input *ParticipantDetailRequest) (*ParticipantDetailResponse, error) {
	if _, err := requireCapability(ctx, auth.CapabilityElevated); err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := h.db.First(&participant, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	upcoming, err := h.registrations.Upcoming(participant.ID, time.Now())
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading user details")
	}
	milestones, err := h.milestones.AchievementsFor(participant.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Error loading user details")
	}

	res := &ParticipantDetailResponse{}
	res.Body.Participant = participant
	res.Body.Upcoming = upcoming
	res.Body.Milestones = milestones
	return res, nil
}
