package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/ledger"
	"go.uber.org/zap"
)

type MilestoneHandler struct {
	ledger *ledger.MilestoneLedger
	logger *zap.Logger
}

func NewMilestoneHandler(l *ledger.MilestoneLedger, logger *zap.Logger) *MilestoneHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilestoneHandler{ledger: l, logger: logger}
}

const achievementDateLayout = "2006-01-02"

// HandleAddSelf records a milestone achievement for the logged-in
// participant. Milestone and date are both required.
func (h *MilestoneHandler) HandleAddSelf(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	milestoneID, errID := strconv.ParseUint(r.FormValue("milestoneid"), 10, 32)
	achievedOn, errDate := time.Parse(achievementDateLayout, r.FormValue("milestonedate"))
	if errID != nil || errDate != nil {
		http.Redirect(w, r, "/profile?msg=missing", http.StatusFound)
		return
	}

	_, err := h.ledger.AddAchievement(identity.ParticipantID, uint(milestoneID), achievedOn)
	if err != nil {
		if !errors.Is(err, ledger.ErrMilestoneNotFound) {
			h.logger.Error("failed to add achievement", zap.Error(err))
		}
		http.Redirect(w, r, "/profile?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/profile?newMilestone=1", http.StatusFound)
}

// HandleAddAdmin records an achievement for a chosen participant.
func (h *MilestoneHandler) HandleAddAdmin(w http.ResponseWriter, r *http.Request) {
	participantID, errP := strconv.ParseUint(r.FormValue("participantid"), 10, 32)
	milestoneID, errM := strconv.ParseUint(r.FormValue("milestoneid"), 10, 32)
	achievedOn, errDate := time.Parse(achievementDateLayout, r.FormValue("milestonedate"))
	if errP != nil || errM != nil || errDate != nil {
		http.Redirect(w, r, "/users?msg=missing", http.StatusFound)
		return
	}

	_, err := h.ledger.AddAchievement(uint(participantID), uint(milestoneID), achievedOn)
	if err != nil {
		if !errors.Is(err, ledger.ErrParticipantNotFound) && !errors.Is(err, ledger.ErrMilestoneNotFound) {
			h.logger.Error("failed to add achievement", zap.Error(err))
		}
		http.Redirect(w, r, fmt.Sprintf("/users/view/%d?msg=error", participantID), http.StatusFound)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/view/%d", participantID), http.StatusFound)
}

// HandleEditAdmin updates an achievement record.
func (h *MilestoneHandler) HandleEditAdmin(w http.ResponseWriter, r *http.Request) {
	recordID, errR := urlParamID(r, "id")
	milestoneID, errM := strconv.ParseUint(r.FormValue("milestoneid"), 10, 32)
	achievedOn, errDate := time.Parse(achievementDateLayout, r.FormValue("milestonedate"))
	participantID := r.FormValue("participantid")
	if errR != nil || errM != nil || errDate != nil {
		http.Redirect(w, r, "/users?msg=missing", http.StatusFound)
		return
	}

	if err := h.ledger.EditAchievement(recordID, uint(milestoneID), achievedOn); err != nil {
		if !errors.Is(err, ledger.ErrAchievementNotFound) {
			h.logger.Error("failed to edit achievement", zap.Error(err))
		}
		http.Redirect(w, r, fmt.Sprintf("/users/view/%s?msg=error", participantID), http.StatusFound)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/view/%s", participantID), http.StatusFound)
}

// HandleDeleteAdmin removes an achievement record.
func (h *MilestoneHandler) HandleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	recordID, err := urlParamID(r, "id")
	participantID := r.URL.Query().Get("participant")
	if err != nil {
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}

	if err := h.ledger.DeleteAchievement(recordID); err != nil {
		if !errors.Is(err, ledger.ErrAchievementNotFound) {
			h.logger.Error("failed to delete achievement", zap.Error(err))
		}
		http.Redirect(w, r, fmt.Sprintf("/users/view/%s?msg=error", participantID), http.StatusFound)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/view/%s", participantID), http.StatusFound)
}

// HandleCreateDefinition adds a milestone definition.
func (h *MilestoneHandler) HandleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	if title == "" {
		http.Redirect(w, r, "/milestones?msg=missing", http.StatusFound)
		return
	}
	if _, err := h.ledger.CreateDefinition(title); err != nil {
		h.logger.Error("failed to create milestone", zap.Error(err))
		http.Redirect(w, r, "/milestones?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/milestones", http.StatusFound)
}

// HandleEditDefinition renames a milestone definition.
func (h *MilestoneHandler) HandleEditDefinition(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/milestones?msg=error", http.StatusFound)
		return
	}
	if err := h.ledger.UpdateDefinition(milestoneID, r.FormValue("title")); err != nil {
		if !errors.Is(err, ledger.ErrMilestoneNotFound) {
			h.logger.Error("failed to update milestone", zap.Error(err))
		}
		http.Redirect(w, r, "/milestones?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/milestones", http.StatusFound)
}

// HandleDeleteDefinition removes a milestone definition.
func (h *MilestoneHandler) HandleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/milestones?msg=error", http.StatusFound)
		return
	}
	if err := h.ledger.DeleteDefinition(milestoneID); err != nil {
		http.Redirect(w, r, "/milestones?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/milestones", http.StatusFound)
}
