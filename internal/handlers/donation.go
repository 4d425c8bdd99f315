package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ella-rises/membership-api/internal/ledger"
	"github.com/ella-rises/membership-api/internal/models"
	"github.com/ella-rises/membership-api/internal/notifier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DonationHandler struct {
	db       *gorm.DB
	ledger   *ledger.DonationLedger
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewDonationHandler(db *gorm.DB, l *ledger.DonationLedger, n notifier.Notifier, logger *zap.Logger) *DonationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationHandler{db: db, ledger: l, notifier: n, logger: logger}
}

// HandleDonate processes the public donation form. Donors are matched to an
// existing participant by email or get a fresh donor-role identity.
func (h *DonationHandler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if email == "" || err != nil || amount <= 0 {
		http.Redirect(w, r, "/donate?msg=missing", http.StatusFound)
		return
	}

	donation, err := h.ledger.Record(email, r.FormValue("firstName"), r.FormValue("lastName"), amount, time.Now())
	if err != nil {
		h.logger.Error("failed to record donation", zap.Error(err))
		http.Redirect(w, r, "/donate?msg=error", http.StatusFound)
		return
	}

	h.announce(donation)
	http.Redirect(w, r, "/?msg=thanks", http.StatusFound)
}

// HandleAdminAdd records a donation against a chosen participant.
func (h *DonationHandler) HandleAdminAdd(w http.ResponseWriter, r *http.Request) {
	participantID, errP := strconv.ParseUint(r.FormValue("participantId"), 10, 32)
	amount, errA := strconv.ParseFloat(r.FormValue("amount"), 64)
	if errP != nil || errA != nil {
		http.Redirect(w, r, "/admin/donations?msg=missing", http.StatusFound)
		return
	}

	date := time.Now()
	if parsed, err := time.Parse("2006-01-02", r.FormValue("date")); err == nil {
		date = parsed
	}

	donation, err := h.ledger.RecordForParticipant(uint(participantID), amount, date)
	if err != nil {
		if errors.Is(err, ledger.ErrParticipantNotFound) {
			http.Redirect(w, r, "/admin/donations?msg=notfound", http.StatusFound)
			return
		}
		h.logger.Error("failed to add donation", zap.Error(err))
		http.Redirect(w, r, "/admin/donations?msg=error", http.StatusFound)
		return
	}

	h.announce(donation)
	http.Redirect(w, r, "/admin/donations", http.StatusFound)
}

// HandleAdminEdit updates a donation's amount and date.
func (h *DonationHandler) HandleAdminEdit(w http.ResponseWriter, r *http.Request) {
	donationID, errID := urlParamID(r, "id")
	amount, errA := strconv.ParseFloat(r.FormValue("amount"), 64)
	date, errD := time.Parse("2006-01-02", r.FormValue("date"))
	if errID != nil || errA != nil || errD != nil {
		http.Redirect(w, r, "/admin/donations?msg=missing", http.StatusFound)
		return
	}

	if err := h.ledger.Update(donationID, amount, date); err != nil {
		if !errors.Is(err, ledger.ErrDonationNotFound) {
			h.logger.Error("failed to update donation", zap.Error(err))
		}
		http.Redirect(w, r, "/admin/donations?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/admin/donations", http.StatusFound)
}

// HandleAdminDelete removes a donation.
func (h *DonationHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	donationID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/admin/donations?msg=error", http.StatusFound)
		return
	}

	if err := h.ledger.Delete(donationID); err != nil {
		if !errors.Is(err, ledger.ErrDonationNotFound) {
			h.logger.Error("failed to delete donation", zap.Error(err))
		}
		http.Redirect(w, r, "/admin/donations?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/admin/donations", http.StatusFound)
}

// announce sends a best-effort staff notification for a new donation.
func (h *DonationHandler) announce(donation *models.Donation) {
	if h.notifier == nil {
		return
	}
	var participant models.Participant
	if err := h.db.First(&participant, donation.ParticipantID).Error; err != nil {
		return
	}
	if err := h.notifier.NotifyDonation(participant, *donation); err != nil {
		h.logger.Warn("failed to send donation notification", zap.Error(err))
	}
}
