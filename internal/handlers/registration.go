package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/ledger"
	"github.com/ella-rises/membership-api/internal/models"
	"github.com/ella-rises/membership-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db       *gorm.DB
	ledger   *ledger.RegistrationLedger
	notifier notifier.Notifier
	logger   *zap.Logger
}

func NewRegistrationHandler(db *gorm.DB, l *ledger.RegistrationLedger, n notifier.Notifier, logger *zap.Logger) *RegistrationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationHandler{db: db, ledger: l, notifier: n, logger: logger}
}

func urlParamID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	return uint(id), err
}

// HandleRegisterByTemplate registers the logged-in participant for the most
// recent occurrence of a template. Outcomes land on /events as a coded
// status parameter.
func (h *RegistrationHandler) HandleRegisterByTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := urlParamID(r, "templateId")
	if err != nil {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	identity := auth.IdentityFrom(r.Context())

	registration, err := h.ledger.RegisterByTemplate(identity.Email, templateID)
	switch {
	case err == nil:
		h.announce(registration)
		http.Redirect(w, r, "/events?msg=registered", http.StatusFound)
	case errors.Is(err, ledger.ErrParticipantNotFound), errors.Is(err, ledger.ErrTemplateNotFound):
		http.Redirect(w, r, "/events?msg=notfound", http.StatusFound)
	case errors.Is(err, ledger.ErrNoOccurrenceAvailable):
		http.Redirect(w, r, "/events?msg=nodate", http.StatusFound)
	case errors.Is(err, ledger.ErrAlreadyRegistered):
		http.Redirect(w, r, "/events?msg=already", http.StatusFound)
	default:
		h.logger.Error("registration failed", zap.Error(err))
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
	}
}

// HandleRegisterByOccurrence registers the logged-in participant for a
// concrete occurrence.
func (h *RegistrationHandler) HandleRegisterByOccurrence(w http.ResponseWriter, r *http.Request) {
	occurrenceID, err := urlParamID(r, "occurrenceId")
	if err != nil {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	identity := auth.IdentityFrom(r.Context())

	registration, err := h.ledger.RegisterByOccurrence(identity.ParticipantID, occurrenceID)
	switch {
	case err == nil:
		h.announce(registration)
		http.Redirect(w, r, "/events?msg=registered", http.StatusFound)
	case errors.Is(err, ledger.ErrOccurrenceNotFound), errors.Is(err, ledger.ErrParticipantNotFound):
		http.Redirect(w, r, "/events?msg=notfound", http.StatusFound)
	case errors.Is(err, ledger.ErrAlreadyRegistered):
		http.Redirect(w, r, "/events?msg=already", http.StatusFound)
	default:
		h.logger.Error("registration failed", zap.Error(err))
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
	}
}

// HandleAdminRegister registers a chosen participant for a chosen occurrence
// on behalf of staff. Both selections are required.
func (h *RegistrationHandler) HandleAdminRegister(w http.ResponseWriter, r *http.Request) {
	participantID, errP := strconv.ParseUint(r.FormValue("participantId"), 10, 32)
	occurrenceID, errO := strconv.ParseUint(r.FormValue("eventOccurrenceId"), 10, 32)
	if errP != nil || errO != nil {
		http.Redirect(w, r, "/admin/register-event?msg=missing", http.StatusFound)
		return
	}

	registration, err := h.ledger.RegisterByOccurrence(uint(participantID), uint(occurrenceID))
	switch {
	case err == nil:
		h.announce(registration)
		http.Redirect(w, r, "/participants?msg=registered", http.StatusFound)
	case errors.Is(err, ledger.ErrAlreadyRegistered):
		http.Redirect(w, r, "/admin/register-event?msg=already", http.StatusFound)
	case errors.Is(err, ledger.ErrOccurrenceNotFound), errors.Is(err, ledger.ErrParticipantNotFound):
		http.Redirect(w, r, "/admin/register-event?msg=notfound", http.StatusFound)
	default:
		h.logger.Error("admin registration failed", zap.Error(err))
		http.Redirect(w, r, "/admin/register-event?msg=error", http.StatusFound)
	}
}

// HandleDeregisterSelf removes one of the logged-in participant's own
// registrations.
func (h *RegistrationHandler) HandleDeregisterSelf(w http.ResponseWriter, r *http.Request) {
	registrationID, err := urlParamID(r, "registrationId")
	if err != nil {
		http.Redirect(w, r, "/profile?msg=error", http.StatusFound)
		return
	}
	identity := auth.IdentityFrom(r.Context())

	if err := h.ledger.DeregisterOwned(registrationID, identity.ParticipantID); err != nil {
		if !errors.Is(err, ledger.ErrRegistrationNotFound) {
			h.logger.Error("deregister failed", zap.Error(err))
		}
		http.Redirect(w, r, "/profile?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/profile?msg=deregistered", http.StatusFound)
}

// HandleDeregisterAdmin removes a registration on behalf of staff. The
// submitted participant identifier must match the registration's owner.
func (h *RegistrationHandler) HandleDeregisterAdmin(w http.ResponseWriter, r *http.Request) {
	registrationID, err := urlParamID(r, "registrationId")
	if err != nil {
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}
	participantID, err := strconv.ParseUint(r.FormValue("participantId"), 10, 32)
	if err != nil {
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}

	if err := h.ledger.DeregisterOwned(registrationID, uint(participantID)); err != nil {
		if !errors.Is(err, ledger.ErrRegistrationNotFound) {
			h.logger.Error("admin deregister failed", zap.Error(err))
		}
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/users?msg=deregistered", http.StatusFound)
}

// announce sends a best-effort staff notification for a new registration.
func (h *RegistrationHandler) announce(registration *models.Registration) {
	if h.notifier == nil {
		return
	}
	var participant models.Participant
	if err := h.db.First(&participant, registration.ParticipantID).Error; err != nil {
		return
	}
	var occurrence models.EventOccurrence
	if err := h.db.Preload("EventTemplate").First(&occurrence, registration.EventOccurrenceID).Error; err != nil {
		return
	}
	if err := h.notifier.NotifyRegistration(participant, occurrence.EventTemplate.Name, *registration); err != nil {
		h.logger.Warn("failed to send registration notification", zap.Error(err))
	}
}
