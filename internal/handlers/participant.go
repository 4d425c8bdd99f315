package handlers

import (
	"errors"
	"net/http"

	"github.com/ella-rises/membership-api/internal/auth"
	"github.com/ella-rises/membership-api/internal/identity"
	"github.com/ella-rises/membership-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ParticipantHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewParticipantHandler(db *gorm.DB, logger *zap.Logger) *ParticipantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantHandler{db: db, logger: logger}
}

// createParticipant allocates an identifier and inserts, all in one
// transaction. Email uniqueness is enforced here; the unique index is the
// backstop.
func (h *ParticipantHandler) createParticipant(participant models.Participant) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Participant
		err := tx.Where("email = ?", participant.Email).First(&existing).Error
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id, err := identity.NextID(tx, &models.Participant{})
		if err != nil {
			return err
		}
		participant.ID = id
		return tx.Create(&participant).Error
	})
}

// HandleSignup creates a self-service participant account.
func (h *ParticipantHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		http.Redirect(w, r, "/createUser?msg=missing", http.StatusFound)
		return
	}

	participant := models.Participant{
		Email:     email,
		Password:  password,
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Role:      models.RoleParticipant,
	}
	if err := h.createParticipant(participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Redirect(w, r, "/createUser?msg=exists", http.StatusFound)
			return
		}
		h.logger.Error("failed to create account", zap.Error(err))
		http.Redirect(w, r, "/createUser?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login?msg=created", http.StatusFound)
}

// HandleAdminAdd creates a participant with a staff-chosen role and
// contact fields.
func (h *ParticipantHandler) HandleAdminAdd(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	if email == "" {
		http.Redirect(w, r, "/users?msg=missing", http.StatusFound)
		return
	}

	role := models.Role(r.FormValue("role"))
	if !role.Valid() {
		role = models.RoleParticipant
	}

	participant := models.Participant{
		Email:     email,
		Password:  r.FormValue("password"),
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Role:      role,
		Phone:     r.FormValue("phone"),
		City:      r.FormValue("city"),
		State:     r.FormValue("state"),
		Zip:       r.FormValue("zip"),
	}
	if err := h.createParticipant(participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Redirect(w, r, "/users?msg=exists", http.StatusFound)
			return
		}
		h.logger.Error("failed to add participant", zap.Error(err))
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// HandleAdminDelete removes a participant record. Fails when owned records
// still reference it.
func (h *ParticipantHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	participantID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, owned := range []interface{}{
			&models.Registration{},
			&models.ParticipantMilestone{},
			&models.Donation{},
		} {
			var count int64
			if err := tx.Model(owned).Where("participant_id = ?", participantID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errors.New("participant has related records")
			}
		}
		return tx.Delete(&models.Participant{}, participantID).Error
	})
	if err != nil {
		http.Redirect(w, r, "/users?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// HandleProfileEdit updates the logged-in participant's own contact fields.
// The credential changes only when a new one is submitted.
func (h *ParticipantHandler) HandleProfileEdit(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())

	updates := map[string]interface{}{
		"first_name": r.FormValue("firstName"),
		"last_name":  r.FormValue("lastName"),
		"phone":      r.FormValue("phone"),
		"city":       r.FormValue("city"),
		"state":      r.FormValue("state"),
		"zip":        r.FormValue("zip"),
	}
	if password := r.FormValue("password"); password != "" {
		updates["password"] = password
	}

	err := h.db.Model(&models.Participant{}).
		Where("email = ?", identity.Email).
		Updates(updates).Error
	if err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		http.Redirect(w, r, "/profile?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}
