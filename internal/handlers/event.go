package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ella-rises/membership-api/internal/identity"
	"github.com/ella-rises/membership-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EventHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEventHandler(db *gorm.DB, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{db: db, logger: logger}
}

// HandleAddTemplate creates an event template with an explicitly allocated
// identifier.
func (h *EventHandler) HandleAddTemplate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("eventName")
	if name == "" {
		http.Redirect(w, r, "/events?msg=missing", http.StatusFound)
		return
	}
	capacity, _ := strconv.Atoi(r.FormValue("eventCapacity"))

	err := h.db.Transaction(func(tx *gorm.DB) error {
		id, err := identity.NextID(tx, &models.EventTemplate{})
		if err != nil {
			return err
		}
		template := models.EventTemplate{
			ID:                id,
			Name:              name,
			Type:              r.FormValue("eventType"),
			RecurrencePattern: r.FormValue("eventRecurrence"),
			Description:       r.FormValue("eventDescription"),
			DefaultCapacity:   capacity,
		}
		return tx.Create(&template).Error
	})
	if err != nil {
		h.logger.Error("failed to add event", zap.Error(err))
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/events", http.StatusFound)
}

// HandleEditTemplate updates a template's fields.
func (h *EventHandler) HandleEditTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	capacity, _ := strconv.Atoi(r.FormValue("eventCapacity"))

	result := h.db.Model(&models.EventTemplate{}).
		Where("id = ?", templateID).
		Updates(map[string]interface{}{
			"name":               r.FormValue("eventName"),
			"type":               r.FormValue("eventType"),
			"recurrence_pattern": r.FormValue("eventRecurrence"),
			"description":        r.FormValue("eventDescription"),
			"default_capacity":   capacity,
		})
	if result.Error != nil || result.RowsAffected == 0 {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/events", http.StatusFound)
}

// HandleDeleteTemplate removes a template. Templates with scheduled
// occurrences cannot be removed.
func (h *EventHandler) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := urlParamID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.EventOccurrence{}).
			Where("event_template_id = ?", templateID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("template has scheduled occurrences")
		}
		return tx.Delete(&models.EventTemplate{}, templateID).Error
	})
	if err != nil {
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/events", http.StatusFound)
}

// HandleAddOccurrence schedules a concrete occurrence of a template.
func (h *EventHandler) HandleAddOccurrence(w http.ResponseWriter, r *http.Request) {
	templateID, errT := strconv.ParseUint(r.FormValue("eventTemplateId"), 10, 32)
	startsAt, errS := time.Parse("2006-01-02T15:04", r.FormValue("eventDateTimeStart"))
	endsAt, errE := time.Parse("2006-01-02T15:04", r.FormValue("eventDateTimeEnd"))
	if errT != nil || errS != nil || errE != nil {
		http.Redirect(w, r, "/events?msg=missing", http.StatusFound)
		return
	}
	capacity, _ := strconv.Atoi(r.FormValue("eventCapacity"))

	var deadline *time.Time
	if parsed, err := time.Parse("2006-01-02T15:04", r.FormValue("eventRegistrationDeadline")); err == nil {
		deadline = &parsed
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var template models.EventTemplate
		if err := tx.First(&template, uint(templateID)).Error; err != nil {
			return err
		}

		id, err := identity.NextID(tx, &models.EventOccurrence{})
		if err != nil {
			return err
		}
		occurrence := models.EventOccurrence{
			ID:                   id,
			EventTemplateID:      uint(templateID),
			StartsAt:             startsAt,
			EndsAt:               endsAt,
			Location:             r.FormValue("eventLocation"),
			Capacity:             capacity,
			RegistrationDeadline: deadline,
		}
		return tx.Create(&occurrence).Error
	})
	if err != nil {
		h.logger.Error("failed to add occurrence", zap.Error(err))
		http.Redirect(w, r, "/events?msg=error", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/events?msg=added", http.StatusFound)
}
