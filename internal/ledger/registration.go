package ledger

import (
	"errors"
	"time"

	"github.com/ella-rises/membership-api/internal/identity"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// RegistrationLedger enforces at most one registration per
// (participant, occurrence) pair.
type RegistrationLedger struct {
	db *gorm.DB
}

func NewRegistrationLedger(db *gorm.DB) *RegistrationLedger {
	return &RegistrationLedger{db: db}
}

// RegisterByOccurrence registers a participant for a concrete occurrence.
// Returns ErrOccurrenceNotFound, ErrParticipantNotFound or
// ErrAlreadyRegistered as appropriate.
func (l *RegistrationLedger) RegisterByOccurrence(participantID, occurrenceID uint) (*models.Registration, error) {
	var registration models.Registration
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.First(&participant, participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		var occurrence models.EventOccurrence
		if err := tx.First(&occurrence, occurrenceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOccurrenceNotFound
			}
			return err
		}

		created, err := l.create(tx, participantID, occurrenceID)
		if err != nil {
			return err
		}
		registration = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// RegisterByTemplate resolves the participant by email (never auto-creates,
// unlike the donation path) and registers them for the template's most
// recently starting occurrence. Equal start times break toward the lowest
// occurrence identifier.
func (l *RegistrationLedger) RegisterByTemplate(email string, templateID uint) (*models.Registration, error) {
	var registration models.Registration
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.Where("email = ?", email).First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		var template models.EventTemplate
		if err := tx.First(&template, templateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}

		var occurrence models.EventOccurrence
		err := tx.Where("event_template_id = ?", templateID).
			Order("starts_at DESC, id ASC").
			First(&occurrence).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOccurrenceAvailable
			}
			return err
		}

		created, err := l.create(tx, participant.ID, occurrence.ID)
		if err != nil {
			return err
		}
		registration = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

// create is the shared check-then-insert step. It must run inside the
// caller's transaction.
func (l *RegistrationLedger) create(tx *gorm.DB, participantID, occurrenceID uint) (*models.Registration, error) {
	var existing models.Registration
	err := tx.Where("participant_id = ? AND event_occurrence_id = ?", participantID, occurrenceID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	id, err := identity.NextID(tx, &models.Registration{})
	if err != nil {
		return nil, err
	}

	registration := models.Registration{
		ID:                id,
		ParticipantID:     participantID,
		EventOccurrenceID: occurrenceID,
		CreatedAt:         time.Now(),
		Status:            models.StatusRegistered,
	}
	if err := tx.Create(&registration).Error; err != nil {
		// The unique index backstops the existence check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return &registration, nil
}

// Deregister removes a registration by identifier, unconditionally.
func (l *RegistrationLedger) Deregister(registrationID uint) error {
	result := l.db.Delete(&models.Registration{}, registrationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// DeregisterOwned removes a registration only when the supplied participant
// identifier matches, so a caller cannot delete another account's
// registration by guessing identifiers.
func (l *RegistrationLedger) DeregisterOwned(registrationID, participantID uint) error {
	result := l.db.
		Where("id = ? AND participant_id = ?", registrationID, participantID).
		Delete(&models.Registration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

// Upcoming lists a participant's registrations whose occurrence starts at or
// after now, soonest first.
func (l *RegistrationLedger) Upcoming(participantID uint, now time.Time) ([]models.Registration, error) {
	var registrations []models.Registration
	err := l.db.
		Joins("EventOccurrence").
		Preload("EventOccurrence.EventTemplate").
		Where("registrations.participant_id = ? AND \"EventOccurrence\".starts_at >= ?", participantID, now).
		Order("\"EventOccurrence\".starts_at ASC").
		Find(&registrations).Error
	return registrations, err
}

// Past lists a participant's registrations whose occurrence started before
// now, most recent first.
func (l *RegistrationLedger) Past(participantID uint, now time.Time) ([]models.Registration, error) {
	var registrations []models.Registration
	err := l.db.
		Joins("EventOccurrence").
		Preload("EventOccurrence.EventTemplate").
		Where("registrations.participant_id = ? AND \"EventOccurrence\".starts_at < ?", participantID, now).
		Order("\"EventOccurrence\".starts_at DESC").
		Find(&registrations).Error
	return registrations, err
}
