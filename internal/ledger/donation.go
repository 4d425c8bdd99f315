package ledger

import (
	"errors"
	"time"

	"github.com/ella-rises/membership-api/internal/identity"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// DonationLedger appends donations against resolved participant identities.
type DonationLedger struct {
	db *gorm.DB
}

func NewDonationLedger(db *gorm.DB) *DonationLedger {
	return &DonationLedger{db: db}
}

// Record handles the public donation path: the donor's email is resolved to
// an existing participant or a new donor-role identity, then the donation is
// appended. Repeated donations from one email always land on one identity.
func (l *DonationLedger) Record(email, firstName, lastName string, amount float64, date time.Time) (*models.Donation, error) {
	var donation models.Donation
	err := l.db.Transaction(func(tx *gorm.DB) error {
		participantID, err := identity.ResolveOrCreate(tx, email, firstName, lastName)
		if err != nil {
			return err
		}
		created, err := l.append(tx, participantID, amount, date)
		if err != nil {
			return err
		}
		donation = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// RecordForParticipant handles the admin path, where the participant is
// chosen directly.
func (l *DonationLedger) RecordForParticipant(participantID uint, amount float64, date time.Time) (*models.Donation, error) {
	var donation models.Donation
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.First(&participant, participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		created, err := l.append(tx, participantID, amount, date)
		if err != nil {
			return err
		}
		donation = *created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (l *DonationLedger) append(tx *gorm.DB, participantID uint, amount float64, date time.Time) (*models.Donation, error) {
	id, err := identity.NextID(tx, &models.Donation{})
	if err != nil {
		return nil, err
	}
	sequenceNo, err := identity.NextSequenceNo(tx, &models.Donation{}, participantID)
	if err != nil {
		return nil, err
	}

	donation := models.Donation{
		ID:            id,
		ParticipantID: participantID,
		Amount:        amount,
		Date:          date,
		SequenceNo:    sequenceNo,
	}
	if err := tx.Create(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// Update changes a donation's amount and date.
func (l *DonationLedger) Update(donationID uint, amount float64, date time.Time) error {
	result := l.db.Model(&models.Donation{}).
		Where("id = ?", donationID).
		Updates(map[string]interface{}{"amount": amount, "date": date})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// Delete removes a donation by identifier.
func (l *DonationLedger) Delete(donationID uint) error {
	result := l.db.Delete(&models.Donation{}, donationID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// List returns all donations with their participants, newest first.
func (l *DonationLedger) List() ([]models.Donation, error) {
	var donations []models.Donation
	err := l.db.Preload("Participant").Order("date DESC").Find(&donations).Error
	return donations, err
}

// ListFor returns one participant's donations, newest first.
func (l *DonationLedger) ListFor(participantID uint) ([]models.Donation, error) {
	var donations []models.Donation
	err := l.db.Where("participant_id = ?", participantID).
		Order("date DESC").
		Find(&donations).Error
	return donations, err
}

// TotalForParticipant sums a participant's donation amounts on read.
func (l *DonationLedger) TotalForParticipant(participantID uint) (float64, error) {
	var total float64
	err := l.db.Model(&models.Donation{}).
		Where("participant_id = ?", participantID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// GrandTotal sums every donation amount on read.
func (l *DonationLedger) GrandTotal() (float64, error) {
	var total float64
	err := l.db.Model(&models.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
