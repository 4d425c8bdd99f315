package identity

import (
	"errors"

	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// ResolveOrCreate finds a participant by exact email match or creates one
// with role donor and no credential. On the found path the stored name
// fields win; supplied names are ignored. Idempotent per email: repeated
// calls return the same identifier and create at most one row.
func ResolveOrCreate(tx *gorm.DB, email, firstName, lastName string) (uint, error) {
	var participant models.Participant
	err := tx.Where("email = ?", email).First(&participant).Error
	if err == nil {
		return participant.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	id, err := NextID(tx, &models.Participant{})
	if err != nil {
		return 0, err
	}

	participant = models.Participant{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleDonor,
	}
	if err := tx.Create(&participant).Error; err != nil {
		return 0, err
	}
	return participant.ID, nil
}
