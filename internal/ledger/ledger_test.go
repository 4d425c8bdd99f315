package ledger

import (
	"testing"

	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Participant{},
		&models.EventTemplate{},
		&models.EventOccurrence{},
		&models.Registration{},
		&models.Milestone{},
		&models.ParticipantMilestone{},
		&models.Donation{},
	)
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func createParticipant(t *testing.T, db *gorm.DB, id uint, email string) models.Participant {
	t.Helper()
	participant := models.Participant{
		ID:    id,
		Email: email,
		Role:  models.RoleParticipant,
	}
	if err := db.Create(&participant).Error; err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}
	return participant
}
