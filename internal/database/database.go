package database

import (
	"log"

	"github.com/ella-rises/membership-api/internal/config"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	// TranslateError turns driver unique-constraint failures into
	// gorm.ErrDuplicatedKey, which the ledgers map to their Conflict errors.
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.Participant{},
		&models.EventTemplate{},
		&models.EventOccurrence{},
		&models.Registration{},
		&models.Milestone{},
		&models.ParticipantMilestone{},
		&models.Donation{},
		&models.ParticipantSurvey{},
		&models.SurveyQuestion{},
		&models.SurveyResponse{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
