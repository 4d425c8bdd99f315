package identity

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
	db.AutoMigrate(&models.Participant{}, &models.ParticipantMilestone{}, &models.Milestone{})
	return db
}

func TestNextID(t *testing.T) {
	db := setupTestDB(t)

	t.Run("EmptyCollection", func(t *testing.T) {
		id, err := NextID(db, &models.Participant{})
		if err != nil {
			t.Fatalf("NextID returned error: %v", err)
		}
		if id != 1 {
			t.Errorf("expected 1 on empty collection, got %d", id)
		}
	})

	t.Run("MaxPlusOneWithGaps", func(t *testing.T) {
		// Gaps below the maximum must not matter.
		db.Create(&models.Participant{ID: 2, Email: "a@example.org", Role: models.RoleParticipant})
		db.Create(&models.Participant{ID: 7, Email: "b@example.org", Role: models.RoleParticipant})

		id, err := NextID(db, &models.Participant{})
		if err != nil {
			t.Fatalf("NextID returned error: %v", err)
		}
		if id != 8 {
			t.Errorf("expected 8, got %d", id)
		}
	})
}

func TestNextSequenceNo(t *testing.T) {
	db := setupTestDB(t)

	t.Run("StartsAtOne", func(t *testing.T) {
		no, err := NextSequenceNo(db, &models.ParticipantMilestone{}, 1)
		if err != nil {
			t.Fatalf("NextSequenceNo returned error: %v", err)
		}
		if no != 1 {
			t.Errorf("expected 1, got %d", no)
		}
	})

	t.Run("ScopedPerParticipant", func(t *testing.T) {
		db.Create(&models.ParticipantMilestone{ID: 1, ParticipantID: 1, MilestoneID: 1, SequenceNo: 3})
		db.Create(&models.ParticipantMilestone{ID: 2, ParticipantID: 2, MilestoneID: 1, SequenceNo: 1})

		no, err := NextSequenceNo(db, &models.ParticipantMilestone{}, 1)
		if err != nil {
			t.Fatalf("NextSequenceNo returned error: %v", err)
		}
		if no != 4 {
			t.Errorf("expected 4 for participant 1, got %d", no)
		}

		no, err = NextSequenceNo(db, &models.ParticipantMilestone{}, 2)
		if err != nil {
			t.Fatalf("NextSequenceNo returned error: %v", err)
		}
		if no != 2 {
			t.Errorf("expected 2 for participant 2, got %d", no)
		}
	})

	t.Run("EarlierDeletionDoesNotFreeNumbers", func(t *testing.T) {
		db.Create(&models.ParticipantMilestone{ID: 3, ParticipantID: 5, MilestoneID: 1, SequenceNo: 1})
		db.Create(&models.ParticipantMilestone{ID: 4, ParticipantID: 5, MilestoneID: 1, SequenceNo: 2})
		db.Delete(&models.ParticipantMilestone{}, 3)

		no, err := NextSequenceNo(db, &models.ParticipantMilestone{}, 5)
		if err != nil {
			t.Fatalf("NextSequenceNo returned error: %v", err)
		}
		if no != 3 {
			t.Errorf("expected 3 after deleting an earlier record, got %d", no)
		}
	})
}
