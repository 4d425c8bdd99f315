package ledger

import (
	"errors"
	"time"

	"github.com/ella-rises/membership-api/internal/identity"
	"github.com/ella-rises/membership-api/internal/models"
	"gorm.io/gorm"
)

// MilestoneLedger manages milestone definitions and the per-participant
// achievement records built on them.
type MilestoneLedger struct {
	db *gorm.DB
}

func NewMilestoneLedger(db *gorm.DB) *MilestoneLedger {
	return &MilestoneLedger{db: db}
}

// AddAchievement records that a participant achieved a milestone on a date.
// The record's sequence number is the participant's highest existing number
// plus one, computed in the insert transaction. Recording the same milestone
// twice for one participant is allowed.
func (l *MilestoneLedger) AddAchievement(participantID, milestoneID uint, achievedOn time.Time) (*models.ParticipantMilestone, error) {
	var record models.ParticipantMilestone
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var participant models.Participant
		if err := tx.First(&participant, participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		var milestone models.Milestone
		if err := tx.First(&milestone, milestoneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMilestoneNotFound
			}
			return err
		}

		sequenceNo, err := identity.NextSequenceNo(tx, &models.ParticipantMilestone{}, participantID)
		if err != nil {
			return err
		}
		id, err := identity.NextID(tx, &models.ParticipantMilestone{})
		if err != nil {
			return err
		}

		record = models.ParticipantMilestone{
			ID:            id,
			ParticipantID: participantID,
			MilestoneID:   milestoneID,
			AchievedOn:    achievedOn,
			SequenceNo:    sequenceNo,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// EditAchievement updates an achievement record's milestone and date. The
// sequence number is fixed at insert time and never rewritten. Elevated
// callers only.
func (l *MilestoneLedger) EditAchievement(recordID, milestoneID uint, achievedOn time.Time) error {
	result := l.db.Model(&models.ParticipantMilestone{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"milestone_id": milestoneID,
			"achieved_on":  achievedOn,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

// DeleteAchievement removes an achievement record. Elevated callers only.
func (l *MilestoneLedger) DeleteAchievement(recordID uint) error {
	result := l.db.Delete(&models.ParticipantMilestone{}, recordID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

// AchievementsFor lists a participant's achievements, most recent first.
func (l *MilestoneLedger) AchievementsFor(participantID uint) ([]models.ParticipantMilestone, error) {
	var records []models.ParticipantMilestone
	err := l.db.Preload("Milestone").
		Where("participant_id = ?", participantID).
		Order("achieved_on DESC").
		Find(&records).Error
	return records, err
}

// CreateDefinition adds a milestone definition.
func (l *MilestoneLedger) CreateDefinition(title string) (*models.Milestone, error) {
	var milestone models.Milestone
	err := l.db.Transaction(func(tx *gorm.DB) error {
		id, err := identity.NextID(tx, &models.Milestone{})
		if err != nil {
			return err
		}
		milestone = models.Milestone{ID: id, Title: title}
		return tx.Create(&milestone).Error
	})
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

// UpdateDefinition renames a milestone definition.
func (l *MilestoneLedger) UpdateDefinition(milestoneID uint, title string) error {
	result := l.db.Model(&models.Milestone{}).
		Where("id = ?", milestoneID).
		Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

// DeleteDefinition removes a milestone definition. Fails if achievement
// records still reference it.
func (l *MilestoneLedger) DeleteDefinition(milestoneID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.ParticipantMilestone{}).
			Where("milestone_id = ?", milestoneID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.New("milestone is assigned to participants")
		}

		result := tx.Delete(&models.Milestone{}, milestoneID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMilestoneNotFound
		}
		return nil
	})
}

// ListDefinitions returns all milestone definitions ordered by identifier.
func (l *MilestoneLedger) ListDefinitions() ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := l.db.Order("id").Find(&milestones).Error
	return milestones, err
}
