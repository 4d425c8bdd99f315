// Package identity holds primary-key allocation and participant resolution.
// Identifiers are assigned by the application, not by the database: every
// insert path computes max(id)+1 over its table first. That computation is
// only safe when it runs in the same transaction as the insert consuming it,
// so every function here takes the transaction handle, never the root DB.
package identity

import (
	"gorm.io/gorm"
)

// NextID returns the next identifier for the given model's table:
// max(id)+1, or 1 when the table is empty. Gaps elsewhere in the sequence
// do not matter; only the current maximum does.
func NextID(tx *gorm.DB, model interface{}) (uint, error) {
	var maxID int64
	if err := tx.Model(model).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	return uint(maxID) + 1, nil
}

// NextSequenceNo returns the next per-participant sequence number for the
// given model's table: max(sequence_no)+1 scoped to the participant. Using
// the maximum rather than the row count means deleting earlier records never
// frees a number for reuse.
func NextSequenceNo(tx *gorm.DB, model interface{}, participantID uint) (int, error) {
	var maxNo int64
	err := tx.Model(model).
		Where("participant_id = ?", participantID).
		Select("COALESCE(MAX(sequence_no), 0)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}
	return int(maxNo) + 1, nil
}
