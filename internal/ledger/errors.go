// Package ledger implements the registration, milestone and donation
// ledgers. Every check-then-act sequence runs inside a single gorm
// transaction, so the outcomes below are the only observable results.
package ledger

import (
	"errors"
)

var (
	ErrAlreadyRegistered     = errors.New("participant already registered for this occurrence")
	ErrOccurrenceNotFound    = errors.New("event occurrence not found")
	ErrTemplateNotFound      = errors.New("event template not found")
	ErrNoOccurrenceAvailable = errors.New("template has no scheduled occurrences")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrAchievementNotFound   = errors.New("milestone achievement not found")
	ErrMilestoneNotFound     = errors.New("milestone not found")
	ErrDonationNotFound      = errors.New("donation not found")
)
