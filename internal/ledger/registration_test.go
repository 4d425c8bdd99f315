package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/ella-rises/membership-api/internal/models"
)

func TestRegisterByOccurrence(t *testing.T) {
	db := setupTestDB(t)
	l := NewRegistrationLedger(db)

	participant := createParticipant(t, db, 1, "p@example.org")
	template := models.EventTemplate{ID: 1, Name: "Monthly Workshop"}
	db.Create(&template)
	occurrence := models.EventOccurrence{ID: 1, EventTemplateID: 1, StartsAt: time.Now().Add(24 * time.Hour)}
	db.Create(&occurrence)

	t.Run("FirstAttemptSucceeds", func(t *testing.T) {
		registration, err := l.RegisterByOccurrence(participant.ID, occurrence.ID)
		if err != nil {
			t.Fatalf("RegisterByOccurrence returned error: %v", err)
		}
		if registration.Status != models.StatusRegistered {
			t.Errorf("expected status %q, got %q", models.StatusRegistered, registration.Status)
		}
		if registration.ID != 1 {
			t.Errorf("expected allocated identifier 1, got %d", registration.ID)
		}
	})

	t.Run("SecondAttemptConflicts", func(t *testing.T) {
		_, err := l.RegisterByOccurrence(participant.ID, occurrence.ID)
		if !errors.Is(err, ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}

		var count int64
		db.Model(&models.Registration{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 registration row, got %d", count)
		}
	})

	t.Run("DeregisterThenReregister", func(t *testing.T) {
		var registration models.Registration
		db.First(&registration)

		if err := l.Deregister(registration.ID); err != nil {
			t.Fatalf("Deregister returned error: %v", err)
		}
		if _, err := l.RegisterByOccurrence(participant.ID, occurrence.ID); err != nil {
			t.Fatalf("re-registration after deregister failed: %v", err)
		}
	})

	t.Run("UnknownOccurrence", func(t *testing.T) {
		_, err := l.RegisterByOccurrence(participant.ID, 999)
		if !errors.Is(err, ErrOccurrenceNotFound) {
			t.Fatalf("expected ErrOccurrenceNotFound, got %v", err)
		}
	})

	t.Run("UnknownParticipant", func(t *testing.T) {
		_, err := l.RegisterByOccurrence(999, occurrence.ID)
		if !errors.Is(err, ErrParticipantNotFound) {
			t.Fatalf("expected ErrParticipantNotFound, got %v", err)
		}
	})
}

func TestRegisterByTemplate(t *testing.T) {
	db := setupTestDB(t)
	l := NewRegistrationLedger(db)

	createParticipant(t, db, 1, "member@example.org")
	db.Create(&models.EventTemplate{ID: 1, Name: "Monthly Workshop"})
	db.Create(&models.EventTemplate{ID: 2, Name: "Book Club"})

	earlier := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	later := time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)
	db.Create(&models.EventOccurrence{ID: 1, EventTemplateID: 1, StartsAt: earlier})
	db.Create(&models.EventOccurrence{ID: 2, EventTemplateID: 1, StartsAt: later})

	t.Run("PicksMostRecentOccurrence", func(t *testing.T) {
		registration, err := l.RegisterByTemplate("member@example.org", 1)
		if err != nil {
			t.Fatalf("RegisterByTemplate returned error: %v", err)
		}
		if registration.EventOccurrenceID != 2 {
			t.Errorf("expected occurrence 2 (latest start), got %d", registration.EventOccurrenceID)
		}
	})

	t.Run("EqualStartsBreakTowardLowestID", func(t *testing.T) {
		shared := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
		db.Create(&models.EventOccurrence{ID: 4, EventTemplateID: 2, StartsAt: shared})
		db.Create(&models.EventOccurrence{ID: 3, EventTemplateID: 2, StartsAt: shared})

		registration, err := l.RegisterByTemplate("member@example.org", 2)
		if err != nil {
			t.Fatalf("RegisterByTemplate returned error: %v", err)
		}
		if registration.EventOccurrenceID != 3 {
			t.Errorf("expected occurrence 3 (lowest id wins the tie), got %d", registration.EventOccurrenceID)
		}
	})

	t.Run("UnknownEmailNeverAutoCreates", func(t *testing.T) {
		_, err := l.RegisterByTemplate("stranger@example.org", 1)
		if !errors.Is(err, ErrParticipantNotFound) {
			t.Fatalf("expected ErrParticipantNotFound, got %v", err)
		}

		var count int64
		db.Model(&models.Participant{}).Count(&count)
		if count != 1 {
			t.Errorf("expected no participant to be created, got %d rows", count)
		}
	})

	t.Run("UnknownTemplate", func(t *testing.T) {
		_, err := l.RegisterByTemplate("member@example.org", 999)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("TemplateWithoutOccurrences", func(t *testing.T) {
		db.Create(&models.EventTemplate{ID: 3, Name: "Unscheduled"})
		_, err := l.RegisterByTemplate("member@example.org", 3)
		if !errors.Is(err, ErrNoOccurrenceAvailable) {
			t.Fatalf("expected ErrNoOccurrenceAvailable, got %v", err)
		}
	})

	t.Run("AlreadyRegisteredForLatest", func(t *testing.T) {
		_, err := l.RegisterByTemplate("member@example.org", 1)
		if !errors.Is(err, ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}
	})
}

func TestDeregisterOwned(t *testing.T) {
	db := setupTestDB(t)
	l := NewRegistrationLedger(db)

	owner := createParticipant(t, db, 1, "owner@example.org")
	createParticipant(t, db, 2, "other@example.org")
	db.Create(&models.EventTemplate{ID: 1, Name: "Workshop"})
	db.Create(&models.EventOccurrence{ID: 1, EventTemplateID: 1, StartsAt: time.Now().Add(time.Hour)})

	registration, err := l.RegisterByOccurrence(owner.ID, 1)
	if err != nil {
		t.Fatalf("RegisterByOccurrence returned error: %v", err)
	}

	t.Run("MismatchedParticipantRefused", func(t *testing.T) {
		err := l.DeregisterOwned(registration.ID, 2)
		if !errors.Is(err, ErrRegistrationNotFound) {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}

		var count int64
		db.Model(&models.Registration{}).Count(&count)
		if count != 1 {
			t.Errorf("registration was deleted by a non-owner")
		}
	})

	t.Run("MatchingParticipantSucceeds", func(t *testing.T) {
		if err := l.DeregisterOwned(registration.ID, owner.ID); err != nil {
			t.Fatalf("DeregisterOwned returned error: %v", err)
		}

		var count int64
		db.Model(&models.Registration{}).Count(&count)
		if count != 0 {
			t.Errorf("expected 0 registrations, got %d", count)
		}
	})
}

func TestRegistrationPartitions(t *testing.T) {
	db := setupTestDB(t)
	l := NewRegistrationLedger(db)

	participant := createParticipant(t, db, 1, "p@example.org")
	db.Create(&models.EventTemplate{ID: 1, Name: "Workshop"})

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		now.Add(-48 * time.Hour),
		now.Add(-24 * time.Hour),
		now.Add(24 * time.Hour),
		now.Add(48 * time.Hour),
	}
	for i, start := range starts {
		occurrence := models.EventOccurrence{ID: uint(i + 1), EventTemplateID: 1, StartsAt: start}
		db.Create(&occurrence)
		if _, err := l.RegisterByOccurrence(participant.ID, occurrence.ID); err != nil {
			t.Fatalf("failed to register for occurrence %d: %v", occurrence.ID, err)
		}
	}

	upcoming, err := l.Upcoming(participant.ID, now)
	if err != nil {
		t.Fatalf("Upcoming returned error: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming registrations, got %d", len(upcoming))
	}
	// Ascending by start.
	if !upcoming[0].EventOccurrence.StartsAt.Before(upcoming[1].EventOccurrence.StartsAt) {
		t.Error("upcoming registrations are not in ascending start order")
	}

	past, err := l.Past(participant.ID, now)
	if err != nil {
		t.Fatalf("Past returned error: %v", err)
	}
	if len(past) != 2 {
		t.Fatalf("expected 2 past registrations, got %d", len(past))
	}
	// Descending by start.
	if !past[0].EventOccurrence.StartsAt.After(past[1].EventOccurrence.StartsAt) {
		t.Error("past registrations are not in descending start order")
	}
}
