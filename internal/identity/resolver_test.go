package identity

import (
	"testing"

	"github.com/ella-rises/membership-api/internal/models"
)

func TestResolveOrCreate(t *testing.T) {
	db := setupTestDB(t)

	t.Run("CreatesDonorIdentity", func(t *testing.T) {
		id, err := ResolveOrCreate(db, "new@x.org", "Jane", "Doe")
		if err != nil {
			t.Fatalf("ResolveOrCreate returned error: %v", err)
		}
		if id != 1 {
			t.Errorf("expected identifier 1, got %d", id)
		}

		var participant models.Participant
		if err := db.First(&participant, id).Error; err != nil {
			t.Fatalf("failed to load created participant: %v", err)
		}
		if participant.Role != models.RoleDonor {
			t.Errorf("expected role donor, got %s", participant.Role)
		}
		if participant.Password != "" {
			t.Error("donor identity must not carry a credential")
		}
		if participant.FirstName != "Jane" || participant.LastName != "Doe" {
			t.Errorf("unexpected names: %s %s", participant.FirstName, participant.LastName)
		}
	})

	t.Run("IdempotentPerEmail", func(t *testing.T) {
		first, err := ResolveOrCreate(db, "repeat@x.org", "A", "B")
		if err != nil {
			t.Fatalf("ResolveOrCreate returned error: %v", err)
		}
		second, err := ResolveOrCreate(db, "repeat@x.org", "A", "B")
		if err != nil {
			t.Fatalf("ResolveOrCreate returned error: %v", err)
		}
		if first != second {
			t.Errorf("expected same identifier, got %d and %d", first, second)
		}

		var count int64
		db.Model(&models.Participant{}).Where("email = ?", "repeat@x.org").Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 participant row, got %d", count)
		}
	})

	t.Run("FoundPathKeepsStoredNames", func(t *testing.T) {
		existing := models.Participant{
			ID:        50,
			Email:     "member@x.org",
			FirstName: "Original",
			LastName:  "Name",
			Role:      models.RoleParticipant,
		}
		db.Create(&existing)

		id, err := ResolveOrCreate(db, "member@x.org", "Different", "Person")
		if err != nil {
			t.Fatalf("ResolveOrCreate returned error: %v", err)
		}
		if id != existing.ID {
			t.Errorf("expected existing identifier %d, got %d", existing.ID, id)
		}

		var participant models.Participant
		db.First(&participant, existing.ID)
		if participant.FirstName != "Original" {
			t.Errorf("stored name was overwritten: %s", participant.FirstName)
		}
		if participant.Role != models.RoleParticipant {
			t.Errorf("stored role was overwritten: %s", participant.Role)
		}
	})
}
