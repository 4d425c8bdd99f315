package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ella-rises/membership-api/internal/config"
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
	db.AutoMigrate(&models.Participant{})
	return db
}

func postLogin(handler *AuthHandler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)
	return rr
}

func TestHandleLogin(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Participant{
		ID:       1,
		Email:    "member@example.org",
		Password: "hunter2",
		Role:     models.RoleParticipant,
	})
	db.Create(&models.Participant{
		ID:    2,
		Email: "donor@example.org",
		Role:  models.RoleDonor,
	})

	cfg := &config.Config{JWTSecret: "test-secret", SessionHours: 24}
	handler := NewAuthHandler(cfg, db, nil)

	t.Run("ValidCredentials", func(t *testing.T) {
		rr := postLogin(handler, "member@example.org", "hunter2")

		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/" {
			t.Errorf("expected redirect to /, got %s", loc)
		}

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookieName && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("expected session cookie to be set")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rr := postLogin(handler, "member@example.org", "wrong")

		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login?msg=invalid" {
			t.Errorf("expected redirect back to login, got %s", loc)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Error("no cookie should be set on failed login")
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		rr := postLogin(handler, "nobody@example.org", "hunter2")
		if loc := rr.Header().Get("Location"); loc != "/login?msg=invalid" {
			t.Errorf("expected redirect back to login, got %s", loc)
		}
	})

	t.Run("DonorHasNoCredential", func(t *testing.T) {
		// A donor row stores an empty credential; an empty submitted
		// password must not match it.
		rr := postLogin(handler, "donor@example.org", "")
		if loc := rr.Header().Get("Location"); loc != "/login?msg=invalid" {
			t.Errorf("expected redirect back to login, got %s", loc)
		}
	})
}
