package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ella-rises/membership-api/internal/config"
	"github.com/ella-rises/membership-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func newTestHandler(t *testing.T, role models.Role) (*AuthHandler, models.Participant) {
	t.Helper()
	db := setupTestDB(t)
	participant := models.Participant{
		ID:       1,
		Email:    "member@example.org",
		Password: "pw",
		Role:     role,
	}
	db.Create(&participant)

	cfg := &config.Config{JWTSecret: "test-secret", SessionHours: 24}
	return NewAuthHandler(cfg, db, nil), participant
}

func serveGated(handler *AuthHandler, gate func(http.Handler) http.Handler, cookie *http.Cookie) (*httptest.ResponseRecorder, bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("POST", "/guarded", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()

	handler.ResolveIdentity(gate(next)).ServeHTTP(rr, req)
	return rr, reached
}

func TestRequireAuthenticated(t *testing.T) {
	handler, participant := newTestHandler(t, models.RoleParticipant)

	t.Run("NoSessionRedirectsToLogin", func(t *testing.T) {
		rr, reached := serveGated(handler, handler.RequireAuthenticated, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("expected redirect to /login, got %s", loc)
		}
		if reached {
			t.Error("gated handler ran without a session")
		}
	})

	t.Run("ValidSessionPasses", func(t *testing.T) {
		token, _ := handler.GenerateToken(participant.ID)
		rr, reached := serveGated(handler, handler.RequireAuthenticated, &http.Cookie{Name: TokenCookieName, Value: token})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if !reached {
			t.Error("gated handler did not run")
		}
	})

	t.Run("GarbageTokenRedirects", func(t *testing.T) {
		rr, reached := serveGated(handler, handler.RequireAuthenticated, &http.Cookie{Name: TokenCookieName, Value: "garbage"})
		if rr.Code != http.StatusFound || reached {
			t.Errorf("expected redirect without running handler, got %d", rr.Code)
		}
	})
}

func TestRequireElevated(t *testing.T) {
	t.Run("NoSessionGets403NotRedirect", func(t *testing.T) {
		handler, _ := newTestHandler(t, models.RoleParticipant)
		rr, reached := serveGated(handler, handler.RequireElevated, nil)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
		if reached {
			t.Error("gated handler ran without a session")
		}
	})

	t.Run("ParticipantRoleDenied", func(t *testing.T) {
		handler, participant := newTestHandler(t, models.RoleParticipant)
		token, _ := handler.GenerateToken(participant.ID)
		rr, reached := serveGated(handler, handler.RequireElevated, &http.Cookie{Name: TokenCookieName, Value: token})
		if rr.Code != http.StatusForbidden || reached {
			t.Errorf("expected 403 without running handler, got %d", rr.Code)
		}
	})

	t.Run("ManagerAllowed", func(t *testing.T) {
		handler, participant := newTestHandler(t, models.RoleManager)
		token, _ := handler.GenerateToken(participant.ID)
		rr, reached := serveGated(handler, handler.RequireElevated, &http.Cookie{Name: TokenCookieName, Value: token})
		if rr.Code != http.StatusOK || !reached {
			t.Errorf("expected manager to pass, got %d", rr.Code)
		}
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		handler, participant := newTestHandler(t, models.RoleAdmin)
		token, _ := handler.GenerateToken(participant.ID)
		rr, reached := serveGated(handler, handler.RequireElevated, &http.Cookie{Name: TokenCookieName, Value: token})
		if rr.Code != http.StatusOK || !reached {
			t.Errorf("expected admin to pass, got %d", rr.Code)
		}
	})
}

func TestResolveIdentity_SlidingSession(t *testing.T) {
	handler, participant := newTestHandler(t, models.RoleParticipant)

	signToken := func(expIn time.Duration) string {
		claims := jwt.MapClaims{
			"participant_id": participant.ID,
			"exp":            time.Now().Add(expIn).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, _ := token.SignedString([]byte("test-secret"))
		return signed
	}

	t.Run("TokenRenewed", func(t *testing.T) {
		// Less than half of the 24h session left.
		old := signToken(11 * time.Hour)
		rr, _ := serveGated(handler, handler.RequireAuthenticated, &http.Cookie{Name: TokenCookieName, Value: old})

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookieName {
				found = true
				if c.Value == old {
					t.Error("expected a fresh token, got the old one")
				}
			}
		}
		if !found {
			t.Error("expected a renewed session cookie")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		fresh := signToken(13 * time.Hour)
		rr, _ := serveGated(handler, handler.RequireAuthenticated, &http.Cookie{Name: TokenCookieName, Value: fresh})

		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookieName {
				t.Error("did not expect a renewed session cookie")
			}
		}
	})
}
