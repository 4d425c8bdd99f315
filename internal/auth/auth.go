package auth

import (
	"net/http"
	"time"

	"github.com/ella-rises/membership-api/internal/config"
	"github.com/ella-rises/membership-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TokenCookieName = "auth_token"

type AuthHandler struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{cfg: cfg, db: db, logger: logger}
}

func (h *AuthHandler) tokenDuration() time.Duration {
	hours := h.cfg.SessionHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// HandleLogin checks the submitted credentials against the participant
// table and starts a session. Credentials are opaque strings compared
// verbatim; donor identities carry none and can never log in.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	var participant models.Participant
	if err := h.db.Where("email = ?", email).First(&participant).Error; err != nil {
		http.Redirect(w, r, "/login?msg=invalid", http.StatusFound)
		return
	}
	if participant.Password == "" || participant.Password != password {
		http.Redirect(w, r, "/login?msg=invalid", http.StatusFound)
		return
	}

	token, err := h.GenerateToken(participant.ID)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenDuration()),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) GenerateToken(participantID uint) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": participantID,
		"exp":            time.Now().Add(h.tokenDuration()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
