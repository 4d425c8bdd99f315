package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ella-rises/membership-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the resolved session identity, or nil when the
// request carried no valid session.
func IdentityFrom(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}

// ResolveIdentity parses the session cookie, if any, and attaches the
// resolved identity to the request context. It never rejects a request;
// the capability gates below do that.
func (h *AuthHandler) ResolveIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(h.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		idFloat, ok := claims["participant_id"].(float64)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		participantID := uint(idFloat)

		var participant models.Participant
		if err := h.db.First(&participant, participantID).Error; err != nil {
			next.ServeHTTP(w, r)
			return
		}

		// Sliding session: refresh the token once it is past half its
		// duration.
		if exp, ok := claims["exp"].(float64); ok {
			remaining := time.Until(time.Unix(int64(exp), 0))
			if remaining < h.tokenDuration()/2 {
				newToken, err := h.GenerateToken(participantID)
				if err == nil {
					http.SetCookie(w, &http.Cookie{
						Name:     TokenCookieName,
						Value:    newToken,
						Expires:  time.Now().Add(h.tokenDuration()),
						HttpOnly: true,
						Path:     "/",
					})
				}
			}
		}

		identity := &Identity{
			ParticipantID: participant.ID,
			Email:         participant.Email,
			Role:          participant.Role,
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuthenticated gates routes on the authenticated capability. A
// denied request is redirected to the login entry point, never errored.
func (h *AuthHandler) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := Decide(IdentityFrom(r.Context()), CapabilityAuthenticated); err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireElevated gates routes on the elevated capability. A denied request
// gets a terminal 403 regardless of whether a session was present.
func (h *AuthHandler) RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := Decide(IdentityFrom(r.Context()), CapabilityElevated)
		if err != nil {
			if errors.Is(err, ErrForbidden) {
				h.logger.Warn("elevated capability denied",
					zap.String("path", r.URL.Path))
			}
			http.Error(w, "Access Denied.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
