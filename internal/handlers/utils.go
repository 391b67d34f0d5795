// internal/handlers/utils.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/auxbattle/auxbattle/internal/auth"
	"github.com/google/uuid"
)

// extractCookieToken pulls a named cookie value out of a raw Cookie header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireUser resolves the caller's identity from the auth_token cookie.
// Identity issuance is the auth collaborator's job; this only verifies.
func requireUser(r *http.Request) (uuid.UUID, error) {
	cookieHeader := r.Header.Get("Cookie")
	if !strings.Contains(cookieHeader, "auth_token=") {
		return uuid.Nil, fmt.Errorf("missing auth_token")
	}
	sub, err := auth.AuthenticateJWT(extractCookieToken(cookieHeader, "auth_token"))
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return userID, nil
}

// EnsureGuestUser resolves the caller's identity, minting an ephemeral guest
// identity and auth cookie when no valid token is presented. Must run before
// any WebSocket upgrade, since it may set a cookie.
func (bs *BattleServer) EnsureGuestUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if userID, err := requireUser(r); err == nil {
		return userID, nil
	}

	userID := uuid.New()
	token, err := auth.CreateJWT(userID.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("mint guest token: %w", err)
	}
	if bs.Profiles != nil {
		name := fmt.Sprintf("Guest_%s", userID.String()[:4])
		if err := bs.Profiles.UpsertProfile(r.Context(), userID, name); err != nil {
			bs.Logger.Warnf("failed to store guest profile %s: %v", userID, err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	return userID, nil
}
