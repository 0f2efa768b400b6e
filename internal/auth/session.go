// Package auth provides session tokens, the role gate, and password hashing.
//
// SESSION FLOW OVERVIEW:
// 1. User submits the login form → service verifies credentials
// 2. Server issues a signed session token and stores it in an HttpOnly cookie
// 3. On every later request, the role gate middleware reads the cookie,
//    validates the token, and puts the Identity in the request context
// 4. Logout clears the cookie; tokens also die on their own after 24 hours
//
// WHY A SIGNED TOKEN INSTEAD OF A SERVER-SIDE SESSION STORE?
// The identity a page needs (id, name, role, email) fits in the token
// itself, and the HMAC signature makes it tamper-proof. That means the
// role gate decides allow/deny from the cookie alone — no store lookup,
// no session table to garbage-collect. The trade-off is that a session
// cannot be revoked before its expiry; for a 24-hour lifetime that is
// acceptable here.
//
// TOKEN STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"userID","name":...,"role":...,"exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/campus-clubs/internal/model"
)

// SessionLifetime is how long a login lasts. Fixed window, no sliding —
// 24 hours after login the user signs in again regardless of activity.
const SessionLifetime = 24 * time.Hour

// CookieName is the session cookie. HttpOnly so page scripts can never
// read the token.
const CookieName = "session"

// Identity is the authenticated-user context carried for the duration of
// a browser session. It deliberately contains no secret material — it is
// exactly what ends up inside the signed token.
type Identity struct {
	ID    string
	Name  string
	Role  model.Role
	Email string
}

// SessionService issues and validates signed session tokens.
// It holds the HMAC secret used to sign and verify — the same secret must
// be used for both, so a multi-process deployment must share it.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: SESSION_SECRET=$(openssl rand -hex 32)
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

// claims is the token payload: the registered claims (sub = user ID,
// exp, iat, iss) plus the identity fields the app reads on every request.
type claims struct {
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	Email string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issue creates and signs a session token for the given identity.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and the right
// choice for a single-server deployment where one process both signs and
// verifies.
func (s *SessionService) Issue(id Identity) (string, error) {
	return s.IssueWithDuration(id, SessionLifetime)
}

// IssueWithDuration creates a token with a custom lifetime.
// Exists so tests can mint already-expired tokens.
func (s *SessionService) IssueWithDuration(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Name:  id.Name,
		Role:  id.Role,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    "campus-clubs",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token and returns the Identity
// it encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired
//   - Issuer matches "campus-clubs" (rejects tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks, where an
//     attacker submits a token claiming a different signing scheme)
func (s *SessionService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("campus-clubs"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: session expired")
		}
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid session claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: session token has no subject")
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("auth: session token has unknown role %q", c.Role)
	}

	return &Identity{
		ID:    c.Subject,
		Name:  c.Name,
		Role:  c.Role,
		Email: c.Email,
	}, nil
}

// SetCookie writes the session cookie on a login response.
//
// HttpOnly keeps the token away from page scripts (XSS can't steal it);
// SameSite=Lax keeps it off cross-site POSTs (basic CSRF protection).
// MaxAge mirrors the token's own expiry so the browser drops the cookie
// when the token would stop validating anyway.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie on logout.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
