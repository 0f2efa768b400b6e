package auth

import (
	"context"
	"net/http"

	"github.com/sakif/campus-clubs/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. A package-private type prevents collisions:
// only THIS package can create a key of type contextKey, so only this package
// can read or write identities in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireRole is the authorization gate: it admits a request only when a
// valid session exists AND its role matches.
//
// The two failure modes get different responses, matching how a browser
// app should behave:
//   - no/invalid session → redirect to the login page (the user can fix this)
//   - wrong role         → 403 page (the user cannot fix this by logging in)
//
// The gate decides from the validated cookie alone — it never reads the
// store. forbidden renders the 403 page; if nil, a plain-text 403 is sent.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler wrapping it. Chi applies them in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
func RequireRole(sessions *SessionService, role model.Role, forbidden http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, sessions)
			if err != nil {
				http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
				return
			}

			if id.Role != role {
				if forbidden != nil {
					forbidden(w, r)
				} else {
					http.Error(w, "forbidden", http.StatusForbidden)
				}
				return
			}

			// Store the identity in context so handlers can read it
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

// OptionalIdentity extracts the identity if a valid session cookie is
// present but never blocks the request. Used on the login and signup pages
// so they can show who is already signed in.
func OptionalIdentity(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := extractIdentity(r, sessions); err == nil {
				r = r.WithContext(ContextWithIdentity(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithIdentity returns a context carrying the identity. The
// middleware above uses it; handler tests use it to fake an authenticated
// request without minting a token.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated identity placed in the
// request context by RequireRole or OptionalIdentity.
//
// Returns (nil, false) when the request is anonymous. Handlers behind
// RequireRole can rely on ok being true.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}

// extractIdentity reads the session cookie and validates it.
func extractIdentity(r *http.Request, sessions *SessionService) (*Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — the request is simply anonymous
		return nil, err
	}

	return sessions.Validate(cookie.Value)
}
