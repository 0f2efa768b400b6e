package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/service"
)

// AuthHandler serves the signup and login pages and processes their form
// submissions.
//
// HANDLER RESPONSIBILITIES:
//   - HandleLoginPage  → render the login form (the landing page)
//   - HandleSignupPage → render the signup form
//   - HandleSignup     → create the account, redirect to /?signup=success
//   - HandleLogin      → verify credentials, set the session cookie,
//     redirect to the role's dashboard
//   - HandleLogout     → clear the session cookie
type AuthHandler struct {
	auths    *service.AuthService
	sessions *auth.SessionService
	renderer *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	auths *service.AuthService,
	sessions *auth.SessionService,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auths:    auths,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleLoginPage renders the login form.
//
// HTTP: GET /
//
// OUTCOME FLAGS AS QUERY PARAMETERS:
// Other handlers redirect here with a query parameter describing what just
// happened (?signup=success, ?login_required=true, ?logged_out=true). The
// template turns each flag into a banner. Redirect-with-flag keeps the
// server stateless — nothing to store, nothing to expire.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.renderer.Render(w, http.StatusOK, "login.html", map[string]any{
		"Title":         "Log in",
		"Username":      "",
		"SignupSuccess": q.Get("signup") == "success",
		"LoginRequired": q.Get("login_required") == "true",
		"LoggedOut":     q.Get("logged_out") == "true",
	})
}

// HandleSignupPage renders the signup form.
//
// HTTP: GET /signup
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "signup.html", map[string]any{
		"Title":    "Sign up",
		"Username": "",
		"Role":     "",
		"Email":    "",
	})
}

// HandleSignup creates a new account.
//
// HTTP: POST /signup {username, password, role, email}
//
// On failure the signup form is re-rendered with the submitted values
// echoed back — except the password, which is never written into a page.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	name := r.PostFormValue("username")
	password := r.PostFormValue("password")
	email := r.PostFormValue("email")

	// The form posts lowercase role values; the store keeps the canonical
	// capitalized ones. Normalize here — an unknown value passes through
	// and Register rejects it.
	rawRole := r.PostFormValue("role")
	role, _ := model.ParseRole(rawRole)

	_, err := h.auths.Register(r.Context(), name, password, role, email)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			h.renderSignupError(w, "That name is already taken", name, rawRole, email)
		case errors.Is(err, apperror.ErrValidation):
			h.renderSignupError(w, apperror.Message(err), name, rawRole, email)
		default:
			h.renderer.RenderError(w, r, err)
		}
		return
	}

	// POST-REDIRECT-GET:
	// Redirect after a successful POST so a browser refresh re-fetches the
	// login page instead of re-submitting the form.
	http.Redirect(w, r, "/?signup=success", http.StatusSeeOther)
}

// renderSignupError re-renders the signup form with the submitted values
// echoed. The role echoes as the raw form value so the right <option>
// stays selected.
func (h *AuthHandler) renderSignupError(w http.ResponseWriter, message string, name string, rawRole string, email string) {
	h.renderer.Render(w, http.StatusOK, "signup.html", map[string]any{
		"Title":    "Sign up",
		"Error":    message,
		"Username": name,
		"Role":     rawRole,
		"Email":    email,
	})
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /login {username, password}
//
// On success the session token goes into an HttpOnly cookie and the
// browser is sent to the dashboard matching the account's role. On bad
// credentials the login form re-renders with one deliberately vague
// message — it never says whether the name or the password was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	name := r.PostFormValue("username")
	password := r.PostFormValue("password")

	result, err := h.auths.Authenticate(r.Context(), name, password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) || errors.Is(err, apperror.ErrValidation) {
			h.renderer.Render(w, http.StatusOK, "login.html", map[string]any{
				"Title":    "Log in",
				"Error":    "Invalid username or password",
				"Username": name,
			})
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	auth.SetCookie(w, result.Token)

	h.logger.Info("user logged in",
		slog.String("userID", result.Identity.ID),
		slog.String("role", string(result.Identity.Role)),
	)

	// Roles are stored capitalized; dashboard routes are lowercase.
	http.Redirect(w, r, "/dashboard/"+result.Identity.Role.PathSegment(), http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: GET /logout
//
// Sessions are stateless tokens, so "logout" means deleting the cookie;
// the token itself stays valid until its 24-hour expiry, but without the
// cookie the browser can't send it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	http.Redirect(w, r, "/?logged_out=true", http.StatusSeeOther)
}
