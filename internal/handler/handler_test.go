package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository/sqlite"
	"github.com/sakif/campus-clubs/internal/service"
)

// testEnv wires real services over an in-memory database — handler tests
// exercise the full stack below HTTP, with only the router and session
// middleware stripped away. Identities go straight into the request context
// via auth.ContextWithIdentity instead of minting cookies.
type testEnv struct {
	db           *sqlite.DB
	sessions     *auth.SessionService
	renderer     *Renderer
	auths        *service.AuthService
	events       *service.EventService
	applications *service.ApplicationService
	dashboards   *service.DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sessions, err := auth.NewSessionService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	// The real templates, so a template/data mismatch fails a test here
	// instead of a request in production.
	renderer, err := NewRenderer("../../web/templates", logger)
	require.NoError(t, err)

	// bcrypt cost 4 keeps the signup/login tests fast.
	passwords := auth.NewPasswordServiceForTest(4)

	events := service.NewEventService(db, logger)
	applications := service.NewApplicationService(db, db, db, logger)

	return &testEnv{
		db:           db,
		sessions:     sessions,
		renderer:     renderer,
		auths:        service.NewAuthService(db, passwords, sessions, logger),
		events:       events,
		applications: applications,
		dashboards:   service.NewDashboardService(events, applications, logger),
	}
}

// postForm builds a POST request with form-encoded values.
func postForm(t *testing.T, target string, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// asRole attaches a fake authenticated identity to the request, standing in
// for the RequireRole middleware.
func asRole(req *http.Request, id *auth.Identity) *http.Request {
	return req.WithContext(auth.ContextWithIdentity(req.Context(), id))
}

// registerUser creates an account directly through the service and returns
// its identity.
func registerUser(t *testing.T, env *testEnv, name string, role model.Role) *auth.Identity {
	t.Helper()
	user, err := env.auths.Register(context.Background(), name, "secret-password", role, name+"@campus.edu")
	require.NoError(t, err)
	return &auth.Identity{ID: user.ID, Name: user.Name, Role: user.Role, Email: user.Email}
}

// submitApprovedEvent creates an event request for the club and approves it.
func submitApprovedEvent(t *testing.T, env *testEnv, club *auth.Identity, title string) *model.EventRequest {
	t.Helper()
	event, err := env.events.Submit(context.Background(), club, title, "An event with plenty of description.", "2026-10-12")
	require.NoError(t, err)
	require.NoError(t, env.events.Review(context.Background(), event.ID, "approved", "ok"))
	return event
}
