package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/campus-clubs/internal/model"
)

// okHandler records whether the gate let the request through and what
// identity it saw.
type okHandler struct {
	called   bool
	identity *Identity
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.identity, _ = IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func gateRequest(t *testing.T, ss *SessionService, role model.Role, cookie string) (*okHandler, *httptest.ResponseRecorder) {
	t.Helper()

	next := &okHandler{}
	gate := RequireRole(ss, role, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/club", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)
	return next, rr
}

func TestRequireRole_NoSessionRedirectsToLogin(t *testing.T) {
	ss := newTestSessionService(t)

	next, rr := gateRequest(t, ss, model.RoleClub, "")

	if next.called {
		t.Error("handler should not run without a session")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	if loc := rr.Header().Get("Location"); loc != "/?login_required=true" {
		t.Errorf("Location = %q, want %q", loc, "/?login_required=true")
	}
}

func TestRequireRole_InvalidTokenRedirectsToLogin(t *testing.T) {
	ss := newTestSessionService(t)

	next, rr := gateRequest(t, ss, model.RoleClub, "not-a-token")

	if next.called {
		t.Error("handler should not run with an invalid session")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusSeeOther)
	}
}

func TestRequireRole_WrongRoleIsForbidden(t *testing.T) {
	ss := newTestSessionService(t)

	// A student session knocking on a club route.
	token, err := ss.Issue(Identity{ID: "s1", Name: "Ann", Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	next, rr := gateRequest(t, ss, model.RoleClub, token)

	if next.called {
		t.Error("handler should not run for the wrong role")
	}
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireRole_MatchingRolePassesIdentity(t *testing.T) {
	ss := newTestSessionService(t)

	token, err := ss.Issue(Identity{ID: "c1", Name: "Chess Club", Role: model.RoleClub})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	next, rr := gateRequest(t, ss, model.RoleClub, token)

	if !next.called {
		t.Fatal("handler should run for the matching role")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if next.identity == nil || next.identity.ID != "c1" {
		t.Errorf("identity in context = %+v, want ID c1", next.identity)
	}
}

func TestRequireRole_CustomForbiddenPage(t *testing.T) {
	ss := newTestSessionService(t)

	token, _ := ss.Issue(Identity{ID: "s1", Name: "Ann", Role: model.RoleStudent})

	rendered := false
	gate := RequireRole(ss, model.RoleAuthority, func(w http.ResponseWriter, r *http.Request) {
		rendered = true
		w.WriteHeader(http.StatusForbidden)
	})(&okHandler{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/authority", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	if !rendered {
		t.Error("custom forbidden renderer was not called")
	}
}

func TestOptionalIdentity_AnonymousPassesThrough(t *testing.T) {
	ss := newTestSessionService(t)

	next := &okHandler{}
	mw := OptionalIdentity(ss)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)

	if !next.called {
		t.Fatal("handler should always run behind OptionalIdentity")
	}
	if next.identity != nil {
		t.Errorf("identity = %+v, want nil for anonymous request", next.identity)
	}
}
