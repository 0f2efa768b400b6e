package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/service"
)

// DashboardHandler renders the per-role landing pages.
//
// The authorization gate has already checked the session and put the
// identity in the request context, so each method only fetches its role's
// summary data and renders. One handler per role keeps the templates simple
// — no role switches inside a page.
type DashboardHandler struct {
	dashboards *service.DashboardService
	renderer   *Renderer
	logger     *slog.Logger
}

func NewDashboardHandler(dashboards *service.DashboardService, renderer *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		renderer:   renderer,
		logger:     logger,
	}
}

// HandleStudent renders the student dashboard.
//
// HTTP: GET /dashboard/student (Student)
func (h *DashboardHandler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireRole, but don't render for a ghost.
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	data := h.dashboards.ForRole(r.Context(), id)
	h.renderer.Render(w, http.StatusOK, "dashboard_student.html", map[string]any{
		"Title":              "Student dashboard",
		"Identity":           id,
		"RecentEvents":       data.RecentEvents,
		"RecentApplications": data.RecentApplications,
		"Applied":            r.URL.Query().Get("applied"),
	})
}

// HandleClub renders the club dashboard.
//
// HTTP: GET /dashboard/club (Club)
func (h *DashboardHandler) HandleClub(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	data := h.dashboards.ForRole(r.Context(), id)
	h.renderer.Render(w, http.StatusOK, "dashboard_club.html", map[string]any{
		"Title":            "Club dashboard",
		"Identity":         id,
		"Requests":         data.Requests,
		"PendingCount":     data.PendingCount,
		"RequestSubmitted": r.URL.Query().Get("request_submitted") == "true",
	})
}

// HandleAuthority renders the authority dashboard with the global pending
// review queue.
//
// HTTP: GET /dashboard/authority (Authority)
func (h *DashboardHandler) HandleAuthority(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	data := h.dashboards.ForRole(r.Context(), id)
	h.renderer.Render(w, http.StatusOK, "dashboard_authority.html", map[string]any{
		"Title":           "Authority dashboard",
		"Identity":        id,
		"PendingRequests": data.PendingRequests,
		"PendingTotal":    data.PendingTotal,
		"ActionProcessed": r.URL.Query().Get("action_processed") == "true",
	})
}
