package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/service"
)

// StudentHandler serves the student-facing pages: browsing approved events
// and applying to them.
type StudentHandler struct {
	events       *service.EventService
	applications *service.ApplicationService
	renderer     *Renderer
	logger       *slog.Logger
}

func NewStudentHandler(
	events *service.EventService,
	applications *service.ApplicationService,
	renderer *Renderer,
	logger *slog.Logger,
) *StudentHandler {
	return &StudentHandler{
		events:       events,
		applications: applications,
		renderer:     renderer,
		logger:       logger,
	}
}

// HandleEvents lists every approved event a student can apply to.
//
// HTTP: GET /student/events (Student)
func (h *StudentHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListApproved(r.Context())
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "events.html", map[string]any{
		"Title":  "Upcoming events",
		"Events": events,
		"Error":  r.URL.Query().Get("error"),
	})
}

// HandleRecruitmentsPage renders the recruitments page.
//
// HTTP: GET /student/recruitments (Student)
func (h *StudentHandler) HandleRecruitmentsPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "recruitments.html", map[string]any{
		"Title": "Recruitments",
	})
}

// HandleClubsPage renders the clubs directory page.
//
// HTTP: GET /student/clubs (Student)
func (h *StudentHandler) HandleClubsPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "clubs.html", map[string]any{
		"Title": "Clubs",
	})
}

// HandleApplications lists the student's own applications with event data
// merged in.
//
// HTTP: GET /student/applications (Student)
func (h *StudentHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	apps, err := h.applications.ListForStudent(r.Context(), id.ID, 0)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "applications_student.html", map[string]any{
		"Title":        "My applications",
		"Identity":     id,
		"Applications": apps,
	})
}

// HandleApply submits an application to an approved event.
//
// HTTP: POST /student/apply-event {eventId, applicationDetails} (Student)
//
// Failures bounce back to the events list with an error banner; success
// lands on the dashboard carrying the event's id so the page can confirm
// which event was applied to.
func (h *StudentHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	eventID := r.PostFormValue("eventId")
	details := r.PostFormValue("applicationDetails")

	_, err := h.applications.Apply(r.Context(), id, eventID, details)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrUnavailable):
			http.Redirect(w, r, "/student/events?error="+url.QueryEscape(apperror.Message(err)), http.StatusSeeOther)
		default:
			h.renderer.RenderError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/dashboard/student?applied="+url.QueryEscape(eventID), http.StatusSeeOther)
}
