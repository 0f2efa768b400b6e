package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/service"
)

// ClubHandler serves the club-facing pages: submitting event permission
// requests and processing student applications.
type ClubHandler struct {
	events       *service.EventService
	applications *service.ApplicationService
	renderer     *Renderer
	logger       *slog.Logger
}

func NewClubHandler(
	events *service.EventService,
	applications *service.ApplicationService,
	renderer *Renderer,
	logger *slog.Logger,
) *ClubHandler {
	return &ClubHandler{
		events:       events,
		applications: applications,
		renderer:     renderer,
		logger:       logger,
	}
}

// HandleAddEventPage renders the add-event landing page.
//
// HTTP: GET /club/add-event (Club)
func (h *ClubHandler) HandleAddEventPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "add_event.html", map[string]any{
		"Title": "Add an event",
	})
}

// HandleAddRecruitmentPage renders the add-recruitment landing page.
//
// HTTP: GET /club/add-recruitment (Club)
func (h *ClubHandler) HandleAddRecruitmentPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "add_recruitment.html", map[string]any{
		"Title": "Add a recruitment",
	})
}

// HandleRequestPermissionPage renders the event permission request form.
//
// HTTP: GET /club/request-permission (Club)
func (h *ClubHandler) HandleRequestPermissionPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "request_permission.html", map[string]any{
		"Title":       "Request event permission",
		"EventTitle":  "",
		"Description": "",
		"Date":        "",
	})
}

// HandleRequestPermission submits a new event request for review.
//
// HTTP: POST /club/request-permission {eventTitle, description, date} (Club)
//
// Validation failures re-render the form with the submitted values echoed
// back so the club doesn't retype everything over one bad field.
func (h *ClubHandler) HandleRequestPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	title := r.PostFormValue("eventTitle")
	description := r.PostFormValue("description")
	date := r.PostFormValue("date")

	_, err := h.events.Submit(r.Context(), id, title, description, date)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderer.Render(w, http.StatusOK, "request_permission.html", map[string]any{
				"Title":       "Request event permission",
				"Error":       apperror.Message(err),
				"EventTitle":  title,
				"Description": description,
				"Date":        date,
			})
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard/club?request_submitted=true", http.StatusSeeOther)
}

// HandleApplications lists student applications across all of the club's
// events, with event and student context merged in.
//
// HTTP: GET /club/applications (Club)
func (h *ClubHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	apps, err := h.applications.ListForClub(r.Context(), id.ID)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "applications_club.html", map[string]any{
		"Title":        "Applications",
		"Identity":     id,
		"Applications": apps,
		"Processed":    r.URL.Query().Get("action_processed") == "true",
		"Error":        r.URL.Query().Get("error"),
	})
}

// HandleProcessApplication approves or rejects a student application.
//
// HTTP: POST /club/application/{id}/process {action, remarks} (Club)
//
// The service rejects the request when the application's event belongs to
// a different club — owning the session role is not owning the event.
func (h *ClubHandler) HandleProcessApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/?login_required=true", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	applicationID := chi.URLParam(r, "id")
	action := r.PostFormValue("action")
	remarks := r.PostFormValue("remarks")

	err := h.applications.Process(r.Context(), id, applicationID, action, remarks)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrInvalidAction), errors.Is(err, apperror.ErrValidation):
			// Recoverable mistakes bounce back to the list with a banner.
			http.Redirect(w, r, "/club/applications?error="+url.QueryEscape(apperror.Message(err)), http.StatusSeeOther)
		default:
			h.renderer.RenderError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, "/club/applications?action_processed=true", http.StatusSeeOther)
}
