package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/service"
)

// AuthorityHandler processes event request reviews. The review queue itself
// renders on the authority dashboard; this handler only takes the decision.
type AuthorityHandler struct {
	events   *service.EventService
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthorityHandler(events *service.EventService, renderer *Renderer, logger *slog.Logger) *AuthorityHandler {
	return &AuthorityHandler{
		events:   events,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleAction records a review decision on an event request.
//
// HTTP: POST /authority/action/{id} {action, remarks} (Authority)
//
// Any authority may review any request, including one already decided —
// a later decision simply overwrites the earlier one.
func (h *AuthorityHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	requestID := chi.URLParam(r, "id")
	action := r.PostFormValue("action")
	remarks := r.PostFormValue("remarks")

	if err := h.events.Review(r.Context(), requestID, action, remarks); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			h.renderer.NotFound(w, r)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/dashboard/authority?action_processed=true", http.StatusSeeOther)
}
