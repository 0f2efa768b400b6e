// Package handler contains the HTTP request handlers for the club
// management application.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (form fields, query params, URL params)
// 2. Call the service layer
// 3. Render a template or redirect
//
// Handlers do NOT contain business logic — they are the glue between HTTP
// and the services. Every page is server-rendered HTML; outcomes travel
// between requests as query parameters (?signup=success and friends), so
// there is no server-side flash storage to manage.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/campus-clubs/internal/apperror"
)

// Renderer holds the parsed page templates and knows how to map domain
// errors to error pages.
//
// TEMPLATE COMPOSITION:
// Every page file defines a {{define "content"}} block; base.html provides
// the layout and pulls the block in with {{template "content" .}}. Because
// each page defines a block with the SAME name, the pages cannot live in
// one template set — each page is parsed together with base.html into its
// own *template.Template, keyed by file name.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// pageFiles lists every page template under the template directory.
// Parsing happens once at startup — a typo in any template fails boot
// instead of the first unlucky request.
var pageFiles = []string{
	"login.html",
	"signup.html",
	"dashboard_student.html",
	"dashboard_club.html",
	"dashboard_authority.html",
	"add_event.html",
	"add_recruitment.html",
	"request_permission.html",
	"events.html",
	"recruitments.html",
	"clubs.html",
	"applications_student.html",
	"applications_club.html",
	"403.html",
	"404.html",
	"500.html",
}

// NewRenderer parses base.html together with each page template.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	base := filepath.Join(templateDir, "base.html")

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.ParseFiles(base, filepath.Join(templateDir, name))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes a page template inside the base layout.
//
// HEADER ORDER MATTERS:
// Headers and the status code must be written BEFORE the body. Once the
// template starts writing, the headers are on the wire and any later
// changes are silently ignored.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data map[string]any) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// The status line is already sent — all we can do is log.
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// RenderError maps a domain error to the matching error page.
//
// ERROR MAPPING:
// The services return apperror sentinels; this is the single place they
// become HTTP. Validation and credential errors never reach here — the
// form handlers catch those and re-render the form with the submitted
// data echoed back. What's left is the page-level taxonomy:
//
//	ErrNotFound  → 404 page
//	ErrForbidden → 403 page
//	anything else → 500 page, generic text, details only in the log
//
// NEVER expose internal error details to the client — the raw message may
// contain SQL or file paths.
func (rn *Renderer) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		rn.NotFound(w, r)
	case errors.Is(err, apperror.ErrForbidden):
		rn.Forbidden(w, r)
	default:
		rn.logger.Error("unhandled error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		rn.Render(w, http.StatusInternalServerError, "500.html", map[string]any{
			"Title": "Something went wrong",
		})
	}
}

// NotFound renders the 404 page. Also wired as the router's fallback for
// unmatched routes.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, http.StatusNotFound, "404.html", map[string]any{
		"Title": "Page not found",
		"Path":  r.URL.Path,
	})
}

// Forbidden renders the 403 page. Also handed to the authorization gate as
// its role-mismatch response.
func (rn *Renderer) Forbidden(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, http.StatusForbidden, "403.html", map[string]any{
		"Title": "Not allowed",
	})
}
