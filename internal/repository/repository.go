// Package repository defines the storage interfaces the services depend on.
//
// Services receive these interfaces, never a concrete *sqlite.DB — that is
// what lets the tests inject in-memory fakes and would let a future
// deployment swap SQLite for Postgres without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/campus-clubs/internal/model"
)

// ListOptions limits how many rows a list query returns.
// A Limit of 0 means "use the repository default".
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetByName looks up the unique business key. Returns apperror.ErrNotFound
	// when no user has that name.
	GetUserByName(ctx context.Context, name string) (*model.User, error)
}

// EventRequestRepository stores club event requests.
type EventRequestRepository interface {
	CreateEventRequest(ctx context.Context, req *model.EventRequest) error
	GetEventRequestByID(ctx context.Context, id string) (*model.EventRequest, error)
	// ListByClub returns every request owned by the club, newest first.
	ListEventsByClub(ctx context.Context, clubID string) ([]model.EventRequest, error)
	// ListByStatus returns requests in the given status, newest first.
	ListEventsByStatus(ctx context.Context, status model.EventStatus, opts ListOptions) ([]model.EventRequest, error)
	// CountByStatus counts requests in the given status. An empty clubID
	// counts across all clubs.
	CountEventsByStatus(ctx context.Context, clubID string, status model.EventStatus) (int, error)
	// UpdateReview sets the status and authority remarks of a request.
	UpdateEventReview(ctx context.Context, id string, status model.EventStatus, remarks string) error
}

// ApplicationRepository stores student applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *model.StudentApplication) error
	GetApplicationByID(ctx context.Context, id string) (*model.StudentApplication, error)
	// ListByStudent returns the student's applications, newest first.
	ListApplicationsByStudent(ctx context.Context, studentID string, opts ListOptions) ([]model.StudentApplication, error)
	// ListByEvents returns applications referencing any of the given events,
	// newest first. Used for the club review screen.
	ListApplicationsByEvents(ctx context.Context, eventIDs []string) ([]model.StudentApplication, error)
	// UpdateProcessing sets status, club remarks and the processed timestamp.
	UpdateApplicationProcessing(ctx context.Context, id string, status model.ApplicationStatus, remarks string) error
	// UpdateAttachments replaces the application's attachment list.
	UpdateApplicationAttachments(ctx context.Context, id string, attachments []model.Attachment) error
}
