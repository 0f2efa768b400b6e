package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// ApplicationService handles the student application workflow: students
// apply to approved events, the owning club approves or rejects.
//
// It needs all three repositories — applications for its own records,
// events for availability/ownership checks and joins, users to attach
// student details to the club's review screen.
type ApplicationService struct {
	applications repository.ApplicationRepository
	events       repository.EventRequestRepository
	users        repository.UserRepository
	logger       *slog.Logger
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(
	applications repository.ApplicationRepository,
	events repository.EventRequestRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		events:       events,
		users:        users,
		logger:       logger,
	}
}

// enrichWithEventTitle copies the event's title onto the application if the
// application doesn't already carry one.
//
// This runs BEFORE the application is persisted, so the stored record is
// self-describing: the title shown on the student's application list is the
// title at application time, even if the event record is altered later.
// An explicit pre-persist step — not a read-time join, not a storage hook.
func enrichWithEventTitle(app *model.StudentApplication, event *model.EventRequest) {
	if app.EventTitle == "" && event != nil {
		app.EventTitle = event.EventTitle
	}
}

// Apply creates a pending application by the student against an event.
//
// Only approved events accept applications. A missing event and a
// non-approved event produce the same Unavailable error — from the
// student's point of view both mean "you can't apply to this".
func (s *ApplicationService) Apply(ctx context.Context, student *auth.Identity, eventID, details string) (*model.StudentApplication, error) {
	eventID = strings.TrimSpace(eventID)
	details = strings.TrimSpace(details)

	if eventID == "" {
		return nil, apperror.ValidationFailed("eventId", "event is required")
	}
	// The bounds are in characters, not bytes — count runes so multibyte
	// text is measured the way the user sees it.
	if utf8.RuneCountInString(details) < model.MinApplicationDetails {
		return nil, apperror.ValidationFailed("applicationDetails",
			fmt.Sprintf("application must be at least %d characters", model.MinApplicationDetails))
	}
	if utf8.RuneCountInString(details) > model.MaxApplicationDetails {
		return nil, apperror.ValidationFailed("applicationDetails",
			fmt.Sprintf("application cannot exceed %d characters", model.MaxApplicationDetails))
	}
	if utf8.RuneCountInString(student.Name) > model.MaxStudentNameLength {
		return nil, apperror.ValidationFailed("studentName",
			fmt.Sprintf("student name cannot exceed %d characters", model.MaxStudentNameLength))
	}

	event, err := s.events.GetEventRequestByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unavailable("event is not available")
		}
		return nil, fmt.Errorf("service/application: fetching event %s: %w", eventID, err)
	}
	if event.Status != model.EventApproved {
		return nil, apperror.Unavailable("event is not open for applications")
	}

	app := &model.StudentApplication{
		StudentID:          student.ID,
		StudentName:        student.Name,
		EventID:            event.ID,
		ApplicationDetails: details,
		Status:             model.ApplicationPending,
	}
	enrichWithEventTitle(app, event)

	if err := s.applications.CreateApplication(ctx, app); err != nil {
		s.logger.Error("failed to create application",
			slog.String("studentID", student.ID),
			slog.String("eventID", eventID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/application: creating application: %w", err)
	}

	s.logger.Info("application submitted",
		slog.String("applicationID", app.ID),
		slog.String("studentID", student.ID),
		slog.String("eventTitle", app.EventTitle),
	)

	return app, nil
}

// ProcessAction maps a process form action to the resulting status.
// Returns an InvalidAction error for anything outside approve/reject —
// notably, nothing maps to waitlisted.
func ProcessAction(action string) (model.ApplicationStatus, error) {
	switch action {
	case "approve":
		return model.ApplicationApproved, nil
	case "reject":
		return model.ApplicationRejected, nil
	default:
		return "", apperror.InvalidAction(action)
	}
}

// Process records the club's decision on an application.
//
// OWNERSHIP CHECK:
// The reviewing club must own the event the application references. The
// check runs against the event's clubId — not anything the form submitted —
// so a club cannot process another club's applications no matter what it
// posts.
//
// Like event review, processing an already-decided application is allowed
// and overwrites the earlier decision (last write wins).
func (s *ApplicationService) Process(ctx context.Context, club *auth.Identity, applicationID, action, remarks string) error {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return apperror.ValidationFailed("id", "application ID is required")
	}

	remarks = strings.TrimSpace(remarks)
	if utf8.RuneCountInString(remarks) > model.MaxClubRemarksLength {
		return apperror.ValidationFailed("remarks",
			fmt.Sprintf("remarks cannot exceed %d characters", model.MaxClubRemarksLength))
	}

	app, err := s.applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return err // NotFound propagates
	}

	event, err := s.events.GetEventRequestByID(ctx, app.EventID)
	if err != nil {
		return fmt.Errorf("service/application: fetching event %s for application %s: %w",
			app.EventID, applicationID, err)
	}
	if event.ClubID != club.ID {
		return apperror.Forbidden("application belongs to another club's event")
	}

	status, err := ProcessAction(action)
	if err != nil {
		return err
	}

	if err := s.applications.UpdateApplicationProcessing(ctx, applicationID, status, remarks); err != nil {
		return err
	}

	s.logger.Info("application processed",
		slog.String("applicationID", applicationID),
		slog.String("clubID", club.ID),
		slog.String("status", string(status)),
	)

	return nil
}

// AddAttachment appends a named file reference to an application.
func (s *ApplicationService) AddAttachment(ctx context.Context, applicationID, name, url string) error {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return apperror.ValidationFailed("attachment", "attachment name and url are required")
	}

	app, err := s.applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return err
	}

	attachments := append(app.Attachments, model.Attachment{
		Name:       name,
		URL:        url,
		UploadedAt: time.Now(),
	})

	if err := s.applications.UpdateApplicationAttachments(ctx, applicationID, attachments); err != nil {
		return err
	}

	return nil
}

// ListForStudent returns the student's applications joined with their
// events, newest first. limit 0 means all.
//
// EXPLICIT FETCH-THEN-MERGE:
// The join happens right here in plain code: list the applications, fetch
// each distinct referenced event once, merge. A missing event becomes a
// nil Event on the view model rather than an error — the stored
// application still carries its own denormalized title.
func (s *ApplicationService) ListForStudent(ctx context.Context, studentID string, limit int) ([]model.ApplicationWithEvent, error) {
	apps, err := s.applications.ListApplicationsByStudent(ctx, studentID, repository.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("service/application: listing for student %s: %w", studentID, err)
	}

	eventCache := make(map[string]*model.EventRequest)
	result := make([]model.ApplicationWithEvent, 0, len(apps))

	for _, app := range apps {
		event, ok := eventCache[app.EventID]
		if !ok {
			event, err = s.events.GetEventRequestByID(ctx, app.EventID)
			if err != nil {
				if !errors.Is(err, apperror.ErrNotFound) {
					return nil, fmt.Errorf("service/application: fetching event %s: %w", app.EventID, err)
				}
				event = nil // dangling reference — render from the denormalized fields
			}
			eventCache[app.EventID] = event
		}
		result = append(result, model.ApplicationWithEvent{StudentApplication: app, Event: event})
	}

	return result, nil
}

// ListForClub returns every application against any of the club's events,
// joined with event and student data, newest first.
func (s *ApplicationService) ListForClub(ctx context.Context, clubID string) ([]model.ApplicationWithContext, error) {
	events, err := s.events.ListEventsByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("service/application: listing events for club %s: %w", clubID, err)
	}

	eventByID := make(map[string]*model.EventRequest, len(events))
	eventIDs := make([]string, 0, len(events))
	for i := range events {
		eventByID[events[i].ID] = &events[i]
		eventIDs = append(eventIDs, events[i].ID)
	}

	apps, err := s.applications.ListApplicationsByEvents(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("service/application: listing applications for club %s: %w", clubID, err)
	}

	studentCache := make(map[string]*model.User)
	result := make([]model.ApplicationWithContext, 0, len(apps))

	for _, app := range apps {
		student, ok := studentCache[app.StudentID]
		if !ok {
			student, err = s.users.GetUserByID(ctx, app.StudentID)
			if err != nil {
				if !errors.Is(err, apperror.ErrNotFound) {
					return nil, fmt.Errorf("service/application: fetching student %s: %w", app.StudentID, err)
				}
				student = nil
			}
			studentCache[app.StudentID] = student
		}

		result = append(result, model.ApplicationWithContext{
			StudentApplication: app,
			Event:              eventByID[app.EventID],
			Student:            student,
		})
	}

	return result, nil
}
