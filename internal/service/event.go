package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// dateLayout is the format of the event date form field (HTML date input).
const dateLayout = "2006-01-02"

// EventService handles the event request workflow: clubs submit requests,
// an authority reviews them.
type EventService struct {
	events repository.EventRequestRepository
	logger *slog.Logger
}

// NewEventService creates an EventService.
func NewEventService(events repository.EventRequestRepository, logger *slog.Logger) *EventService {
	return &EventService{
		events: events,
		logger: logger,
	}
}

// Submit creates a pending event request owned by the submitting club.
//
// The club's ID and name come from the session identity, never from the
// form — a club cannot submit on another club's behalf. ClubName is
// denormalized into the record at creation time.
func (s *EventService) Submit(ctx context.Context, club *auth.Identity, title, description, date string) (*model.EventRequest, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, apperror.ValidationFailed("eventTitle", "event title is required")
	}
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if date == "" {
		return nil, apperror.ValidationFailed("date", "date is required")
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, apperror.ValidationFailed("date", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}

	req := &model.EventRequest{
		ClubID:      club.ID,
		ClubName:    club.Name,
		EventTitle:  title,
		Description: description,
		Date:        parsed,
		Status:      model.EventPending,
	}

	if err := s.events.CreateEventRequest(ctx, req); err != nil {
		s.logger.Error("failed to create event request",
			slog.String("clubID", club.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/event: creating request: %w", err)
	}

	s.logger.Info("event request submitted",
		slog.String("requestID", req.ID),
		slog.String("clubID", club.ID),
		slog.String("title", req.EventTitle),
	)

	return req, nil
}

// ReviewAction maps a review form action to the resulting status.
//
// "approved" and "rejected" map directly; ANY other value becomes
// changes_requested. That catch-all mirrors how the review form behaves:
// the third button means "send it back", and an unrecognized action is
// treated the same way rather than rejected.
func ReviewAction(action string) model.EventStatus {
	switch action {
	case "approved":
		return model.EventApproved
	case "rejected":
		return model.EventRejected
	default:
		return model.EventChangesRequested
	}
}

// Review records an authority's decision on a request.
//
// Authority is a global role: any authority may review any request, so
// there is no ownership check here — the role gate already established who
// is calling.
//
// There is deliberately no guard against re-reviewing a request that was
// already decided: a later review simply overwrites the earlier decision
// and remarks (last write wins).
func (s *EventService) Review(ctx context.Context, requestID, action, remarks string) error {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return apperror.ValidationFailed("id", "request ID is required")
	}

	status := ReviewAction(action)

	if err := s.events.UpdateEventReview(ctx, requestID, status, strings.TrimSpace(remarks)); err != nil {
		return err // NotFound propagates as-is; anything else is already wrapped
	}

	s.logger.Info("event request reviewed",
		slog.String("requestID", requestID),
		slog.String("status", string(status)),
	)

	return nil
}

// ListForClub returns all of a club's requests, every status, newest first.
func (s *EventService) ListForClub(ctx context.Context, clubID string) ([]model.EventRequest, error) {
	requests, err := s.events.ListEventsByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("service/event: listing for club %s: %w", clubID, err)
	}
	return requests, nil
}

// ListApproved returns all approved events — the set students may apply to.
func (s *EventService) ListApproved(ctx context.Context) ([]model.EventRequest, error) {
	events, err := s.events.ListEventsByStatus(ctx, model.EventApproved, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("service/event: listing approved: %w", err)
	}
	return events, nil
}

// RecentApproved returns up to limit most recently created approved events.
func (s *EventService) RecentApproved(ctx context.Context, limit int) ([]model.EventRequest, error) {
	events, err := s.events.ListEventsByStatus(ctx, model.EventApproved, repository.ListOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("service/event: listing recent approved: %w", err)
	}
	return events, nil
}

// ListPending returns every request awaiting review, for the authority view.
func (s *EventService) ListPending(ctx context.Context) ([]model.EventRequest, error) {
	requests, err := s.events.ListEventsByStatus(ctx, model.EventPending, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("service/event: listing pending: %w", err)
	}
	return requests, nil
}

// CountPending counts a club's requests awaiting review.
func (s *EventService) CountPending(ctx context.Context, clubID string) (int, error) {
	count, err := s.events.CountEventsByStatus(ctx, clubID, model.EventPending)
	if err != nil {
		return 0, fmt.Errorf("service/event: counting pending for club %s: %w", clubID, err)
	}
	return count, nil
}

// CountPendingAll counts pending requests across every club.
func (s *EventService) CountPendingAll(ctx context.Context) (int, error) {
	count, err := s.events.CountEventsByStatus(ctx, "", model.EventPending)
	if err != nil {
		return 0, fmt.Errorf("service/event: counting pending: %w", err)
	}
	return count, nil
}
