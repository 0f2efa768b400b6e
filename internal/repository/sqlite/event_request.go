package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// compile-time check that *DB implements repository.EventRequestRepository
var _ repository.EventRequestRepository = (*DB)(nil)

// eventRequestColumns is the canonical SELECT list — every query in this
// file uses it so the scan helper below stays in sync with one place.
const eventRequestColumns = `id, club_id, club_name, event_title, description, date,
	status, authority_remarks, created_at, updated_at`

// CreateEventRequest inserts a new event request.
//
// ID GENERATION WITH xid:
// xid generates 20-char, URL-safe, time-sortable IDs — sorting by ID is
// sorting by creation time, and they drop straight into URLs without
// escaping. The caller's struct is modified in place (pointer receiver)
// so after Create() it carries the generated ID and timestamps.
func (db *DB) CreateEventRequest(ctx context.Context, req *model.EventRequest) error {
	req.ID = xid.New().String()

	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = model.EventPending
	}

	// PARAMETERIZED QUERIES (the ? placeholders):
	// Never build SQL with string concatenation — the driver fills the
	// placeholders safely, which is what prevents SQL injection.
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO event_requests (id, club_id, club_name, event_title, description,
		                             date, status, authority_remarks, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.ClubID,
		req.ClubName,
		req.EventTitle,
		req.Description,
		req.Date,
		req.Status,
		req.AuthorityRemarks,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event request: %w", err)
	}

	return nil
}

// GetEventRequestByID retrieves a single event request.
func (db *DB) GetEventRequestByID(ctx context.Context, id string) (*model.EventRequest, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+eventRequestColumns+` FROM event_requests WHERE id = ?`, id)

	req, err := scanEventRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("event request", id)
		}
		return nil, fmt.Errorf("sqlite: getting event request %s: %w", id, err)
	}

	return req, nil
}

// ListEventsByClub returns all of a club's requests, newest first, all statuses.
func (db *DB) ListEventsByClub(ctx context.Context, clubID string) ([]model.EventRequest, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+eventRequestColumns+`
		 FROM event_requests
		 WHERE club_id = ?
		 ORDER BY created_at DESC`,
		clubID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing event requests for club %s: %w", clubID, err)
	}
	defer rows.Close()

	return collectEventRequests(rows)
}

// ListEventsByStatus returns requests in a given status, newest first.
// opts.Limit of 0 means no limit (the dashboard passes 3, full pages pass 0).
func (db *DB) ListEventsByStatus(ctx context.Context, status model.EventStatus, opts repository.ListOptions) ([]model.EventRequest, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // SQLite: LIMIT -1 means unlimited
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+eventRequestColumns+`
		 FROM event_requests
		 WHERE status = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		status, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s event requests: %w", status, err)
	}
	defer rows.Close()

	return collectEventRequests(rows)
}

// CountEventsByStatus counts requests in a status, optionally scoped to one club.
func (db *DB) CountEventsByStatus(ctx context.Context, clubID string, status model.EventStatus) (int, error) {
	query := `SELECT COUNT(*) FROM event_requests WHERE status = ?`
	args := []any{status}
	if clubID != "" {
		query += ` AND club_id = ?`
		args = append(args, clubID)
	}

	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting %s event requests: %w", status, err)
	}

	return count, nil
}

// UpdateEventReview sets the status and authority remarks of a request.
//
// RowsAffected tells us whether the WHERE clause matched anything — if not,
// the request doesn't exist and we return NotFound. One query instead of a
// SELECT-then-UPDATE pair.
func (db *DB) UpdateEventReview(ctx context.Context, id string, status model.EventStatus, remarks string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE event_requests
		 SET status = ?, authority_remarks = ?, updated_at = ?
		 WHERE id = ?`,
		status, remarks, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: reviewing event request %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("event request", id)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows so one scan function serves
// both QueryRow and Query paths.
type scanner interface {
	Scan(dest ...any) error
}

func scanEventRequest(s scanner) (*model.EventRequest, error) {
	var req model.EventRequest
	err := s.Scan(
		&req.ID,
		&req.ClubID,
		&req.ClubName,
		&req.EventTitle,
		&req.Description,
		&req.Date,
		&req.Status,
		&req.AuthorityRemarks,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func collectEventRequests(rows *sql.Rows) ([]model.EventRequest, error) {
	requests := make([]model.EventRequest, 0, 8)
	for rows.Next() {
		req, err := scanEventRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning event request row: %w", err)
		}
		requests = append(requests, *req)
	}
	// rows.Err() catches failures that happened DURING iteration
	// (e.g. the connection dropping mid-result-set).
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating event requests: %w", err)
	}
	return requests, nil
}
