package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// compile-time check that *DB implements repository.ApplicationRepository
var _ repository.ApplicationRepository = (*DB)(nil)

const applicationColumns = `id, student_id, student_name, event_id, event_title,
	application_details, status, club_remarks, applied_at, processed_at,
	attachments, created_at, updated_at`

// CreateApplication inserts a new student application.
//
// Attachments ride along as a JSON array in a TEXT column. The record is a
// small self-contained document — exactly how it is read back, no joins.
func (db *DB) CreateApplication(ctx context.Context, app *model.StudentApplication) error {
	app.ID = xid.New().String()

	now := time.Now()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}

	attachments, err := marshalAttachments(app.Attachments)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO student_applications (id, student_id, student_name, event_id, event_title,
		                                   application_details, status, club_remarks, applied_at,
		                                   processed_at, attachments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.StudentID,
		app.StudentName,
		app.EventID,
		app.EventTitle,
		app.ApplicationDetails,
		app.Status,
		app.ClubRemarks,
		app.AppliedAt,
		app.ProcessedAt,
		attachments,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating application: %w", err)
	}

	return nil
}

// GetApplicationByID retrieves a single application.
func (db *DB) GetApplicationByID(ctx context.Context, id string) (*model.StudentApplication, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM student_applications WHERE id = ?`, id)

	app, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}

	return app, nil
}

// ListApplicationsByStudent returns a student's applications, newest first.
func (db *DB) ListApplicationsByStudent(ctx context.Context, studentID string, opts repository.ListOptions) ([]model.StudentApplication, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // unlimited
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+`
		 FROM student_applications
		 WHERE student_id = ?
		 ORDER BY applied_at DESC
		 LIMIT ?`,
		studentID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for student %s: %w", studentID, err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// ListApplicationsByEvents returns applications referencing any of the given events.
//
// DYNAMIC IN CLAUSE:
// database/sql has no native slice binding, so we build the exact number
// of ? placeholders and pass the IDs as variadic args. The values still go
// through placeholders — only the placeholder COUNT is interpolated, never
// user data.
func (db *DB) ListApplicationsByEvents(ctx context.Context, eventIDs []string) ([]model.StudentApplication, error) {
	if len(eventIDs) == 0 {
		return []model.StudentApplication{}, nil
	}

	placeholders := strings.Repeat("?,", len(eventIDs))
	placeholders = placeholders[:len(placeholders)-1] // drop trailing comma

	args := make([]any, len(eventIDs))
	for i, id := range eventIDs {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+`
		 FROM student_applications
		 WHERE event_id IN (`+placeholders+`)
		 ORDER BY applied_at DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications by events: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// UpdateApplicationProcessing records a club's decision on an application.
// processed_at is stamped here so the stored record says when the decision
// landed, not when the page rendered.
func (db *DB) UpdateApplicationProcessing(ctx context.Context, id string, status model.ApplicationStatus, remarks string) error {
	now := time.Now()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE student_applications
		 SET status = ?, club_remarks = ?, processed_at = ?, updated_at = ?
		 WHERE id = ?`,
		status, remarks, now, now, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: processing application %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}

// UpdateApplicationAttachments replaces the application's attachment list.
func (db *DB) UpdateApplicationAttachments(ctx context.Context, id string, attachments []model.Attachment) error {
	encoded, err := marshalAttachments(attachments)
	if err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE student_applications
		 SET attachments = ?, updated_at = ?
		 WHERE id = ?`,
		encoded, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating attachments for application %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}

func marshalAttachments(attachments []model.Attachment) (string, error) {
	if attachments == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding attachments: %w", err)
	}
	return string(encoded), nil
}

func scanApplication(s scanner) (*model.StudentApplication, error) {
	var (
		app         model.StudentApplication
		processedAt sql.NullTime // NULL until the club processes the application
		attachments string
	)

	err := s.Scan(
		&app.ID,
		&app.StudentID,
		&app.StudentName,
		&app.EventID,
		&app.EventTitle,
		&app.ApplicationDetails,
		&app.Status,
		&app.ClubRemarks,
		&app.AppliedAt,
		&processedAt,
		&attachments,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if processedAt.Valid {
		t := processedAt.Time
		app.ProcessedAt = &t
	}
	if err := json.Unmarshal([]byte(attachments), &app.Attachments); err != nil {
		return nil, fmt.Errorf("sqlite: decoding attachments: %w", err)
	}

	return &app, nil
}

func collectApplications(rows *sql.Rows) ([]model.StudentApplication, error) {
	apps := make([]model.StudentApplication, 0, 8)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating applications: %w", err)
	}
	return apps, nil
}
