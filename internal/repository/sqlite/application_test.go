package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

func createTestApplication(t *testing.T, db *DB, studentID, eventID string) *model.StudentApplication {
	t.Helper()
	app := &model.StudentApplication{
		StudentID:          studentID,
		StudentName:        "Ann",
		EventID:            eventID,
		EventTitle:         "Blitz Night",
		ApplicationDetails: "I play blitz every single day.",
	}
	if err := db.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

func TestCreateApplication(t *testing.T) {
	db := newTestDB(t)

	app := createTestApplication(t, db, "stud-1", "event-1")

	if app.ID == "" {
		t.Error("CreateApplication() did not set app.ID")
	}
	if app.Status != model.ApplicationPending {
		t.Errorf("Status = %q, want %q", app.Status, model.ApplicationPending)
	}
	if app.AppliedAt.IsZero() {
		t.Error("CreateApplication() did not set app.AppliedAt")
	}
}

func TestGetApplicationByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestApplication(t, db, "stud-1", "event-1")

	got, err := db.GetApplicationByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID() error = %v", err)
	}

	if got.EventTitle != "Blitz Night" {
		t.Errorf("EventTitle = %q, want %q", got.EventTitle, "Blitz Night")
	}
	if got.ApplicationDetails != created.ApplicationDetails {
		t.Error("ApplicationDetails did not round-trip")
	}
	// Unprocessed applications come back with a nil timestamp, not a zero one.
	if got.ProcessedAt != nil {
		t.Errorf("ProcessedAt = %v, want nil", got.ProcessedAt)
	}
	if got.Attachments == nil || len(got.Attachments) != 0 {
		t.Errorf("Attachments = %v, want empty slice", got.Attachments)
	}
}

func TestGetApplicationByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetApplicationByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetApplicationByID() error = %v, want ErrNotFound", err)
	}
}

func TestListApplicationsByStudent(t *testing.T) {
	db := newTestDB(t)
	createTestApplication(t, db, "stud-1", "event-1")
	createTestApplication(t, db, "stud-1", "event-2")
	createTestApplication(t, db, "stud-2", "event-1")

	got, err := db.ListApplicationsByStudent(context.Background(), "stud-1", repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListApplicationsByStudent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestListApplicationsByStudent_Limit(t *testing.T) {
	db := newTestDB(t)
	for _, event := range []string{"event-1", "event-2", "event-3"} {
		createTestApplication(t, db, "stud-1", event)
	}

	got, err := db.ListApplicationsByStudent(context.Background(), "stud-1", repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListApplicationsByStudent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestListApplicationsByEvents(t *testing.T) {
	db := newTestDB(t)
	createTestApplication(t, db, "stud-1", "event-1")
	createTestApplication(t, db, "stud-2", "event-2")
	createTestApplication(t, db, "stud-3", "event-3")

	got, err := db.ListApplicationsByEvents(context.Background(), []string{"event-1", "event-3"})
	if err != nil {
		t.Fatalf("ListApplicationsByEvents() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, app := range got {
		if app.EventID == "event-2" {
			t.Error("got application for an event that was not asked for")
		}
	}
}

func TestListApplicationsByEvents_Empty(t *testing.T) {
	db := newTestDB(t)
	createTestApplication(t, db, "stud-1", "event-1")

	// No event IDs means no applications — and no malformed IN () query.
	got, err := db.ListApplicationsByEvents(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListApplicationsByEvents() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestUpdateApplicationProcessing(t *testing.T) {
	db := newTestDB(t)
	created := createTestApplication(t, db, "stud-1", "event-1")

	err := db.UpdateApplicationProcessing(context.Background(), created.ID, model.ApplicationApproved, "Welcome aboard")
	if err != nil {
		t.Fatalf("UpdateApplicationProcessing() error = %v", err)
	}

	got, err := db.GetApplicationByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID() error = %v", err)
	}
	if got.Status != model.ApplicationApproved {
		t.Errorf("Status = %q, want %q", got.Status, model.ApplicationApproved)
	}
	if got.ClubRemarks != "Welcome aboard" {
		t.Errorf("ClubRemarks = %q, want %q", got.ClubRemarks, "Welcome aboard")
	}
	if got.ProcessedAt == nil {
		t.Error("ProcessedAt should be set after processing")
	}
}

func TestUpdateApplicationProcessing_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateApplicationProcessing(context.Background(), "no-such-id", model.ApplicationApproved, "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("UpdateApplicationProcessing() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateApplicationAttachments(t *testing.T) {
	db := newTestDB(t)
	created := createTestApplication(t, db, "stud-1", "event-1")

	attachments := []model.Attachment{
		{Name: "cv.pdf", URL: "/photos/cv.pdf", UploadedAt: time.Now().UTC().Truncate(time.Second)},
	}
	if err := db.UpdateApplicationAttachments(context.Background(), created.ID, attachments); err != nil {
		t.Fatalf("UpdateApplicationAttachments() error = %v", err)
	}

	got, err := db.GetApplicationByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetApplicationByID() error = %v", err)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("len(Attachments) = %d, want 1", len(got.Attachments))
	}
	if got.Attachments[0].Name != "cv.pdf" {
		t.Errorf("attachment Name = %q, want %q", got.Attachments[0].Name, "cv.pdf")
	}
}
