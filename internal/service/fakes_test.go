package service

// In-memory fakes for the three repositories.
//
// Using hand-written fakes (not a mock framework) keeps tests dependency-
// free and easy to read — you can see exactly what each fake does. Every
// fake has pluggable error fields so tests can simulate a database failure
// on any individual operation.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
	"github.com/sakif/campus-clubs/internal/repository"
)

// ---------------------------------------------------------------------
// fakeUserRepo

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by internal ID
	byName map[string]*model.User
	nextID int

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*model.User),
		byName: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byName[user.Name]; ok {
		return apperror.Conflict("user", user.Name)
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	f.byName[user.Name] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByName(_ context.Context, name string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, apperror.NotFound("user", name)
	}
	copied := *u
	return &copied, nil
}

// ---------------------------------------------------------------------
// fakeEventRepo

type fakeEventRepo struct {
	events map[string]*model.EventRequest
	nextID int

	createErr error
	getErr    error
	listErr   error
	countErr  error
	updateErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*model.EventRequest)}
}

func (f *fakeEventRepo) CreateEventRequest(_ context.Context, req *model.EventRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	req.ID = fmt.Sprintf("event-%d", f.nextID)
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	if req.Status == "" {
		req.Status = model.EventPending
	}
	stored := *req
	f.events[req.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetEventRequestByID(_ context.Context, id string) (*model.EventRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	req, ok := f.events[id]
	if !ok {
		return nil, apperror.NotFound("event request", id)
	}
	copied := *req
	return &copied, nil
}

func (f *fakeEventRepo) ListEventsByClub(_ context.Context, clubID string) ([]model.EventRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []model.EventRequest
	for _, req := range f.events {
		if req.ClubID == clubID {
			result = append(result, *req)
		}
	}
	sortEventsNewestFirst(result)
	return result, nil
}

func (f *fakeEventRepo) ListEventsByStatus(_ context.Context, status model.EventStatus, opts repository.ListOptions) ([]model.EventRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []model.EventRequest
	for _, req := range f.events {
		if req.Status == status {
			result = append(result, *req)
		}
	}
	sortEventsNewestFirst(result)
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (f *fakeEventRepo) CountEventsByStatus(_ context.Context, clubID string, status model.EventStatus) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, req := range f.events {
		if req.Status == status && (clubID == "" || req.ClubID == clubID) {
			count++
		}
	}
	return count, nil
}

func (f *fakeEventRepo) UpdateEventReview(_ context.Context, id string, status model.EventStatus, remarks string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	req, ok := f.events[id]
	if !ok {
		return apperror.NotFound("event request", id)
	}
	req.Status = status
	req.AuthorityRemarks = remarks
	req.UpdatedAt = time.Now()
	return nil
}

func sortEventsNewestFirst(events []model.EventRequest) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID > events[j].ID
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}

// ---------------------------------------------------------------------
// fakeApplicationRepo

type fakeApplicationRepo struct {
	apps   map[string]*model.StudentApplication
	nextID int

	createErr error
	getErr    error
	listErr   error
	updateErr error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*model.StudentApplication)}
}

func (f *fakeApplicationRepo) CreateApplication(_ context.Context, app *model.StudentApplication) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	app.ID = fmt.Sprintf("app-%d", f.nextID)
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	if app.Status == "" {
		app.Status = model.ApplicationPending
	}
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeApplicationRepo) GetApplicationByID(_ context.Context, id string) (*model.StudentApplication, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	app, ok := f.apps[id]
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationRepo) ListApplicationsByStudent(_ context.Context, studentID string, opts repository.ListOptions) ([]model.StudentApplication, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []model.StudentApplication
	for _, app := range f.apps {
		if app.StudentID == studentID {
			result = append(result, *app)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (f *fakeApplicationRepo) ListApplicationsByEvents(_ context.Context, eventIDs []string) ([]model.StudentApplication, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	wanted := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	var result []model.StudentApplication
	for _, app := range f.apps {
		if wanted[app.EventID] {
			result = append(result, *app)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AppliedAt.After(result[j].AppliedAt)
	})
	return result, nil
}

func (f *fakeApplicationRepo) UpdateApplicationProcessing(_ context.Context, id string, status model.ApplicationStatus, remarks string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	app, ok := f.apps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	now := time.Now()
	app.Status = status
	app.ClubRemarks = remarks
	app.ProcessedAt = &now
	app.UpdatedAt = now
	return nil
}

func (f *fakeApplicationRepo) UpdateApplicationAttachments(_ context.Context, id string, attachments []model.Attachment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	app, ok := f.apps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	app.Attachments = attachments
	app.UpdatedAt = time.Now()
	return nil
}

// ---------------------------------------------------------------------
// shared helpers

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func clubIdentity(id, name string) *auth.Identity {
	return &auth.Identity{ID: id, Name: name, Role: model.RoleClub}
}

func studentIdentity(id, name string) *auth.Identity {
	return &auth.Identity{ID: id, Name: name, Role: model.RoleStudent}
}

// seedApprovedEvent creates an approved event owned by clubID.
func seedApprovedEvent(t *testing.T, repo *fakeEventRepo, clubID, title string) *model.EventRequest {
	t.Helper()
	req := &model.EventRequest{
		ClubID:     clubID,
		ClubName:   "club " + clubID,
		EventTitle: title,
		Status:     model.EventApproved,
		Date:       time.Now().AddDate(0, 1, 0),
	}
	if err := repo.CreateEventRequest(context.Background(), req); err != nil {
		t.Fatalf("seeding event: %v", err)
	}
	return req
}
