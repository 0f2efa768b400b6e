package service

import (
	"context"
	"log/slog"

	"github.com/sakif/campus-clubs/internal/auth"
	"github.com/sakif/campus-clubs/internal/model"
)

// dashboardRecentLimit caps the "recent" lists on the student dashboard.
const dashboardRecentLimit = 3

// DashboardData is the role-scoped summary a dashboard page renders.
// Only the fields for the viewer's role are populated; the rest stay at
// their zero values and the template ignores them.
type DashboardData struct {
	// Club
	Requests     []model.EventRequest // the club's own requests, all statuses
	PendingCount int                  // the club's requests awaiting review

	// Student
	RecentEvents       []model.EventRequest         // newest approved events
	RecentApplications []model.ApplicationWithEvent // the student's newest applications

	// Authority
	PendingRequests []model.EventRequest // all requests awaiting review
	PendingTotal    int                  // count of the above, across all clubs
}

// DashboardService composes role-scoped summary views from the two
// workflows. Pure read composition — nothing here mutates.
//
// ROLE DISPATCH TABLE:
// Each role maps to its own fetch function in an explicit table, built
// once in the constructor. Adding a dashboard for a new role means adding
// a row here — the authorization gate and the handlers don't change.
type DashboardService struct {
	events       *EventService
	applications *ApplicationService
	logger       *slog.Logger
	fetch        map[model.Role]func(context.Context, *auth.Identity) *DashboardData
}

// NewDashboardService creates a DashboardService and wires the dispatch table.
func NewDashboardService(events *EventService, applications *ApplicationService, logger *slog.Logger) *DashboardService {
	s := &DashboardService{
		events:       events,
		applications: applications,
		logger:       logger,
	}
	s.fetch = map[model.Role]func(context.Context, *auth.Identity) *DashboardData{
		model.RoleClub:      s.clubDashboard,
		model.RoleStudent:   s.studentDashboard,
		model.RoleAuthority: s.authorityDashboard,
	}
	return s
}

// ForRole returns the dashboard data for the identity's role.
//
// DEGRADED, NEVER BROKEN:
// A dashboard is a convenience view. Any fetch failure is logged and the
// corresponding section renders empty — a database hiccup should not turn
// the landing page into a 500.
func (s *DashboardService) ForRole(ctx context.Context, id *auth.Identity) *DashboardData {
	fetch, ok := s.fetch[id.Role]
	if !ok {
		s.logger.Warn("no dashboard for role", slog.String("role", string(id.Role)))
		return &DashboardData{}
	}
	return fetch(ctx, id)
}

func (s *DashboardService) clubDashboard(ctx context.Context, id *auth.Identity) *DashboardData {
	data := &DashboardData{}

	requests, err := s.events.ListForClub(ctx, id.ID)
	if err != nil {
		s.logger.Error("dashboard: club requests", slog.String("clubID", id.ID), slog.String("error", err.Error()))
	} else {
		data.Requests = requests
	}

	count, err := s.events.CountPending(ctx, id.ID)
	if err != nil {
		s.logger.Error("dashboard: club pending count", slog.String("clubID", id.ID), slog.String("error", err.Error()))
	} else {
		data.PendingCount = count
	}

	return data
}

func (s *DashboardService) studentDashboard(ctx context.Context, id *auth.Identity) *DashboardData {
	data := &DashboardData{}

	events, err := s.events.RecentApproved(ctx, dashboardRecentLimit)
	if err != nil {
		s.logger.Error("dashboard: recent events", slog.String("error", err.Error()))
	} else {
		data.RecentEvents = events
	}

	apps, err := s.applications.ListForStudent(ctx, id.ID, dashboardRecentLimit)
	if err != nil {
		s.logger.Error("dashboard: student applications", slog.String("studentID", id.ID), slog.String("error", err.Error()))
	} else {
		data.RecentApplications = apps
	}

	return data
}

func (s *DashboardService) authorityDashboard(ctx context.Context, id *auth.Identity) *DashboardData {
	data := &DashboardData{}

	pending, err := s.events.ListPending(ctx)
	if err != nil {
		s.logger.Error("dashboard: pending requests", slog.String("error", err.Error()))
	} else {
		data.PendingRequests = pending
	}

	total, err := s.events.CountPendingAll(ctx)
	if err != nil {
		s.logger.Error("dashboard: pending total", slog.String("error", err.Error()))
	} else {
		data.PendingTotal = total
	}

	return data
}
