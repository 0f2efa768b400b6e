package model

import "time"

// EventStatus is the review state of a club's event request.
//
// LIFECYCLE:
// Every request starts as pending. An authority moves it to exactly one of
// approved, rejected, or changes_requested. Nothing in the app moves a
// request out of those states again, but nothing forbids it either — a
// re-review overwrites the previous decision (last write wins).
type EventStatus string

const (
	EventPending          EventStatus = "pending"
	EventApproved         EventStatus = "approved"
	EventRejected         EventStatus = "rejected"
	EventChangesRequested EventStatus = "changes_requested"
)

// Valid reports whether s is one of the known event statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventPending, EventApproved, EventRejected, EventChangesRequested:
		return true
	}
	return false
}

// EventRequest is a club's proposal for an event, reviewed by an authority.
//
// DENORMALIZATION:
// ClubName is copied from the submitting club's session at creation time.
// That means list views never need a join against users just to show who
// submitted — and the stored record still reads correctly even if club
// naming rules ever change.
type EventRequest struct {
	ID               string      `json:"id"               db:"id"`
	ClubID           string      `json:"clubId"           db:"club_id"`
	ClubName         string      `json:"clubName"         db:"club_name"`
	EventTitle       string      `json:"eventTitle"       db:"event_title"`
	Description      string      `json:"description"      db:"description"`
	Date             time.Time   `json:"date"             db:"date"`
	Status           EventStatus `json:"status"           db:"status"`
	AuthorityRemarks string      `json:"authorityRemarks" db:"authority_remarks"`
	CreatedAt        time.Time   `json:"createdAt"        db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt"        db:"updated_at"`
}
