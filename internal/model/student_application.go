package model

import "time"

// ApplicationStatus is the review state of a student's application.
//
// NOTE ON waitlisted:
// The value is part of the stored-data contract and validation accepts it,
// but no action in the app currently produces it. It is kept so existing
// records (and a future waitlist feature) remain representable.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationApproved   ApplicationStatus = "approved"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationWaitlisted ApplicationStatus = "waitlisted"
)

// Valid reports whether s is one of the known application statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationWaitlisted:
		return true
	}
	return false
}

// Validation limits for application fields.
const (
	MinApplicationDetails = 20
	MaxApplicationDetails = 500
	MaxStudentNameLength  = 50
	MaxClubRemarksLength  = 200
)

// Attachment is a file reference attached to an application.
// Stored inline with the application (as a JSON column), not as its own
// table — attachments have no identity of their own and are always read
// together with their application.
type Attachment struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// StudentApplication is a student's application to an approved event,
// reviewed by the club that owns the event.
//
// DENORMALIZATION:
// StudentName and EventTitle are copied in at creation time (EventTitle via
// an explicit enrichment step before persisting). The stored record is
// self-describing: it renders correctly even if the referenced event is
// later altered.
type StudentApplication struct {
	ID                 string            `json:"id"                 db:"id"`
	StudentID          string            `json:"studentId"          db:"student_id"`
	StudentName        string            `json:"studentName"        db:"student_name"`
	EventID            string            `json:"eventId"            db:"event_id"`
	EventTitle         string            `json:"eventTitle"         db:"event_title"`
	ApplicationDetails string            `json:"applicationDetails" db:"application_details"`
	Status             ApplicationStatus `json:"status"             db:"status"`
	ClubRemarks        string            `json:"clubRemarks"        db:"club_remarks"`
	AppliedAt          time.Time         `json:"appliedAt"          db:"applied_at"`
	ProcessedAt        *time.Time        `json:"processedAt"        db:"processed_at"` // nil until processed
	Attachments        []Attachment      `json:"attachments"        db:"attachments"`
	CreatedAt          time.Time         `json:"createdAt"          db:"created_at"`
	UpdatedAt          time.Time         `json:"updatedAt"          db:"updated_at"`
}

// ApplicationWithEvent is the view model produced by the fetch-then-merge
// join in the application workflow: the application plus the event it
// references. Event may be nil if the referenced event no longer resolves.
type ApplicationWithEvent struct {
	StudentApplication
	Event *EventRequest `json:"event"`
}

// ApplicationWithContext additionally carries the applying student —
// used by the club review screen.
type ApplicationWithContext struct {
	StudentApplication
	Event   *EventRequest `json:"event"`
	Student *User         `json:"student"`
}
