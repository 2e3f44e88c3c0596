package models

import "time"

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// IsDecision reports whether s is a status an employer may set.
func (s ApplicationStatus) IsDecision() bool {
	return s == StatusAccepted || s == StatusRejected
}

// JobApplication is one user's application to one job.
type JobApplication struct {
	ID        int               `db:"id" json:"id"`
	UserID    int               `db:"user_id" json:"user_id"`
	JobID     int               `db:"job_id" json:"job_id"`
	Status    ApplicationStatus `db:"status" json:"status"`
	Message   *string           `db:"message" json:"message,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationView joins an application with the job title and applicant name for list pages.
type ApplicationView struct {
	JobApplication
	JobTitle          string `db:"job_title" json:"job_title"`
	Company           string `db:"company" json:"company"`
	ApplicantNickname string `db:"applicant_nickname" json:"applicant_nickname"`
}

// ApplicationState answers "did this user apply to this job".
type ApplicationState struct {
	Applied       bool              `json:"applied"`
	ApplicationID int               `json:"application_id,omitempty"`
	Status        ApplicationStatus `json:"status,omitempty"`
	AppliedAt     *time.Time        `json:"applied_at,omitempty"`
}

// StateOf builds the check result for an application row, or the empty state for nil.
func StateOf(app *JobApplication) ApplicationState {
	if app == nil {
		return ApplicationState{}
	}
	at := app.CreatedAt
	return ApplicationState{Applied: true, ApplicationID: app.ID, Status: app.Status, AppliedAt: &at}
}

// ApplyResult is returned by a successful application.
type ApplyResult struct {
	Application JobApplication `json:"application"`
	Room        RoomResult     `json:"room"`
}
