package models

import "time"

// Resume is a user's single resume.
type Resume struct {
	ID                   int       `db:"id" json:"id"`
	UserID               int       `db:"user_id" json:"user_id"`
	Monday               bool      `db:"work_monday" json:"work_monday"`
	Tuesday              bool      `db:"work_tuesday" json:"work_tuesday"`
	Wednesday            bool      `db:"work_wednesday" json:"work_wednesday"`
	Thursday             bool      `db:"work_thursday" json:"work_thursday"`
	Friday               bool      `db:"work_friday" json:"work_friday"`
	Saturday             bool      `db:"work_saturday" json:"work_saturday"`
	Sunday               bool      `db:"work_sunday" json:"work_sunday"`
	WorkTime             string    `db:"work_time" json:"work_time"`
	WorkTimeFreeText     string    `db:"work_time_free_text" json:"work_time_free_text"`
	InterestedJobs       string    `db:"interested_jobs" json:"interested_jobs"`
	InterestedJobsCustom string    `db:"interested_jobs_custom" json:"interested_jobs_custom"`
	CareerStatus         bool      `db:"career_status" json:"career_status"`
	Motivation           string    `db:"motivation" json:"motivation"`
	ExtraRequests        string    `db:"extra_requests" json:"extra_requests"`
	IsPublic             bool      `db:"is_public" json:"is_public"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`

	Certificates []Certificate `db:"-" json:"certificates"`
}

// Certificate is an uploaded certificate image attached to a resume.
type Certificate struct {
	ID        int       `db:"id" json:"id"`
	ResumeID  int       `db:"resume_id" json:"resume_id"`
	Name      string    `db:"name" json:"name"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ResumeRequest is the editable part of a resume.
type ResumeRequest struct {
	Monday               bool   `json:"work_monday"`
	Tuesday              bool   `json:"work_tuesday"`
	Wednesday            bool   `json:"work_wednesday"`
	Thursday             bool   `json:"work_thursday"`
	Friday               bool   `json:"work_friday"`
	Saturday             bool   `json:"work_saturday"`
	Sunday               bool   `json:"work_sunday"`
	WorkTime             string `json:"work_time"`
	WorkTimeFreeText     string `json:"work_time_free_text"`
	InterestedJobs       string `json:"interested_jobs"`
	InterestedJobsCustom string `json:"interested_jobs_custom"`
	CareerStatus         bool   `json:"career_status"`
	Motivation           string `json:"motivation"`
	ExtraRequests        string `json:"extra_requests"`
	IsPublic             bool   `json:"is_public"`
}

// Validate enforces column lengths.
func (r ResumeRequest) Validate() error {
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"work_time", r.WorkTime, 100},
		{"work_time_free_text", r.WorkTimeFreeText, 200},
		{"interested_jobs", r.InterestedJobs, 100},
		{"interested_jobs_custom", r.InterestedJobsCustom, 100},
	}
	for _, l := range limits {
		if len([]rune(l.value)) > l.max {
			return Validationf("%s is longer than %d characters", l.name, l.max)
		}
	}
	return nil
}

// ApplyTo copies the request onto res.
func (r ResumeRequest) ApplyTo(res *Resume) {
	res.Monday, res.Tuesday, res.Wednesday = r.Monday, r.Tuesday, r.Wednesday
	res.Thursday, res.Friday, res.Saturday, res.Sunday = r.Thursday, r.Friday, r.Saturday, r.Sunday
	res.WorkTime = r.WorkTime
	res.WorkTimeFreeText = r.WorkTimeFreeText
	res.InterestedJobs = r.InterestedJobs
	res.InterestedJobsCustom = r.InterestedJobsCustom
	res.CareerStatus = r.CareerStatus
	res.Motivation = r.Motivation
	res.ExtraRequests = r.ExtraRequests
	res.IsPublic = r.IsPublic
}
