package models

import (
	"regexp"
	"strings"
	"time"
)

// PostingKind distinguishes postings written by individuals from company postings.
type PostingKind string

const (
	PostingGeneral PostingKind = "general"
	PostingCompany PostingKind = "company"
)

const (
	RecruitmentFullTime = "정규직"
	WorkPeriodLong      = "장기"
)

// JobPost is a stored job posting with its denormalized counters.
type JobPost struct {
	ID               int         `db:"id" json:"id"`
	Kind             PostingKind `db:"kind" json:"kind"`
	Title            string      `db:"title" json:"title"`
	Company          string      `db:"company" json:"company"`
	Description      string      `db:"description" json:"description"`
	Region           *string     `db:"region" json:"region,omitempty"`
	Salary           *string     `db:"salary" json:"salary,omitempty"`
	RecruitmentType  *string     `db:"recruitment_type" json:"recruitment_type,omitempty"`
	WorkPeriod       *string     `db:"work_period" json:"work_period,omitempty"`
	RecruitmentCount *int        `db:"recruitment_count" json:"recruitment_count,omitempty"`
	ContactPhone     *string     `db:"contact_phone" json:"contact_phone,omitempty"`
	Schedule
	RecruitmentStart *time.Time `db:"recruitment_start" json:"recruitment_start,omitempty"`
	RecruitmentEnd   *time.Time `db:"recruitment_end" json:"recruitment_end,omitempty"`
	ViewCount        int        `db:"view_count" json:"view_count"`
	ApplicationCount int        `db:"application_count" json:"application_count"`
	BookmarkCount    int        `db:"bookmark_count" json:"bookmark_count"`
	AuthorID         int        `db:"author_id" json:"author_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Schedule holds the weekly working days and daily hours of a posting.
type Schedule struct {
	Monday    bool    `db:"work_monday" json:"work_monday"`
	Tuesday   bool    `db:"work_tuesday" json:"work_tuesday"`
	Wednesday bool    `db:"work_wednesday" json:"work_wednesday"`
	Thursday  bool    `db:"work_thursday" json:"work_thursday"`
	Friday    bool    `db:"work_friday" json:"work_friday"`
	Saturday  bool    `db:"work_saturday" json:"work_saturday"`
	Sunday    bool    `db:"work_sunday" json:"work_sunday"`
	StartTime *string `db:"work_start_time" json:"work_start_time,omitempty"`
	EndTime   *string `db:"work_end_time" json:"work_end_time,omitempty"`
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func (s Schedule) validate() error {
	for _, t := range []*string{s.StartTime, s.EndTime} {
		if t != nil && *t != "" && !clockPattern.MatchString(*t) {
			return Validationf("work time %q must be HH:MM", *t)
		}
	}
	return nil
}

// GeneralPosting is a posting written by an individual, e.g. a household looking for help.
type GeneralPosting struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Region          string  `json:"region"`
	Salary          *string `json:"salary,omitempty"`
	RecruitmentType *string `json:"recruitment_type,omitempty"`
	WorkPeriod      *string `json:"work_period,omitempty"`
	ContactPhone    *string `json:"contact_phone,omitempty"`
	Schedule
}

// CompanyPosting is a posting by an approved company account.
type CompanyPosting struct {
	Title            string  `json:"title"`
	Company          string  `json:"company"`
	Description      string  `json:"description"`
	Region           *string `json:"region,omitempty"`
	Salary           *string `json:"salary,omitempty"`
	RecruitmentType  *string `json:"recruitment_type,omitempty"`
	WorkPeriod       *string `json:"work_period,omitempty"`
	RecruitmentCount *int    `json:"recruitment_count,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
	RecruitmentStart *string `json:"recruitment_start,omitempty"`
	RecruitmentEnd   *string `json:"recruitment_end,omitempty"`
	Schedule
}

// PostingRequest is the create/update payload. Exactly one of General or Company
// is set and it must match Kind.
type PostingRequest struct {
	Kind    PostingKind     `json:"kind"`
	General *GeneralPosting `json:"general,omitempty"`
	Company *CompanyPosting `json:"company,omitempty"`
}

// Validate checks the shape of the request without looking at the author.
func (r PostingRequest) Validate() error {
	switch r.Kind {
	case PostingGeneral:
		if r.General == nil || r.Company != nil {
			return Validationf("general posting requires the general body only")
		}
		g := r.General
		if blank(g.Title) || blank(g.Description) || blank(g.Region) {
			return Validationf("title, description and region are required")
		}
		return g.Schedule.validate()
	case PostingCompany:
		if r.Company == nil || r.General != nil {
			return Validationf("company posting requires the company body only")
		}
		c := r.Company
		if blank(c.Title) || blank(c.Company) || blank(c.Description) {
			return Validationf("title, company and description are required")
		}
		if c.RecruitmentCount != nil && *c.RecruitmentCount < 1 {
			return Validationf("recruitment_count must be positive")
		}
		start, err := parseDate(c.RecruitmentStart)
		if err != nil {
			return err
		}
		end, err := parseDate(c.RecruitmentEnd)
		if err != nil {
			return err
		}
		if start != nil && end != nil && end.Before(*start) {
			return Validationf("recruitment_end is before recruitment_start")
		}
		return c.Schedule.validate()
	default:
		return Validationf("unknown posting kind %q", r.Kind)
	}
}

// Apply copies the request onto post. author is used for the company name of
// general postings. Validate must have succeeded first.
func (r PostingRequest) Apply(post *JobPost, author User) {
	post.Kind = r.Kind
	switch r.Kind {
	case PostingGeneral:
		g := r.General
		post.Title = strings.TrimSpace(g.Title)
		post.Company = author.Nickname
		post.Description = strings.TrimSpace(g.Description)
		region := strings.TrimSpace(g.Region)
		post.Region = &region
		post.Salary = g.Salary
		post.RecruitmentType = g.RecruitmentType
		post.WorkPeriod = g.WorkPeriod
		post.RecruitmentCount = nil
		post.ContactPhone = g.ContactPhone
		post.Schedule = g.Schedule
		post.RecruitmentStart, post.RecruitmentEnd = nil, nil
	case PostingCompany:
		c := r.Company
		post.Title = strings.TrimSpace(c.Title)
		post.Company = strings.TrimSpace(c.Company)
		post.Description = strings.TrimSpace(c.Description)
		post.Region = c.Region
		post.Salary = c.Salary
		post.RecruitmentType = c.RecruitmentType
		post.WorkPeriod = c.WorkPeriod
		post.RecruitmentCount = c.RecruitmentCount
		post.ContactPhone = c.ContactPhone
		post.Schedule = c.Schedule
		post.RecruitmentStart, _ = parseDate(c.RecruitmentStart)
		post.RecruitmentEnd, _ = parseDate(c.RecruitmentEnd)
	}
	if post.RecruitmentType != nil && *post.RecruitmentType == RecruitmentFullTime {
		long := WorkPeriodLong
		post.WorkPeriod = &long
	}
}

func parseDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, Validationf("date %q must be YYYY-MM-DD", *v)
	}
	return &t, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// JobSort is the ordering of search results.
type JobSort string

const (
	SortLatest  JobSort = "latest"
	SortPopular JobSort = "popular"
	SortViews   JobSort = "views"
)

// ParseJobSort falls back to SortLatest for unknown values.
func ParseJobSort(s string) JobSort {
	switch JobSort(s) {
	case SortPopular, SortViews:
		return JobSort(s)
	}
	return SortLatest
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// JobFilter narrows a job search. Empty fields are ignored.
type JobFilter struct {
	Query           string
	Region          string
	RecruitmentType string
	WorkPeriod      string
	Kind            PostingKind
	Sort            JobSort
	Page            int
	PerPage         int
}

// Normalize clamps paging values.
func (f JobFilter) Normalize() JobFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	if f.Sort == "" {
		f.Sort = SortLatest
	}
	return f
}

// JobPage is one page of search results.
type JobPage struct {
	Items   []JobPost `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// JobBookmark links a user to a saved job.
type JobBookmark struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	JobID     int       `db:"job_id" json:"job_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookmarkResult reports the state after a toggle.
type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
	Count      int  `json:"bookmark_count"`
}
