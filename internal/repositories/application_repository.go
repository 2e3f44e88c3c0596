package repositories

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// ApplicationRepository abstracts job application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	Get(ctx context.Context, id int) (models.JobApplication, error)
	// FindByUserAndJob returns nil when the user has not applied.
	FindByUserAndJob(ctx context.Context, userID, jobID int) (*models.JobApplication, error)
	ListByUserForJobs(ctx context.Context, userID int, jobIDs []int) ([]models.JobApplication, error)
	// UpdateStatus decides a pending application. It returns ErrApplicationDecided
	// when the row is no longer pending.
	UpdateStatus(ctx context.Context, id int, status models.ApplicationStatus) (models.JobApplication, error)
	ListForUser(ctx context.Context, userID int) ([]models.ApplicationView, error)
	ListForJob(ctx context.Context, jobID int) ([]models.ApplicationView, error)
}

// ApplicationRepo is a sqlx implementation of ApplicationRepository.
type ApplicationRepo struct {
	db sqlx.ExtContext
}

// NewApplicationRepo constructs an ApplicationRepo.
func NewApplicationRepo(db sqlx.ExtContext) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

const applicationColumns = `id, user_id, job_id, status, message, created_at, updated_at`

// Create inserts a pending application. A second application by the same user
// to the same job returns ErrDuplicate.
func (r *ApplicationRepo) Create(ctx context.Context, app *models.JobApplication) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO job_applications (user_id, job_id, status, message)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		app.UserID, app.JobID, app.Status, app.Message).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	return translate(err)
}

// Get fetches an application by id.
func (r *ApplicationRepo) Get(ctx context.Context, id int) (models.JobApplication, error) {
	var app models.JobApplication
	err := sqlx.GetContext(ctx, r.db, &app, `SELECT `+applicationColumns+` FROM job_applications WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobApplication{}, ErrApplicationNotFound
	}
	return app, err
}

// FindByUserAndJob uses the (user_id, job_id) unique index.
func (r *ApplicationRepo) FindByUserAndJob(ctx context.Context, userID, jobID int) (*models.JobApplication, error) {
	var app models.JobApplication
	err := sqlx.GetContext(ctx, r.db, &app,
		`SELECT `+applicationColumns+` FROM job_applications WHERE user_id=$1 AND job_id=$2`, userID, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByUserForJobs returns the user's applications among jobIDs in one query.
func (r *ApplicationRepo) ListByUserForJobs(ctx context.Context, userID int, jobIDs []int) ([]models.JobApplication, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	query, args, err := psql.Select(applicationColumns).From("job_applications").
		Where(sq.Eq{"user_id": userID, "job_id": jobIDs}).ToSql()
	if err != nil {
		return nil, err
	}
	var apps []models.JobApplication
	err = sqlx.SelectContext(ctx, r.db, &apps, query, args...)
	return apps, err
}

// UpdateStatus sets the status of a pending application and bumps updated_at.
// The pending guard is part of the UPDATE so two concurrent decisions cannot
// both win.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int, status models.ApplicationStatus) (models.JobApplication, error) {
	var app models.JobApplication
	err := sqlx.GetContext(ctx, r.db, &app, `UPDATE job_applications SET status=$2, updated_at=NOW()
		WHERE id=$1 AND status=$3 RETURNING `+applicationColumns, id, status, models.StatusPending)
	if !errors.Is(err, sql.ErrNoRows) {
		return app, err
	}
	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists, `SELECT EXISTS(SELECT 1 FROM job_applications WHERE id=$1)`, id); err != nil {
		return models.JobApplication{}, err
	}
	if !exists {
		return models.JobApplication{}, ErrApplicationNotFound
	}
	return models.JobApplication{}, ErrApplicationDecided
}

const applicationViewSelect = `SELECT a.id, a.user_id, a.job_id, a.status, a.message, a.created_at, a.updated_at,
	j.title AS job_title, j.company, u.nickname AS applicant_nickname
	FROM job_applications a
	JOIN job_posts j ON j.id = a.job_id
	JOIN users u ON u.id = a.user_id`

// ListForUser returns the user's applications, newest first.
func (r *ApplicationRepo) ListForUser(ctx context.Context, userID int) ([]models.ApplicationView, error) {
	views := []models.ApplicationView{}
	err := sqlx.SelectContext(ctx, r.db, &views, applicationViewSelect+` WHERE a.user_id=$1 ORDER BY a.created_at DESC`, userID)
	return views, err
}

// ListForJob returns the applications received by a job, newest first.
func (r *ApplicationRepo) ListForJob(ctx context.Context, jobID int) ([]models.ApplicationView, error) {
	views := []models.ApplicationView{}
	err := sqlx.SelectContext(ctx, r.db, &views, applicationViewSelect+` WHERE a.job_id=$1 ORDER BY a.created_at DESC`, jobID)
	return views, err
}
