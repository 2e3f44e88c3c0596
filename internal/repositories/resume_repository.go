package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// ResumeRepository abstracts resumes and their certificates.
type ResumeRepository interface {
	GetByUser(ctx context.Context, userID int) (models.Resume, error)
	Upsert(ctx context.Context, resume *models.Resume) error
	ListCertificates(ctx context.Context, resumeID int) ([]models.Certificate, error)
	AddCertificate(ctx context.Context, cert *models.Certificate) error
	GetCertificate(ctx context.Context, certID int) (models.Certificate, error)
	DeleteCertificate(ctx context.Context, certID int) error
}

// ResumeRepo is a sqlx implementation of ResumeRepository.
type ResumeRepo struct {
	db sqlx.ExtContext
}

// NewResumeRepo constructs a ResumeRepo.
func NewResumeRepo(db sqlx.ExtContext) *ResumeRepo {
	return &ResumeRepo{db: db}
}

const resumeColumns = `id, user_id, work_monday, work_tuesday, work_wednesday, work_thursday, work_friday,
	work_saturday, work_sunday, work_time, work_time_free_text, interested_jobs, interested_jobs_custom,
	career_status, motivation, extra_requests, is_public, created_at, updated_at`

// GetByUser fetches the resume owned by userID.
func (r *ResumeRepo) GetByUser(ctx context.Context, userID int) (models.Resume, error) {
	var resume models.Resume
	err := sqlx.GetContext(ctx, r.db, &resume, `SELECT `+resumeColumns+` FROM resumes WHERE user_id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resume{}, ErrResumeNotFound
	}
	return resume, err
}

// Upsert creates the user's resume or overwrites the existing one.
func (r *ResumeRepo) Upsert(ctx context.Context, resume *models.Resume) error {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, `INSERT INTO resumes
		(user_id, work_monday, work_tuesday, work_wednesday, work_thursday, work_friday, work_saturday, work_sunday,
		 work_time, work_time_free_text, interested_jobs, interested_jobs_custom, career_status, motivation,
		 extra_requests, is_public)
		VALUES
		(:user_id, :work_monday, :work_tuesday, :work_wednesday, :work_thursday, :work_friday, :work_saturday, :work_sunday,
		 :work_time, :work_time_free_text, :interested_jobs, :interested_jobs_custom, :career_status, :motivation,
		 :extra_requests, :is_public)
		ON CONFLICT (user_id) DO UPDATE SET
		 work_monday=EXCLUDED.work_monday, work_tuesday=EXCLUDED.work_tuesday, work_wednesday=EXCLUDED.work_wednesday,
		 work_thursday=EXCLUDED.work_thursday, work_friday=EXCLUDED.work_friday, work_saturday=EXCLUDED.work_saturday,
		 work_sunday=EXCLUDED.work_sunday, work_time=EXCLUDED.work_time, work_time_free_text=EXCLUDED.work_time_free_text,
		 interested_jobs=EXCLUDED.interested_jobs, interested_jobs_custom=EXCLUDED.interested_jobs_custom,
		 career_status=EXCLUDED.career_status, motivation=EXCLUDED.motivation, extra_requests=EXCLUDED.extra_requests,
		 is_public=EXCLUDED.is_public, updated_at=NOW()
		RETURNING id, created_at, updated_at`, resume)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
}

// ListCertificates returns the certificates of a resume in upload order.
func (r *ResumeRepo) ListCertificates(ctx context.Context, resumeID int) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	err := sqlx.SelectContext(ctx, r.db, &certs, `SELECT id, resume_id, name, image_url, created_at
		FROM certificates WHERE resume_id=$1 ORDER BY created_at ASC, id ASC`, resumeID)
	return certs, err
}

// AddCertificate inserts cert and fills in its generated fields.
func (r *ResumeRepo) AddCertificate(ctx context.Context, cert *models.Certificate) error {
	return r.db.QueryRowxContext(ctx, `INSERT INTO certificates (resume_id, name, image_url)
		VALUES ($1, $2, $3) RETURNING id, created_at`, cert.ResumeID, cert.Name, cert.ImageURL).
		Scan(&cert.ID, &cert.CreatedAt)
}

// GetCertificate fetches a certificate by id.
func (r *ResumeRepo) GetCertificate(ctx context.Context, certID int) (models.Certificate, error) {
	var cert models.Certificate
	err := sqlx.GetContext(ctx, r.db, &cert, `SELECT id, resume_id, name, image_url, created_at
		FROM certificates WHERE id=$1`, certID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Certificate{}, ErrCertificateNotFound
	}
	return cert, err
}

// DeleteCertificate removes a certificate row.
func (r *ResumeRepo) DeleteCertificate(ctx context.Context, certID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM certificates WHERE id=$1`, certID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCertificateNotFound
	}
	return nil
}
