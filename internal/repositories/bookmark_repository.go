package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// BookmarkRepository abstracts saved jobs.
type BookmarkRepository interface {
	Exists(ctx context.Context, userID, jobID int) (bool, error)
	// Add saves the job and reports whether a row was inserted. Saving an
	// already saved job is a no-op.
	Add(ctx context.Context, userID, jobID int) (bool, error)
	Remove(ctx context.Context, userID, jobID int) (bool, error)
	ListJobs(ctx context.Context, userID int, sort models.JobSort) ([]models.JobPost, error)
	BookmarkedAmong(ctx context.Context, userID int, jobIDs []int) (map[int]bool, error)
}

// BookmarkRepo is a sqlx implementation of BookmarkRepository.
type BookmarkRepo struct {
	db sqlx.ExtContext
}

// NewBookmarkRepo constructs a BookmarkRepo.
func NewBookmarkRepo(db sqlx.ExtContext) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

// Exists reports whether the user saved the job.
func (r *BookmarkRepo) Exists(ctx context.Context, userID, jobID int) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists,
		`SELECT EXISTS(SELECT 1 FROM job_bookmarks WHERE user_id=$1 AND job_id=$2)`, userID, jobID)
	return exists, err
}

// addBookmarkQuery skips conflicting rows instead of raising 23505, which
// would abort the surrounding transaction.
func addBookmarkQuery(userID, jobID int) sq.InsertBuilder {
	return psql.Insert("job_bookmarks").
		Columns("user_id", "job_id").
		Values(userID, jobID).
		Suffix("ON CONFLICT ON CONSTRAINT uq_user_job_bookmark DO NOTHING")
}

// Add saves the job.
func (r *BookmarkRepo) Add(ctx context.Context, userID, jobID int) (bool, error) {
	query, args, err := addBookmarkQuery(userID, jobID).ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	return count > 0, err
}

// Remove deletes the bookmark and reports whether one existed.
func (r *BookmarkRepo) Remove(ctx context.Context, userID, jobID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_bookmarks WHERE user_id=$1 AND job_id=$2`, userID, jobID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	return count > 0, err
}

// ListJobs returns the user's saved jobs. SortLatest orders by save time.
func (r *BookmarkRepo) ListJobs(ctx context.Context, userID int, sort models.JobSort) ([]models.JobPost, error) {
	order := []string{"b.created_at DESC"}
	switch sort {
	case models.SortPopular:
		order = []string{"(j.bookmark_count + j.application_count) DESC", "b.created_at DESC"}
	case models.SortViews:
		order = []string{"j.view_count DESC", "b.created_at DESC"}
	}
	query, args, err := psql.Select(jobColumnsOf("j")...).
		From("job_bookmarks b").
		Join("job_posts j ON j.id = b.job_id").
		Where(sq.Eq{"b.user_id": userID}).
		OrderBy(order...).
		ToSql()
	if err != nil {
		return nil, err
	}
	posts := []models.JobPost{}
	err = sqlx.SelectContext(ctx, r.db, &posts, query, args...)
	return posts, err
}

// BookmarkedAmong returns which of jobIDs the user saved, in one query.
func (r *BookmarkRepo) BookmarkedAmong(ctx context.Context, userID int, jobIDs []int) (map[int]bool, error) {
	result := make(map[int]bool, len(jobIDs))
	if len(jobIDs) == 0 {
		return result, nil
	}
	query, args, err := psql.Select("job_id").From("job_bookmarks").
		Where(sq.Eq{"user_id": userID, "job_id": jobIDs}).ToSql()
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, args...); err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
