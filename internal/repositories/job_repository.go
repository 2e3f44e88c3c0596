package repositories

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// JobRepository abstracts job post persistence and counters.
type JobRepository interface {
	Create(ctx context.Context, post *models.JobPost) error
	Get(ctx context.Context, id int) (models.JobPost, error)
	Update(ctx context.Context, post *models.JobPost) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, filter models.JobFilter) ([]models.JobPost, int, error)
	IncrementViewCount(ctx context.Context, id int) error
	IncrementApplicationCount(ctx context.Context, id int) error
	// SyncBookmarkCount recomputes bookmark_count from job_bookmarks and returns it.
	SyncBookmarkCount(ctx context.Context, id int) (int, error)
}

// JobRepo is a sqlx implementation of JobRepository.
type JobRepo struct {
	db sqlx.ExtContext
}

// NewJobRepo constructs a JobRepo.
func NewJobRepo(db sqlx.ExtContext) *JobRepo {
	return &JobRepo{db: db}
}

var jobColumns = []string{
	"id", "kind", "title", "company", "description", "region", "salary", "recruitment_type",
	"work_period", "recruitment_count", "contact_phone",
	"work_monday", "work_tuesday", "work_wednesday", "work_thursday", "work_friday", "work_saturday", "work_sunday",
	"work_start_time", "work_end_time", "recruitment_start", "recruitment_end",
	"view_count", "application_count", "bookmark_count", "author_id", "created_at", "updated_at",
}

func jobColumnsOf(alias string) []string {
	cols := make([]string, len(jobColumns))
	for i, c := range jobColumns {
		cols[i] = alias + "." + c
	}
	return cols
}

func jobValues(p *models.JobPost) map[string]any {
	return map[string]any{
		"kind":              p.Kind,
		"title":             p.Title,
		"company":           p.Company,
		"description":       p.Description,
		"region":            p.Region,
		"salary":            p.Salary,
		"recruitment_type":  p.RecruitmentType,
		"work_period":       p.WorkPeriod,
		"recruitment_count": p.RecruitmentCount,
		"contact_phone":     p.ContactPhone,
		"work_monday":       p.Monday,
		"work_tuesday":      p.Tuesday,
		"work_wednesday":    p.Wednesday,
		"work_thursday":     p.Thursday,
		"work_friday":       p.Friday,
		"work_saturday":     p.Saturday,
		"work_sunday":       p.Sunday,
		"work_start_time":   p.StartTime,
		"work_end_time":     p.EndTime,
		"recruitment_start": p.RecruitmentStart,
		"recruitment_end":   p.RecruitmentEnd,
	}
}

// Create inserts post and fills in its generated fields.
func (r *JobRepo) Create(ctx context.Context, post *models.JobPost) error {
	values := jobValues(post)
	values["author_id"] = post.AuthorID
	query, args, err := psql.Insert("job_posts").SetMap(values).
		Suffix("RETURNING id, view_count, application_count, bookmark_count, created_at, updated_at").ToSql()
	if err != nil {
		return err
	}
	return r.db.QueryRowxContext(ctx, query, args...).
		Scan(&post.ID, &post.ViewCount, &post.ApplicationCount, &post.BookmarkCount, &post.CreatedAt, &post.UpdatedAt)
}

// Get fetches a post by id.
func (r *JobRepo) Get(ctx context.Context, id int) (models.JobPost, error) {
	query, args, err := psql.Select(jobColumns...).From("job_posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.JobPost{}, err
	}
	var post models.JobPost
	err = sqlx.GetContext(ctx, r.db, &post, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JobPost{}, ErrJobNotFound
	}
	return post, err
}

// Update writes the editable fields of post.
func (r *JobRepo) Update(ctx context.Context, post *models.JobPost) error {
	query, args, err := psql.Update("job_posts").SetMap(jobValues(post)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": post.ID}).
		Suffix("RETURNING updated_at").ToSql()
	if err != nil {
		return err
	}
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrJobNotFound
	}
	return err
}

// Delete removes a post. Bookmarks, applications and rooms cascade.
func (r *JobRepo) Delete(ctx context.Context, id int) error {
	return r.execOne(ctx, `DELETE FROM job_posts WHERE id=$1`, id)
}

// Search returns one page of posts matching filter and the total match count.
func (r *JobRepo) Search(ctx context.Context, filter models.JobFilter) ([]models.JobPost, int, error) {
	countBuilder, pageBuilder := searchBuilders(filter)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query, args, err := pageBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	posts := []models.JobPost{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, query, args...); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func searchBuilders(filter models.JobFilter) (count, page sq.SelectBuilder) {
	filter = filter.Normalize()

	where := sq.And{}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"company": like},
			sq.ILike{"description": like},
		})
	}
	if filter.Region != "" {
		where = append(where, sq.ILike{"region": "%" + filter.Region + "%"})
	}
	if filter.RecruitmentType != "" {
		where = append(where, sq.Eq{"recruitment_type": filter.RecruitmentType})
	}
	if filter.WorkPeriod != "" {
		where = append(where, sq.Eq{"work_period": filter.WorkPeriod})
	}
	if filter.Kind != "" {
		where = append(where, sq.Eq{"kind": filter.Kind})
	}

	count = psql.Select("COUNT(*)").From("job_posts").Where(where)
	page = psql.Select(jobColumns...).From("job_posts").Where(where).
		OrderBy(orderFor(filter.Sort)...).
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage))
	return count, page
}

func orderFor(sort models.JobSort) []string {
	switch sort {
	case models.SortPopular:
		return []string{"(bookmark_count + application_count) DESC", "created_at DESC"}
	case models.SortViews:
		return []string{"view_count DESC", "created_at DESC"}
	}
	return []string{"created_at DESC", "id DESC"}
}

// IncrementViewCount adds one view.
func (r *JobRepo) IncrementViewCount(ctx context.Context, id int) error {
	return r.execOne(ctx, `UPDATE job_posts SET view_count = view_count + 1 WHERE id=$1`, id)
}

// IncrementApplicationCount adds one application.
func (r *JobRepo) IncrementApplicationCount(ctx context.Context, id int) error {
	return r.execOne(ctx, `UPDATE job_posts SET application_count = application_count + 1 WHERE id=$1`, id)
}

// SyncBookmarkCount recomputes the bookmark counter from the join table.
func (r *JobRepo) SyncBookmarkCount(ctx context.Context, id int) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `UPDATE job_posts
		SET bookmark_count = (SELECT COUNT(*) FROM job_bookmarks WHERE job_id=$1)
		WHERE id=$1 RETURNING bookmark_count`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrJobNotFound
	}
	return count, err
}

func (r *JobRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrJobNotFound
	}
	return nil
}
