package services

import (
	"context"
	"fmt"

	"senior-house/internal/models"
	"senior-house/internal/repositories"
	"senior-house/internal/telemetry"
)

// JobService manages postings, search and bookmarks.
type JobService struct {
	store repositories.Store
	audit *telemetry.AuditEmitter
}

func NewJobService(store repositories.Store, audit *telemetry.AuditEmitter) *JobService {
	return &JobService{store: store, audit: audit}
}

func (s *JobService) author(ctx context.Context, userID int, kind models.PostingKind) (models.User, error) {
	author, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return models.User{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}
	if kind == models.PostingCompany && !author.CanPostCompanyJobs() {
		return models.User{}, models.ErrCompanyNotVerified
	}
	return author, nil
}

// Create stores a new posting written by authorID.
func (s *JobService) Create(ctx context.Context, authorID int, req models.PostingRequest) (models.JobPost, error) {
	if err := req.Validate(); err != nil {
		return models.JobPost{}, err
	}
	author, err := s.author(ctx, authorID, req.Kind)
	if err != nil {
		return models.JobPost{}, err
	}

	post := models.JobPost{AuthorID: authorID}
	req.Apply(&post, author)
	if err := s.store.Jobs().Create(ctx, &post); err != nil {
		return models.JobPost{}, fmt.Errorf("create job: %w", err)
	}

	s.audit.Record(ctx, telemetry.AuditRecord{Action: "job_created", Target: fmt.Sprintf("job:%d", post.ID), Text: post.Title, UserID: authorID})
	return post, nil
}

// Update replaces the posting's content. Only the author may edit; counters are kept.
func (s *JobService) Update(ctx context.Context, jobID, userID int, req models.PostingRequest) (models.JobPost, error) {
	if err := req.Validate(); err != nil {
		return models.JobPost{}, err
	}
	post, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return models.JobPost{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	if post.AuthorID != userID {
		return models.JobPost{}, models.ErrNotJobAuthor
	}
	author, err := s.author(ctx, userID, req.Kind)
	if err != nil {
		return models.JobPost{}, err
	}

	req.Apply(&post, author)
	if err := s.store.Jobs().Update(ctx, &post); err != nil {
		return models.JobPost{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	return post, nil
}

// Delete removes a posting. The author or an admin may delete.
func (s *JobService) Delete(ctx context.Context, jobID, userID int) error {
	post, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	if post.AuthorID != userID {
		user, err := s.store.Users().GetByID(ctx, userID)
		if err != nil {
			return mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
		}
		if user.Role != models.RoleAdmin {
			return models.ErrNotJobAuthor
		}
	}
	if err := s.store.Jobs().Delete(ctx, jobID); err != nil {
		return mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}

	s.audit.Record(ctx, telemetry.AuditRecord{Action: "job_deleted", Target: fmt.Sprintf("job:%d", jobID), Text: post.Title, UserID: userID})
	return nil
}

// View counts a detail page view and returns the posting.
func (s *JobService) View(ctx context.Context, jobID int) (models.JobPost, error) {
	if err := s.store.Jobs().IncrementViewCount(ctx, jobID); err != nil {
		return models.JobPost{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	return s.Get(ctx, jobID)
}

func (s *JobService) Get(ctx context.Context, jobID int) (models.JobPost, error) {
	post, err := s.store.Jobs().Get(ctx, jobID)
	if err != nil {
		return models.JobPost{}, mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
	}
	return post, nil
}

// Search returns one page of postings matching filter.
func (s *JobService) Search(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	filter = filter.Normalize()
	items, total, err := s.store.Jobs().Search(ctx, filter)
	if err != nil {
		return models.JobPage{}, err
	}
	if items == nil {
		items = []models.JobPost{}
	}
	return models.JobPage{Items: items, Total: total, Page: filter.Page, PerPage: filter.PerPage}, nil
}

// ToggleBookmark saves or unsaves a job and recounts bookmark_count from the
// bookmark rows in the same transaction.
func (s *JobService) ToggleBookmark(ctx context.Context, userID, jobID int) (models.BookmarkResult, error) {
	if _, err := s.Get(ctx, jobID); err != nil {
		return models.BookmarkResult{}, err
	}

	var result models.BookmarkResult
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		removed, err := tx.Bookmarks().Remove(ctx, userID, jobID)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := tx.Bookmarks().Add(ctx, userID, jobID); err != nil {
				return err
			}
		}
		count, err := tx.Jobs().SyncBookmarkCount(ctx, jobID)
		if err != nil {
			return mapNotFound(err, repositories.ErrJobNotFound, models.ErrJobNotFound)
		}
		result = models.BookmarkResult{Bookmarked: !removed, Count: count}
		return nil
	})
	return result, err
}

// ListBookmarks returns the jobs userID saved.
func (s *JobService) ListBookmarks(ctx context.Context, userID int, sort models.JobSort) ([]models.JobPost, error) {
	jobs, err := s.store.Bookmarks().ListJobs(ctx, userID, sort)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.JobPost{}
	}
	return jobs, nil
}

// BookmarkedAmong marks which of jobIDs userID saved.
func (s *JobService) BookmarkedAmong(ctx context.Context, userID int, jobIDs []int) (map[int]bool, error) {
	if userID == 0 || len(jobIDs) == 0 {
		return map[int]bool{}, nil
	}
	return s.store.Bookmarks().BookmarkedAmong(ctx, userID, jobIDs)
}
