package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senior-house/internal/mocks"
	"senior-house/internal/models"
	"senior-house/internal/repositories"
)

func strPtr(s string) *string { return &s }

func generalRequest(title string) models.PostingRequest {
	return models.PostingRequest{
		Kind: models.PostingGeneral,
		General: &models.GeneralPosting{
			Title:           title,
			Description:     "어르신 말벗 및 산책 동행",
			Region:          "서울 마포구",
			RecruitmentType: strPtr(models.RecruitmentFullTime),
		},
	}
}

func companyRequest() models.PostingRequest {
	return models.PostingRequest{
		Kind: models.PostingCompany,
		Company: &models.CompanyPosting{
			Title:       "주간보호센터 조리원",
			Company:     "행복요양원",
			Description: "점심 조리 및 배식",
		},
	}
}

func TestCreateGeneralPostingUsesNickname(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	svc := NewJobService(store, nil)

	post, err := svc.Create(context.Background(), author.ID, generalRequest("말벗 도우미"))
	require.NoError(t, err)
	assert.Equal(t, author.Nickname, post.Company)
	assert.Equal(t, author.ID, post.AuthorID)
	require.NotNil(t, post.WorkPeriod)
	assert.Equal(t, models.WorkPeriodLong, *post.WorkPeriod)
}

func TestCompanyPostingRequiresApprovedCompany(t *testing.T) {
	store := mocks.NewMemStore()
	pending := store.AddUser("대기회사", models.RoleCompany, false)
	approved := store.AddUser("행복요양원", models.RoleCompany, true)
	svc := NewJobService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, pending.ID, companyRequest())
	assert.ErrorIs(t, err, models.ErrCompanyNotVerified)

	post, err := svc.Create(ctx, approved.ID, companyRequest())
	require.NoError(t, err)
	assert.Equal(t, "행복요양원", post.Company)

	_, err = svc.Create(ctx, approved.ID, models.PostingRequest{Kind: models.PostingCompany})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateAndDeletePermissions(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	other := store.AddUser("이영수", models.RoleIndividual, false)
	admin := store.AddUser("관리자", models.RoleAdmin, true)
	svc := NewJobService(store, nil)
	ctx := context.Background()

	post, err := svc.Create(ctx, author.ID, generalRequest("말벗 도우미"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, post.ID, other.ID, generalRequest("수정"))
	assert.ErrorIs(t, err, models.ErrNotJobAuthor)

	updated, err := svc.Update(ctx, post.ID, author.ID, generalRequest("산책 도우미"))
	require.NoError(t, err)
	assert.Equal(t, "산책 도우미", updated.Title)

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, other.ID), models.ErrNotJobAuthor)
	require.NoError(t, svc.Delete(ctx, post.ID, admin.ID))
	_, err = svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, models.ErrJobNotFound)
}

func TestViewIncrementsCounter(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	job := store.AddJob(author.ID, "말벗 도우미")
	svc := NewJobService(store, nil)

	_, err := svc.View(context.Background(), job.ID)
	require.NoError(t, err)
	post, err := svc.View(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, post.ViewCount)

	_, err = svc.View(context.Background(), 9999)
	assert.ErrorIs(t, err, models.ErrJobNotFound)
}

func TestToggleBookmarkKeepsCounterInSync(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	u1 := store.AddUser("이영수", models.RoleIndividual, false)
	u2 := store.AddUser("박민수", models.RoleIndividual, false)
	job := store.AddJob(author.ID, "말벗 도우미")
	svc := NewJobService(store, nil)
	ctx := context.Background()

	res, err := svc.ToggleBookmark(ctx, u1.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookmarkResult{Bookmarked: true, Count: 1}, res)

	res, err = svc.ToggleBookmark(ctx, u2.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	res, err = svc.ToggleBookmark(ctx, u1.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookmarkResult{Bookmarked: false, Count: 1}, res)
	assert.Equal(t, 1, store.Job(job.ID).BookmarkCount)

	marked, err := svc.BookmarkedAmong(ctx, u2.ID, []int{job.ID})
	require.NoError(t, err)
	assert.True(t, marked[job.ID])

	saved, err := svc.ListBookmarks(ctx, u1.ID, models.SortLatest)
	require.NoError(t, err)
	assert.Empty(t, saved)

	_, err = svc.ToggleBookmark(ctx, u1.ID, 9999)
	assert.ErrorIs(t, err, models.ErrJobNotFound)
}

// lateBookmarks commits a concurrent save of the same job between this
// transaction's delete and insert.
type lateBookmarks struct {
	repositories.BookmarkRepository
}

func (b lateBookmarks) Remove(ctx context.Context, userID, jobID int) (bool, error) {
	removed, err := b.BookmarkRepository.Remove(ctx, userID, jobID)
	if err != nil {
		return false, err
	}
	_, err = b.BookmarkRepository.Add(ctx, userID, jobID)
	return removed, err
}

type lateBookmarkStore struct {
	*mocks.MemStore
}

func (s lateBookmarkStore) Bookmarks() repositories.BookmarkRepository {
	return lateBookmarks{s.MemStore.Bookmarks()}
}

func (s lateBookmarkStore) WithTx(ctx context.Context, fn func(repositories.Store) error) error {
	return s.MemStore.WithTx(ctx, func(repositories.Store) error { return fn(s) })
}

func TestToggleBookmarkToleratesConcurrentSave(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	user := store.AddUser("이영수", models.RoleIndividual, false)
	job := store.AddJob(author.ID, "말벗 도우미")
	svc := NewJobService(lateBookmarkStore{store}, nil)

	res, err := svc.ToggleBookmark(context.Background(), user.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookmarkResult{Bookmarked: true, Count: 1}, res)
	assert.Equal(t, 1, store.Job(job.ID).BookmarkCount)
}

func TestSearchNormalizesPaging(t *testing.T) {
	store := mocks.NewMemStore()
	author := store.AddUser("김순자", models.RoleIndividual, false)
	store.AddJob(author.ID, "말벗 도우미")
	store.AddJob(author.ID, "경비원")
	svc := NewJobService(store, nil)

	page, err := svc.Search(context.Background(), models.JobFilter{Query: "경비"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, models.DefaultPerPage, page.PerPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "경비원", page.Items[0].Title)
}
