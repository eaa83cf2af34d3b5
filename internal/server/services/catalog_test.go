package services

import (
	"context"
	"errors"
	"testing"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	commentsrepo "github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
	mangarepo "github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
)

type fakeMangaRepo struct {
	createOut int64
	createErr error
	getOut    *models.Manga
	getErr    error
	listOut   []*models.Manga
	listErr   error
	updateErr error
	deleteErr error
}

func (f *fakeMangaRepo) Create(ctx context.Context, m *models.Manga) (int64, error) {
	return f.createOut, f.createErr
}
func (f *fakeMangaRepo) GetByID(ctx context.Context, mangaID int64) (*models.Manga, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeMangaRepo) List(ctx context.Context) ([]*models.Manga, error) {
	return f.listOut, f.listErr
}
func (f *fakeMangaRepo) Update(ctx context.Context, mangaID int64, upd *mangarepo.MangaUpdate) error {
	return f.updateErr
}
func (f *fakeMangaRepo) Delete(ctx context.Context, mangaID int64) error { return f.deleteErr }

type fakeTagsRepo struct {
	createOut int64
	createErr error
	listOut   []*models.Tag
	listErr   error
	renameErr error
	deleteErr error
}

func (f *fakeTagsRepo) Create(ctx context.Context, name string) (int64, error) {
	return f.createOut, f.createErr
}
func (f *fakeTagsRepo) List(ctx context.Context) ([]*models.Tag, error) {
	return f.listOut, f.listErr
}
func (f *fakeTagsRepo) Rename(ctx context.Context, tagID int64, name string) error {
	return f.renameErr
}
func (f *fakeTagsRepo) Delete(ctx context.Context, tagID int64) error { return f.deleteErr }

type fakeCommentsRepo struct {
	createOut  int64
	createErr  error
	lastStored *models.Comment
	listOut    []*models.Comment
	listErr    error
	lastFilter commentsrepo.Filter
	statusErr  error
	lastStatus string
	deleteErr  error
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (int64, error) {
	f.lastStored = c
	return f.createOut, f.createErr
}
func (f *fakeCommentsRepo) List(ctx context.Context, flt commentsrepo.Filter) ([]*models.Comment, error) {
	f.lastFilter = flt
	return f.listOut, f.listErr
}
func (f *fakeCommentsRepo) SetStatus(ctx context.Context, commentID int64, status string) error {
	f.lastStatus = status
	return f.statusErr
}
func (f *fakeCommentsRepo) Delete(ctx context.Context, commentID int64) error { return f.deleteErr }

type fakeFavoritesRepo struct {
	addErr    error
	listOut   []*models.FavoriteManga
	listErr   error
	removeErr error
	countOut  int64
	countErr  error
}

func (f *fakeFavoritesRepo) Add(ctx context.Context, userID, mangaID int64) error { return f.addErr }
func (f *fakeFavoritesRepo) ListForUser(ctx context.Context, userID int64) ([]*models.FavoriteManga, error) {
	return f.listOut, f.listErr
}
func (f *fakeFavoritesRepo) Remove(ctx context.Context, userID, mangaID int64) error {
	return f.removeErr
}
func (f *fakeFavoritesRepo) CountForManga(ctx context.Context, mangaID int64) (int64, error) {
	return f.countOut, f.countErr
}

func newCatalogService(t *testing.T, rm *fakeRepoManager) *CatalogService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	return NewCatalogService(db, rm, nil)
}

func TestCreateManga_Validation(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{m: &fakeMangaRepo{}})

	if _, err := s.CreateManga(context.Background(), &models.Manga{Slug: "x"}); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("missing name: want ErrorValidation, got %v", err)
	}
	if _, err := s.CreateManga(context.Background(), &models.Manga{Name: "x"}); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("missing slug: want ErrorValidation, got %v", err)
	}
}

func TestCreateManga_DuplicateSlug(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{m: &fakeMangaRepo{createErr: common.ErrorConflict}})

	_, err := s.CreateManga(context.Background(), &models.Manga{Name: "One Punch", Slug: "one-punch"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
}

func TestGetManga_WithFavoriteCount(t *testing.T) {
	rm := &fakeRepoManager{
		m: &fakeMangaRepo{getOut: &models.Manga{MangaID: 3, Name: "Berserk", Slug: "berserk"}},
		f: &fakeFavoritesRepo{countOut: 12},
	}
	s := newCatalogService(t, rm)

	d, err := s.GetManga(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetManga error: %v", err)
	}
	if d.MangaID != 3 || d.Favorites != 12 {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestGetManga_NotFound(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{m: &fakeMangaRepo{getErr: common.ErrorNotFound}})

	if _, err := s.GetManga(context.Background(), 99); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreateComment_ForcesPending(t *testing.T) {
	repo := &fakeCommentsRepo{createOut: 10}
	s := newCatalogService(t, &fakeRepoManager{c: repo})

	c := &models.Comment{MangaID: 1, Episode: 2, Commenter: "reader", Comment: "great", Status: models.CommentPublished}
	id, err := s.CreateComment(context.Background(), c)
	if err != nil || id != 10 {
		t.Fatalf("CreateComment: got (%d, %v)", id, err)
	}
	if repo.lastStored.Status != models.CommentPending {
		t.Fatalf("new comments must enter moderation pending, got %q", repo.lastStored.Status)
	}
}

func TestCreateComment_Validation(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{c: &fakeCommentsRepo{}})

	cases := []*models.Comment{
		{Episode: 1, Commenter: "r", Comment: "c"},
		{MangaID: 1, Commenter: "r", Comment: "c"},
		{MangaID: 1, Episode: 1, Comment: "c"},
		{MangaID: 1, Episode: 1, Commenter: "r"},
	}
	for i, c := range cases {
		if _, err := s.CreateComment(context.Background(), c); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("case %d: want ErrorValidation, got %v", i, err)
		}
	}
}

func TestSetCommentStatus(t *testing.T) {
	repo := &fakeCommentsRepo{}
	s := newCatalogService(t, &fakeRepoManager{c: repo})

	if err := s.SetCommentStatus(context.Background(), 1, "bogus"); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("bogus status: want ErrorValidation, got %v", err)
	}
	if err := s.SetCommentStatus(context.Background(), 1, models.CommentPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if repo.lastStatus != models.CommentPublished {
		t.Fatalf("status not forwarded: %q", repo.lastStatus)
	}
}

func TestFavorites_ConflictAndNotFound(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{f: &fakeFavoritesRepo{addErr: common.ErrorConflict}})
	if err := s.AddFavorite(context.Background(), 1, 2); !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("double favorite: want ErrorConflict, got %v", err)
	}

	s = newCatalogService(t, &fakeRepoManager{f: &fakeFavoritesRepo{removeErr: common.ErrorNotFound}})
	if err := s.RemoveFavorite(context.Background(), 1, 2); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("absent favorite: want ErrorNotFound, got %v", err)
	}
}

func TestRenameTag_Validation(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{t: &fakeTagsRepo{}})
	if err := s.RenameTag(context.Background(), 1, "  "); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestListManga_InternalOnRepoError(t *testing.T) {
	s := newCatalogService(t, &fakeRepoManager{m: &fakeMangaRepo{listErr: errBoom{}}})
	if _, err := s.ListManga(context.Background()); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}
