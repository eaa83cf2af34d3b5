package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/services"
)

func TestListManga_Public(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.listMangaOut = []*models.Manga{{MangaID: 1, Name: "Berserk", Slug: "berserk"}}

	w := env.do(t, http.MethodGet, "/api/manga", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "berserk")
}

func TestGetManga_Detail(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.getMangaOut = &services.MangaDetail{
		Manga:     &models.Manga{MangaID: 3, Name: "Berserk", Slug: "berserk"},
		Favorites: 9,
	}

	w := env.do(t, http.MethodGet, "/api/manga/3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(9), decodeBody(t, w)["favorites"])

	env.catalog.getMangaErr = common.ErrorNotFound
	w = env.do(t, http.MethodGet, "/api/manga/99", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateManga_AdminGated(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.createMangaOut = 11
	body := map[string]any{"manga_name": "One Punch", "manga_slug": "one-punch"}

	w := env.do(t, http.MethodPost, "/api/manga", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code, "writes need credentials")

	w = env.do(t, http.MethodPost, "/api/manga", body, map[string]string{"x-api-key": "admin-key"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, float64(11), decodeBody(t, w)["manga_id"])

	env.catalog.createMangaErr = common.ErrorConflict
	w = env.do(t, http.MethodPost, "/api/manga", body, map[string]string{"x-api-key": "admin-key"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestFavorites_OwnRowsOnly(t *testing.T) {
	env := newTestEnv(t)
	env.users.verifyOut = activeUser(5, models.RoleUser)
	hdr := map[string]string{"x-auth-token": "tok"}

	w := env.do(t, http.MethodGet, "/api/favorites", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	env.catalog.listFavOut = []*models.FavoriteManga{{MangaID: 2, Name: "Berserk", Slug: "berserk"}}
	w = env.do(t, http.MethodGet, "/api/favorites", nil, hdr)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/favorites", map[string]any{"manga_id": 2}, hdr)
	require.Equal(t, http.StatusCreated, w.Code)

	env.catalog.addFavErr = common.ErrorConflict
	w = env.do(t, http.MethodPost, "/api/favorites", map[string]any{"manga_id": 2}, hdr)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodDelete, "/api/favorites/2", nil, hdr)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestComments_PublicListingForcesPublished(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/comments?manga_id=3&episode=4&status=pending", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.CommentPublished, env.catalog.lastFilter.Status, "public listing ignores status param")
	require.Equal(t, int64(3), env.catalog.lastFilter.MangaID)
	require.Equal(t, 4, env.catalog.lastFilter.Episode)
}

func TestComments_ModerationQueue(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/comments/moderation", nil, map[string]string{"x-api-key": "admin-key"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.CommentPending, env.catalog.lastFilter.Status)

	w = env.do(t, http.MethodGet, "/api/comments/moderation?status=rejected", nil, map[string]string{"x-api-key": "admin-key"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.CommentRejected, env.catalog.lastFilter.Status)
}

func TestCreateComment_UsesDisplayName(t *testing.T) {
	env := newTestEnv(t)
	name := "Reader One"
	env.users.verifyOut = &models.UserView{UserID: 5, Email: "r@example.com", DisplayName: &name, Role: models.RoleUser}
	env.catalog.createCommentOut = 10

	w := env.do(t, http.MethodPost, "/api/comments", map[string]any{
		"manga_id": 3, "episode": 1, "comment": "great chapter",
	}, map[string]string{"x-auth-token": "tok"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Reader One", env.catalog.lastComment.Commenter)
	require.Equal(t, models.CommentPending, decodeBody(t, w)["status"])
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)

	build := func(field, filename, folder string, payload []byte) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(payload)
		require.NoError(t, err)
		if folder != "" {
			require.NoError(t, mw.WriteField("folder", folder))
		}
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	send := func(body *bytes.Buffer, contentType string, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		env.router.Engine().ServeHTTP(w, req)
		return w
	}
	admin := map[string]string{"x-api-key": "admin-key"}

	// not an image
	body, ct := build("file", "report.pdf", "", []byte("%PDF"))
	w := send(body, ct, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Only image files are allowed", decodeBody(t, w)["error"])

	// traversal in folder
	body, ct = build("file", "cover.png", "../outside", []byte{0x89, 0x50})
	w = send(body, ct, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// unauthenticated
	body, ct = build("file", "cover.png", "", []byte{0x89, 0x50})
	w = send(body, ct, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// success into a folder
	body, ct = build("file", "cover.png", "covers", []byte{0x89, 0x50, 0x4e, 0x47})
	w = send(body, ct, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeBody(t, w)
	saved := filepath.Join(env.cfg.UploadBasePath, "covers", resp["filename"].(string))
	_, err := os.Stat(saved)
	require.NoError(t, err, "uploaded file persisted under the upload root")
}
