package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"senior-house/internal/auth"
	"senior-house/internal/mocks"
	"senior-house/internal/models"
	"senior-house/internal/services"
)

type fakeProvider struct {
	profile models.SocialProfile
}

func (p fakeProvider) Name() string { return auth.ProviderKakao }

func (p fakeProvider) AuthCodeURL(state string) string {
	return "https://kauth.example/authorize?state=" + url.QueryEscape(state)
}

func (p fakeProvider) Profile(_ context.Context, code string) (models.SocialProfile, error) {
	if code != "good-code" {
		return models.SocialProfile{}, models.ErrOAuthProvider
	}
	return p.profile, nil
}

type authFixture struct {
	store   *mocks.MemStore
	objects *mocks.ObjectStorageMock
	handler *AuthHandler
	admin   *AdminHandler
}

func newAuthFixture() authFixture {
	store := mocks.NewMemStore()
	objects := new(mocks.ObjectStorageMock)
	users := services.NewUserService(store, auth.NewTokenIssuer("secret", time.Hour), objects, nil)
	providers := map[string]auth.Provider{
		auth.ProviderKakao: fakeProvider{profile: models.SocialProfile{Provider: auth.ProviderKakao, SocialID: "k-1", DisplayName: "이순자"}},
	}
	return authFixture{
		store:   store,
		objects: objects,
		handler: NewAuthHandler(users, providers, auth.NewMemoryStateStore()),
		admin:   NewAdminHandler(users),
	}
}

func (f authFixture) router(userID int, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", f.handler.Register)
	r.POST("/auth/login", f.handler.Login)
	r.GET("/auth/:provider/login", f.handler.OAuthLogin)
	r.GET("/auth/:provider/callback", f.handler.OAuthCallback)
	private := r.Group("/", asUser(userID, role))
	private.GET("/me", f.handler.Me)
	private.POST("/me/business-registration", f.handler.UploadBusinessRegistration)
	private.GET("/admin/companies/pending", f.admin.PendingCompanies)
	private.POST("/admin/companies/:user_id/approve", f.admin.Approve)
	private.POST("/admin/companies/:user_id/reject", f.admin.Reject)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAuthFixture()
	router := f.router(0, "")

	body := `{"username":"grandpa","password":"password123","nickname":"할아버지","role":"individual"}`
	rec := serve(router, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = serve(router, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, http.MethodPost, "/auth/login", `{"username":"grandpa","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var session services.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)

	rec = serve(router, http.MethodPost, "/auth/login", `{"username":"grandpa","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture()

	rec := serve(f.router(0, ""), http.MethodPost, "/auth/register", `{"username":"ab","password":"x","nickname":"n"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthRoundTrip(t *testing.T) {
	f := newAuthFixture()
	router := f.router(0, "")

	rec := serve(router, http.MethodGet, "/auth/kakao/login", "")
	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	rec = serve(router, http.MethodGet, "/auth/kakao/callback?state="+state+"&code=good-code", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var session services.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.Equal(t, "이순자", session.User.Nickname)

	// a state is single use
	rec = serve(router, http.MethodGet, "/auth/kakao/callback?state="+state+"&code=good-code", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthErrors(t *testing.T) {
	f := newAuthFixture()
	router := f.router(0, "")

	rec := serve(router, http.MethodGet, "/auth/myspace/login", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodGet, "/auth/kakao/callback?state=forged&code=good-code", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/auth/kakao/login", "")
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	rec = serve(router, http.MethodGet, "/auth/kakao/callback?state="+location.Query().Get("state")+"&code=bad", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadBusinessRegistrationAndApproval(t *testing.T) {
	f := newAuthFixture()
	company := f.store.AddUser("햇살복지관", models.RoleCompany, false)
	admin := f.store.AddUser("관리자", models.RoleAdmin, false)

	f.objects.On("Upload", mock.Anything, "business_registrations", "reg.pdf", mock.Anything, mock.Anything).
		Return("https://files.example/business_registrations/reg.pdf", nil).Once()

	body, contentType := multipartBody(t, nil, "reg.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/me/business-registration", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router(company.ID, models.RoleCompany).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	f.objects.AssertExpectations(t)

	rec = serve(f.router(company.ID, models.RoleCompany), http.MethodGet, "/admin/companies/pending", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminRouter := f.router(admin.ID, models.RoleAdmin)
	rec = serve(adminRouter, http.MethodGet, "/admin/companies/pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "햇살복지관")

	rec = serve(adminRouter, http.MethodPost, "/admin/companies/"+itoa(company.ID)+"/approve", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(f.router(company.ID, models.RoleCompany), http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_verified":true`)
}

func TestUploadBusinessRegistrationStorageFailure(t *testing.T) {
	f := newAuthFixture()
	company := f.store.AddUser("햇살복지관", models.RoleCompany, false)
	f.objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError).Once()

	body, contentType := multipartBody(t, nil, "reg.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/me/business-registration", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router(company.ID, models.RoleCompany).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
