package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"senior-house/internal/config"
	"senior-house/internal/models"
)

func newTestProvider(t *testing.T, profileBody string, decode func([]byte) (models.SocialProfile, error)) (*OAuthProvider, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.Write([]byte(profileBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &OAuthProvider{
		name: "test",
		config: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams},
		},
		profileURL: srv.URL + "/me",
		decode:     decode,
	}, srv
}

func TestProfileNaver(t *testing.T) {
	p, _ := newTestProvider(t, `{"resultcode":"00","response":{"id":"nv-1","name":"홍길동","email":"h@example.com"}}`, decodeNaver)

	profile, err := p.Profile(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "test", profile.Provider)
	assert.Equal(t, "nv-1", profile.SocialID)
	assert.Equal(t, "홍길동", profile.DisplayName)
	assert.Equal(t, "h@example.com", profile.Email)
}

func TestProfileKakao(t *testing.T) {
	p, _ := newTestProvider(t, `{"id":12345,"properties":{"nickname":"카카오"},"kakao_account":{"email":"k@example.com"}}`, decodeKakao)

	profile, err := p.Profile(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "12345", profile.SocialID)
	assert.Equal(t, "카카오", profile.DisplayName)
}

func TestProfileWithoutIDFails(t *testing.T) {
	p, _ := newTestProvider(t, `{"email":"g@example.com"}`, decodeGoogle)

	_, err := p.Profile(context.Background(), "the-code")
	assert.Error(t, err)
}

func TestNewProvidersOnlyConfigured(t *testing.T) {
	providers := NewProviders(config.Config{
		OAuthRedirectBaseURL: "https://jobs.example.com/",
		Naver:                config.OAuthClient{ClientID: "a", ClientSecret: "b"},
	})

	require.Len(t, providers, 1)
	naver := providers[ProviderNaver]
	require.NotNil(t, naver)
	url := naver.AuthCodeURL("xyz")
	assert.Contains(t, url, "https://nid.naver.com/oauth2.0/authorize")
	assert.Contains(t, url, "state=xyz")
	assert.Contains(t, url, "redirect_uri=https%3A%2F%2Fjobs.example.com%2Fauth%2Fnaver%2Fcallback")
}
