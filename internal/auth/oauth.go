package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"senior-house/internal/config"
	"senior-house/internal/models"
)

const (
	ProviderGoogle = "google"
	ProviderNaver  = "naver"
	ProviderKakao  = "kakao"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// Provider exchanges an authorization code for the signed-in account's profile.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (models.SocialProfile, error)
}

// OAuthProvider is a Provider backed by an oauth2.Config and a JSON profile endpoint.
type OAuthProvider struct {
	name       string
	config     *oauth2.Config
	profileURL string
	decode     func([]byte) (models.SocialProfile, error)
}

func (p *OAuthProvider) Name() string { return p.name }

// AuthCodeURL returns the provider consent page URL carrying state.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Profile exchanges code and loads the user profile.
func (p *OAuthProvider) Profile(ctx context.Context, code string) (models.SocialProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return models.SocialProfile{}, fmt.Errorf("%s: exchange code: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return models.SocialProfile{}, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return models.SocialProfile{}, fmt.Errorf("%s: fetch profile: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.SocialProfile{}, fmt.Errorf("%s: read profile: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.SocialProfile{}, fmt.Errorf("%s: profile status %d", p.name, resp.StatusCode)
	}

	profile, err := p.decode(body)
	if err != nil {
		return models.SocialProfile{}, fmt.Errorf("%s: decode profile: %w", p.name, err)
	}
	if profile.SocialID == "" {
		return models.SocialProfile{}, fmt.Errorf("%s: profile without id", p.name)
	}
	profile.Provider = p.name
	return profile, nil
}

var (
	naverEndpoint = oauth2.Endpoint{
		AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
		TokenURL:  "https://nid.naver.com/oauth2.0/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:   "https://kauth.kakao.com/oauth/authorize",
		TokenURL:  "https://kauth.kakao.com/oauth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
)

// NewProviders builds the providers whose credentials are configured.
func NewProviders(cfg config.Config) map[string]Provider {
	base := strings.TrimRight(cfg.OAuthRedirectBaseURL, "/")
	redirect := func(name string) string { return base + "/auth/" + name + "/callback" }

	providers := map[string]Provider{}
	if cfg.Google.Enabled() {
		providers[ProviderGoogle] = &OAuthProvider{
			name: ProviderGoogle,
			config: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  redirect(ProviderGoogle),
				Scopes:       []string{"openid", "email", "profile"},
			},
			profileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			decode:     decodeGoogle,
		}
	}
	if cfg.Naver.Enabled() {
		providers[ProviderNaver] = &OAuthProvider{
			name: ProviderNaver,
			config: &oauth2.Config{
				ClientID:     cfg.Naver.ClientID,
				ClientSecret: cfg.Naver.ClientSecret,
				Endpoint:     naverEndpoint,
				RedirectURL:  redirect(ProviderNaver),
			},
			profileURL: "https://openapi.naver.com/v1/nid/me",
			decode:     decodeNaver,
		}
	}
	if cfg.Kakao.Enabled() {
		providers[ProviderKakao] = &OAuthProvider{
			name: ProviderKakao,
			config: &oauth2.Config{
				ClientID:     cfg.Kakao.ClientID,
				ClientSecret: cfg.Kakao.ClientSecret,
				Endpoint:     kakaoEndpoint,
				RedirectURL:  redirect(ProviderKakao),
			},
			profileURL: "https://kapi.kakao.com/v2/user/me",
			decode:     decodeKakao,
		}
	}
	return providers
}

func decodeGoogle(body []byte) (models.SocialProfile, error) {
	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.SocialProfile{}, err
	}
	return models.SocialProfile{SocialID: payload.ID, DisplayName: payload.Name, Email: payload.Email}, nil
}

func decodeNaver(body []byte) (models.SocialProfile, error) {
	var payload struct {
		ResultCode string `json:"resultcode"`
		Response   struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Nickname string `json:"nickname"`
			Email    string `json:"email"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.SocialProfile{}, err
	}
	if payload.ResultCode != "" && payload.ResultCode != "00" {
		return models.SocialProfile{}, fmt.Errorf("resultcode %s", payload.ResultCode)
	}
	name := payload.Response.Nickname
	if name == "" {
		name = payload.Response.Name
	}
	return models.SocialProfile{SocialID: payload.Response.ID, DisplayName: name, Email: payload.Response.Email}, nil
}

func decodeKakao(body []byte) (models.SocialProfile, error) {
	var payload struct {
		ID         int64 `json:"id"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.SocialProfile{}, err
	}
	if payload.ID == 0 {
		return models.SocialProfile{}, nil
	}
	name := payload.Account.Profile.Nickname
	if name == "" {
		name = payload.Properties.Nickname
	}
	return models.SocialProfile{
		SocialID:    strconv.FormatInt(payload.ID, 10),
		DisplayName: name,
		Email:       payload.Account.Email,
	}, nil
}
