package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"senior-house/internal/auth"
	"senior-house/internal/models"
	"senior-house/internal/services"
)

// AuthHandler serves sign-up, login, OAuth and the caller's own account.
type AuthHandler struct {
	users     *services.UserService
	providers map[string]auth.Provider
	states    auth.StateStore
}

func NewAuthHandler(users *services.UserService, providers map[string]auth.Provider, states auth.StateStore) *AuthHandler {
	return &AuthHandler{users: users, providers: providers, states: states}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.Registration
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) provider(c *gin.Context) (auth.Provider, bool) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": auth.ErrUnknownProvider.Error()})
	}
	return p, ok
}

// OAuthLogin stores a fresh state and redirects to the provider consent page.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	state := auth.NewState()
	if err := h.states.Save(c.Request.Context(), state, p.Name()); err != nil {
		log.Printf("oauth: state save failed provider=%s err=%v", p.Name(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "cannot start login"})
		return
	}
	c.Redirect(http.StatusFound, p.AuthCodeURL(state))
}

// OAuthCallback validates the state, exchanges the code and signs the user in.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}
	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login cancelled: " + reason})
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}
	valid, err := h.states.Consume(c.Request.Context(), state, p.Name())
	if err != nil {
		log.Printf("oauth: state lookup failed provider=%s err=%v", p.Name(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "cannot verify login"})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	profile, err := p.Profile(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}
	session, err := h.users.SocialLogin(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Me(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UploadBusinessRegistration accepts the "file" form field from company accounts.
func (h *AuthHandler) UploadBusinessRegistration(c *gin.Context) {
	if models.Role(c.GetString("role")) != models.RoleCompany {
		writeError(c, models.Validationf("only company accounts upload a business registration"))
		return
	}
	upload, ok := formFile(c, "file")
	if !ok {
		return
	}
	defer upload.File.Close()

	user, err := h.users.UploadBusinessRegistration(c.Request.Context(), c.GetInt("userID"), upload.Name, upload.ContentType, upload.File)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
