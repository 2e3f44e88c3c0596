package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"senior-house/internal/models"
	"senior-house/internal/repositories"
	"senior-house/internal/storage"
	"senior-house/internal/telemetry"
)

const businessRegistrationPrefix = "business_registrations"

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (string, error)
}

// Registration is the local sign-up payload.
type Registration struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Nickname string      `json:"nickname"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Role     models.Role `json:"role"`
}

func (r Registration) validate() error {
	if len([]rune(strings.TrimSpace(r.Username))) < 4 {
		return models.Validationf("username must be at least 4 characters")
	}
	if len(r.Password) < 8 {
		return models.Validationf("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.Nickname) == "" {
		return models.Validationf("nickname is required")
	}
	if r.Role != models.RoleIndividual && r.Role != models.RoleCompany {
		return models.Validationf("role must be individual or company")
	}
	return nil
}

// Session is what a successful login returns.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UserService handles accounts, login and company approval.
type UserService struct {
	store   repositories.Store
	tokens  TokenIssuer
	objects storage.ObjectStorage
	audit   *telemetry.AuditEmitter
}

func NewUserService(store repositories.Store, tokens TokenIssuer, objects storage.ObjectStorage, audit *telemetry.AuditEmitter) *UserService {
	return &UserService{store: store, tokens: tokens, objects: objects, audit: audit}
}

// Register creates a local account. Company accounts start unverified.
func (s *UserService) Register(ctx context.Context, reg Registration) (models.User, error) {
	if reg.Role == "" {
		reg.Role = models.RoleIndividual
	}
	if err := reg.validate(); err != nil {
		return models.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	username := strings.TrimSpace(reg.Username)
	hashed := string(hash)
	user := models.User{
		Username:     &username,
		PasswordHash: &hashed,
		Nickname:     strings.TrimSpace(reg.Nickname),
		Name:         optional(reg.Name),
		Email:        optional(reg.Email),
		Phone:        optional(reg.Phone),
		Role:         reg.Role,
	}
	if err := s.store.Users().Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ctx, telemetry.AuditRecord{Action: "user_registered", Text: string(user.Role), UserID: user.ID})
	return user, nil
}

// Login checks a local password and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return Session{}, models.ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		s.audit.Record(ctx, telemetry.AuditRecord{Level: telemetry.LevelWarn, Action: "login_failed", UserID: user.ID})
		return Session{}, models.ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *UserService) session(user models.User) (Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// SocialLogin finds or creates the account for an OAuth profile and issues a token.
func (s *UserService) SocialLogin(ctx context.Context, profile models.SocialProfile) (Session, error) {
	user, err := s.FindOrCreateSocial(ctx, profile)
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// FindOrCreateSocial keys accounts by (provider, social id) only.
func (s *UserService) FindOrCreateSocial(ctx context.Context, profile models.SocialProfile) (models.User, error) {
	if profile.Provider == "" || profile.SocialID == "" {
		return models.User{}, models.Validationf("social profile without id")
	}
	user, err := s.store.Users().GetBySocial(ctx, profile.Provider, profile.SocialID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, err
	}

	nickname := strings.TrimSpace(profile.DisplayName)
	if nickname == "" {
		nickname = profile.Provider + " 사용자"
	}
	provider, socialID := profile.Provider, profile.SocialID
	user = models.User{
		Nickname:   nickname,
		Email:      optional(profile.Email),
		Role:       models.RoleIndividual,
		SocialType: &provider,
		SocialID:   &socialID,
	}
	if err := s.store.Users().Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// another callback for the same account won the insert
			return s.store.Users().GetBySocial(ctx, provider, socialID)
		}
		return models.User{}, fmt.Errorf("create social user: %w", err)
	}

	s.audit.Record(ctx, telemetry.AuditRecord{Action: "user_registered", Target: provider, UserID: user.ID})
	return user, nil
}

// Me returns the caller's own account.
func (s *UserService) Me(ctx context.Context, userID int) (models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return models.User{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}
	return user, nil
}

// UploadBusinessRegistration stores the document and puts the account into
// the company approval queue. The object is removed again when the account
// update fails.
func (s *UserService) UploadBusinessRegistration(ctx context.Context, userID int, filename, contentType string, body io.Reader) (models.User, error) {
	fileURL, err := s.objects.Upload(ctx, businessRegistrationPrefix, filename, contentType, body)
	if err != nil {
		log.Printf("business registration upload failed: user_id=%d err=%v", userID, err)
		return models.User{}, models.ErrStorageUpload
	}
	if err := s.store.Users().SetBusinessRegistration(ctx, userID, fileURL, filename); err != nil {
		if delErr := s.objects.Delete(ctx, fileURL); delErr != nil {
			log.Printf("orphaned business registration object: url=%s err=%v", fileURL, delErr)
		}
		return models.User{}, mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}

	s.audit.Record(ctx, telemetry.AuditRecord{Action: "business_registration_uploaded", UserID: userID})
	return s.Me(ctx, userID)
}

func (s *UserService) requireAdmin(ctx context.Context, adminID int) error {
	admin, err := s.store.Users().GetByID(ctx, adminID)
	if err != nil {
		return mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}
	if admin.Role != models.RoleAdmin {
		return models.ErrAdminOnly
	}
	return nil
}

// PendingCompanies lists company accounts waiting for approval.
func (s *UserService) PendingCompanies(ctx context.Context, adminID int) ([]models.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	users, err := s.store.Users().ListPendingCompanies(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// ApproveCompany verifies a company account so it can post company jobs.
func (s *UserService) ApproveCompany(ctx context.Context, adminID, userID int) error {
	return s.decideCompany(ctx, adminID, userID, models.RoleCompany, true, "company_approved")
}

// RejectCompany turns the account back into an individual one.
func (s *UserService) RejectCompany(ctx context.Context, adminID, userID int) error {
	return s.decideCompany(ctx, adminID, userID, models.RoleIndividual, false, "company_rejected")
}

func (s *UserService) decideCompany(ctx context.Context, adminID, userID int, role models.Role, verified bool, action string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.store.Users().SetVerification(ctx, userID, role, verified); err != nil {
		return mapNotFound(err, repositories.ErrUserNotFound, models.ErrUserNotFound)
	}
	s.audit.Record(ctx, telemetry.AuditRecord{Action: action, Target: fmt.Sprintf("user:%d", userID), UserID: adminID})
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
