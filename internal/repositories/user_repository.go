package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"senior-house/internal/models"
)

// UserRepository abstracts account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetBySocial(ctx context.Context, provider, socialID string) (models.User, error)
	SetBusinessRegistration(ctx context.Context, id int, fileURL, original string) error
	SetVerification(ctx context.Context, id int, role models.Role, verified bool) error
	ListPendingCompanies(ctx context.Context) ([]models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db sqlx.ExtContext
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db sqlx.ExtContext) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, password_hash, nickname, name, email, phone, role, is_verified,
	business_registration_file, business_registration_original, social_type, social_id, created_at, updated_at`

// Create inserts user and fills in its generated fields.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO users
		(username, password_hash, nickname, name, email, phone, role, is_verified, social_type, social_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		user.Username, user.PasswordHash, user.Nickname, user.Name, user.Email, user.Phone,
		user.Role, user.IsVerified, user.SocialType, user.SocialID).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *UserRepo) get(ctx context.Context, where string, args ...any) (models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.db, &user, `SELECT `+userColumns+` FROM users WHERE `+where, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	return r.get(ctx, `id=$1`, id)
}

// GetByUsername fetches a local account.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.get(ctx, `username=$1`, username)
}

// GetBySocial fetches an account created through an OAuth provider.
func (r *UserRepo) GetBySocial(ctx context.Context, provider, socialID string) (models.User, error) {
	return r.get(ctx, `social_type=$1 AND social_id=$2`, provider, socialID)
}

// SetBusinessRegistration stores the uploaded document and resets approval.
func (r *UserRepo) SetBusinessRegistration(ctx context.Context, id int, fileURL, original string) error {
	return r.exec(ctx, `UPDATE users SET business_registration_file=$2, business_registration_original=$3,
		role='company', is_verified=FALSE, updated_at=NOW() WHERE id=$1`, id, fileURL, original)
}

// SetVerification updates the role and approval flag of an account.
func (r *UserRepo) SetVerification(ctx context.Context, id int, role models.Role, verified bool) error {
	return r.exec(ctx, `UPDATE users SET role=$2, is_verified=$3, updated_at=NOW() WHERE id=$1`, id, role, verified)
}

// ListPendingCompanies returns company accounts waiting for approval, oldest first.
func (r *UserRepo) ListPendingCompanies(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := sqlx.SelectContext(ctx, r.db, &users, `SELECT `+userColumns+` FROM users
		WHERE role='company' AND is_verified=FALSE AND business_registration_file IS NOT NULL
		ORDER BY updated_at ASC`)
	return users, err
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
