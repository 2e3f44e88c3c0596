package models

import "time"

// Role is the account type of a user.
type Role string

const (
	RoleIndividual Role = "individual"
	RoleCompany    Role = "company"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleIndividual, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account, local or social.
type User struct {
	ID                           int       `db:"id" json:"id"`
	Username                     *string   `db:"username" json:"username,omitempty"`
	PasswordHash                 *string   `db:"password_hash" json:"-"`
	Nickname                     string    `db:"nickname" json:"nickname"`
	Name                         *string   `db:"name" json:"name,omitempty"`
	Email                        *string   `db:"email" json:"email,omitempty"`
	Phone                        *string   `db:"phone" json:"phone,omitempty"`
	Role                         Role      `db:"role" json:"role"`
	IsVerified                   bool      `db:"is_verified" json:"is_verified"`
	BusinessRegistrationFile     *string   `db:"business_registration_file" json:"business_registration_file,omitempty"`
	BusinessRegistrationOriginal *string   `db:"business_registration_original" json:"business_registration_original,omitempty"`
	SocialType                   *string   `db:"social_type" json:"social_type,omitempty"`
	SocialID                     *string   `db:"social_id" json:"-"`
	CreatedAt                    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                    time.Time `db:"updated_at" json:"updated_at"`
}

// CanPostCompanyJobs reports whether the user is an approved company account.
func (u User) CanPostCompanyJobs() bool {
	return u.Role == RoleCompany && u.IsVerified
}

// UserRef is the public view of another user shown next to rooms and applications.
type UserRef struct {
	ID       int    `db:"id" json:"id"`
	Nickname string `db:"nickname" json:"nickname"`
	Role     Role   `db:"role" json:"role"`
}

// SocialProfile is what an OAuth provider returns about the signed-in account.
type SocialProfile struct {
	Provider    string
	SocialID    string
	DisplayName string
	Email       string
}
