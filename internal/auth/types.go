package auth

import (
	"time"

	"github.com/google/uuid"
)

// Authentication method identifiers. The method is fixed at account creation
// and decides which lifecycle operations are valid for the account.
const (
	MethodLocal  = "local"
	MethodGoogle = "google"
	MethodGithub = "github"
)

// Account roles.
const (
	RoleUser   = "user"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// DefaultProfileImage is assigned to accounts created without an avatar.
const DefaultProfileImage = "default-avatar.png"

// User is a user account as persisted by the credential store. Username and
// Email are stored lowercase; uniqueness of both is enforced by the store.
type User struct {
	ID             uuid.UUID `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	PasswordHash   []byte    `bson:"password_hash,omitempty"` // only for MethodLocal accounts
	ProfileImage   string    `bson:"profile_image"`
	Bio            string    `bson:"bio,omitempty"`
	Role           string    `bson:"role"`
	AuthMethod     string    `bson:"auth_method"`
	AuthProviderID string    `bson:"auth_provider_id,omitempty"`
	PremiumMember  bool      `bson:"premium_member"`

	IsEmailVerified         bool      `bson:"is_email_verified"`
	EmailVerificationDigest string    `bson:"email_verification_digest,omitempty"`
	EmailVerificationExpire time.Time `bson:"email_verification_expire,omitempty"`
	ResetPasswordDigest     string    `bson:"reset_password_digest,omitempty"`
	ResetPasswordExpire     time.Time `bson:"reset_password_expire,omitempty"`

	LastLogin time.Time `bson:"last_login,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// IsLocal reports whether the account authenticates with a stored password.
func (u *User) IsLocal() bool {
	return u.AuthMethod == MethodLocal
}

// PublicUser is the user view returned in API responses. Hashes and lifecycle
// token fields never leave the service.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	ProfileImage  string    `json:"profileImage"`
	PremiumMember bool      `json:"premiumMember"`
}

// Public returns the response-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		ProfileImage:  u.ProfileImage,
		PremiumMember: u.PremiumMember,
	}
}
