package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole accepts exactly the two stored variants.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// Session is one outstanding refresh-token grant, owned by its User.
// It is created on login and replaced in place on refresh.
type Session struct {
	RefreshToken string    `bson:"refreshToken" json:"-"`
	LastUsed     time.Time `bson:"lastUsed" json:"-"`
}

type User struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string        `bson:"name" json:"name"`
	Email            string        `bson:"email" json:"email"`
	PasswordHash     string        `bson:"password" json:"-"`
	Role             Role          `bson:"role" json:"role"`
	TwoFactorSecret  string        `bson:"twoFactorSecret,omitempty" json:"-"`
	TwoFactorEnabled bool          `bson:"twoFactorEnabled,omitempty" json:"-"`
	ResetToken       string        `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry *time.Time    `bson:"resetTokenExpiry,omitempty" json:"-"`
	Sessions         []Session     `bson:"sessions,omitempty" json:"-"`
	CreatedAt        time.Time     `bson:"createdAt" json:"created_at"`
}

// PublicUser is the summary returned by login and verify.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
