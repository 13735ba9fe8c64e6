package domain

import (
	"fmt"
	"net/url"
	"time"
)

// User models an account holder. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	AvatarURL    string    `json:"avatar_url" bson:"avatar_url"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultAvatarURL builds the generated-avatar URL assigned at registration.
func DefaultAvatarURL(username string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(username))
}

// UserRef is the lightweight projection of a user embedded in payloads
// (assignees, comment authors, member lists).
type UserRef struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	Username  string `json:"username" bson:"username"`
	Email     string `json:"email" bson:"email"`
	AvatarURL string `json:"avatar_url" bson:"avatar_url"`
}

// Ref returns the embeddable projection of the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email, AvatarURL: u.AvatarURL}
}
