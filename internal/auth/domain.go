package auth

import "time"

// User represents an operator account that can sign in.
type User struct {
	ID           int64
	Name         string
	Telegram     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public projection returned by the API.
type UserView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Telegram string `json:"telegram"`
}

// View returns the public projection of u.
func (u User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Telegram: u.Telegram}
}

// CreateUserInput describes a new account; Password is plain text.
type CreateUserInput struct {
	Name     string
	Telegram string
	Password string
}

// Session is an issued bearer token together with its owner.
type Session struct {
	User  User
	Token string
}
