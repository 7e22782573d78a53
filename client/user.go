// Package client holds the client side of the API: the User value a front end builds
// before registering someone, and a small typed HTTP client for the three collections.
package client

import "time"

// User is a user as a client composes it before sending it to POST /api/users.
type User struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Src       string     `json:"src"`
	Role      string     `json:"role"`
	IsBanned  bool       `json:"isBanned"`
	BanDate   *time.Time `json:"banDate"`
	BanCount  int        `json:"banCount"`
	Favorites []any      `json:"favorites"`
}

// NewUser returns a user in good standing with no favorites.
func NewUser(username, email, password, src, role string) *User {
	return &User{
		Username:  username,
		Email:     email,
		Password:  password,
		Src:       src,
		Role:      role,
		IsBanned:  false,
		BanDate:   nil,
		BanCount:  0,
		Favorites: []any{},
	}
}
