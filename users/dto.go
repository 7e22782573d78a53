package users

import "time"

// CreateUserRequest is the body of POST /api/users. Every field is optional; the
// moderation fields default to a user in good standing.
type CreateUserRequest struct {
	// example: "johndoe"
	Username string `json:"username"`
	// example: "johndoe@example.com"
	Email string `json:"email"`
	// Plain text; it is hashed before it is stored.
	// example: "s3cret"
	Password string `json:"password"`
	// example: "https://example.com/avatar.png"
	Src string `json:"src"`
	// One of client, admin, super-admin, journalist. Not enforced.
	// example: "client"
	Role      string     `json:"role"`
	IsBanned  bool       `json:"isBanned"`
	BanDate   *time.Time `json:"banDate"`
	BanCount  int        `json:"banCount"`
	Favorites []any      `json:"favorites"`
}

// UpdateUserRequest is the body of PATCH /api/users/{id}. Nil fields are left untouched,
// which also means banDate cannot be cleared back to null through this endpoint.
type UpdateUserRequest struct {
	Username  *string    `json:"username,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Password  *string    `json:"password,omitempty"`
	Src       *string    `json:"src,omitempty"`
	Role      *string    `json:"role,omitempty"`
	IsBanned  *bool      `json:"isBanned,omitempty"`
	BanDate   *time.Time `json:"banDate,omitempty"`
	BanCount  *int       `json:"banCount,omitempty"`
	Favorites *[]any     `json:"favorites,omitempty"`
}

// userPatch is what reaches the store: the request with the password already hashed.
type userPatch struct {
	Username  *string    `json:"username,omitempty" bson:"username,omitempty"`
	Email     *string    `json:"email,omitempty" bson:"email,omitempty"`
	Password  *string    `json:"password,omitempty" bson:"password,omitempty"`
	Src       *string    `json:"src,omitempty" bson:"src,omitempty"`
	Role      *string    `json:"role,omitempty" bson:"role,omitempty"`
	IsBanned  *bool      `json:"isBanned,omitempty" bson:"isBanned,omitempty"`
	BanDate   *time.Time `json:"banDate,omitempty" bson:"banDate,omitempty"`
	BanCount  *int       `json:"banCount,omitempty" bson:"banCount,omitempty"`
	Favorites *[]any     `json:"favorites,omitempty" bson:"favorites,omitempty"`
}
