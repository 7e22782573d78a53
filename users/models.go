// Package users implements the user collection.
//
// A user record carries the profile fields a client submits (username, email, password,
// avatar src, role) and a set of moderation fields (isBanned, banDate, banCount) that are
// stored and returned but never acted on: no endpoint bans or unbans anyone.
package users

import (
	"time"

	"github.com/user/may15-go/db"
)

// CollectionName is the document collection holding users.
const CollectionName = "users"

// Known roles. The field is free text: these values are conventions, not a check.
const (
	RoleClient     = "client"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
	RoleJournalist = "journalist"
)

// User is a stored user record.
type User struct {
	db.Meta `bson:",inline"`
	// example: "johndoe"
	Username string `json:"username" bson:"username"`
	// example: "johndoe@example.com"
	Email string `json:"email" bson:"email"`
	// Password holds the bcrypt hash, never the plain text.
	Password string `json:"password" bson:"password"`
	// example: "https://example.com/avatar.png"
	Src string `json:"src" bson:"src"`
	// example: "journalist"
	Role     string     `json:"role" bson:"role"`
	IsBanned bool       `json:"isBanned" bson:"isBanned"`
	BanDate  *time.Time `json:"banDate" bson:"banDate"`
	BanCount int        `json:"banCount" bson:"banCount"`
	// Favorites is an opaque list owned by the client.
	Favorites []any `json:"favorites" bson:"favorites"`
}
