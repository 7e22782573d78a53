package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/may15-go/apperror"
	"github.com/user/may15-go/db"
	"github.com/user/may15-go/resource"
)

// UserService performs the single store call behind each user endpoint. Passwords are
// hashed here so plain text never reaches a backend.
type UserService struct {
	users *db.Collection[User, *User]
	cost  int
}

var _ resource.Service[User, CreateUserRequest, UpdateUserRequest] = (*UserService)(nil)

// NewUserService creates a UserService on the given gateway.
func NewUserService(gw db.Gateway) *UserService {
	return &UserService{
		users: db.NewCollection[User](gw, CollectionName),
		cost:  bcrypt.DefaultCost,
	}
}

// List returns every user. The user listing takes no filter.
func (s *UserService) List(ctx context.Context, filter db.Filter) ([]User, error) {
	return s.users.FindMany(ctx, filter)
}

// Get returns the user or nil.
func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	return s.users.FindByID(ctx, id)
}

// Create stores a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		Src:       req.Src,
		Role:      req.Role,
		IsBanned:  req.IsBanned,
		BanDate:   normalizeTime(req.BanDate),
		BanCount:  req.BanCount,
		Favorites: req.Favorites,
	}
	if user.Favorites == nil {
		user.Favorites = []any{}
	}

	return s.users.Insert(ctx, user)
}

// Update merges req into the user and returns the user as it was before.
func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*User, error) {
	patch := userPatch{
		Username:  req.Username,
		Email:     req.Email,
		Src:       req.Src,
		Role:      req.Role,
		IsBanned:  req.IsBanned,
		BanDate:   normalizeTime(req.BanDate),
		BanCount:  req.BanCount,
		Favorites: req.Favorites,
	}
	if req.Password != nil {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}
	if patch.Favorites != nil && *patch.Favorites == nil {
		patch.Favorites = &[]any{}
	}

	return s.users.UpdateByID(ctx, id, patch)
}

// Delete removes the user. Blogs naming them as journalist keep the dangling id.
func (s *UserService) Delete(ctx context.Context, id string) (*User, error) {
	return s.users.DeleteByID(ctx, id)
}

// hashPassword keeps an empty password empty so "no password" stays distinguishable.
func (s *UserService) hashPassword(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.NewValidationError("password must be at most 72 bytes", err)
	}
	if err != nil {
		return "", apperror.NewInternalError("failed to hash password", fmt.Errorf("bcrypt: %w", err))
	}
	return string(hash), nil
}

// normalizeTime brings a client supplied time to the precision every backend stores.
func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := t.UTC().Truncate(time.Millisecond)
	return &n
}
