package storefront

import (
	"context"
	"time"

	"github.com/storefront/storefront/kit/platform/errors"
)

// MaxUsersListed caps how many users FindUsers returns.
const MaxUsersListed = 20

// UserListAttributes are the only user attributes FindUsers returns.
var UserListAttributes = []string{"id", "username", "email", "picture", "created_at"}

// ErrUserNotFound is used when the user is not found.
var ErrUserNotFound = &errors.Error{
	Code: errors.ENotFound,
	Msg:  "user not found",
}

// User is a storefront customer account.
type User struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Username  string    `json:"username" dynamodbav:"username"`
	Fullname  *string   `json:"fullname,omitempty" dynamodbav:"fullname,omitempty"`
	Email     string    `json:"email" dynamodbav:"email"`
	Age       *int      `json:"age,omitempty" dynamodbav:"age,omitempty"`
	Picture   []string  `json:"picture" dynamodbav:"picture"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Ops for user errors and op log.
const (
	OpFindUserByID = "FindUserByID"
	OpFindUsers    = "FindUsers"
	OpCreateUser   = "CreateUser"
	OpUpdateUser   = "UpdateUser"
	OpDeleteUser   = "DeleteUser"
)

// UserService represents a service for managing user data.
type UserService interface {
	// CreateUser validates c and stores a new user with a generated id and
	// creation time. An existing user with the same id is overwritten.
	CreateUser(ctx context.Context, c UserCreate) (*User, error)

	// FindUserByID returns a single user by ID.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// FindUsers returns at most MaxUsersListed users, projected onto
	// UserListAttributes. No ordering is guaranteed.
	FindUsers(ctx context.Context) ([]*User, error)

	// UpdateUser replaces the email, username and picture of an existing user.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error)

	// DeleteUser removes a user by ID. Deleting a missing user is not an error.
	DeleteUser(ctx context.Context, id string) error
}

// UserCreate is the body accepted when creating a user.
type UserCreate struct {
	Username string   `json:"username" validate:"required"`
	Fullname *string  `json:"fullname,omitempty"`
	Email    string   `json:"email" validate:"required,email"`
	Age      *int     `json:"age,omitempty" validate:"omitempty,gte=0"`
	Picture  []string `json:"picture"`
}

// OK validates the create body.
func (c UserCreate) OK() error {
	return validateBody("user", c)
}

// User builds the stored record for c.
func (c UserCreate) User(id string, now time.Time) *User {
	picture := c.Picture
	if picture == nil {
		picture = []string{}
	}

	return &User{
		ID:        id,
		Username:  c.Username,
		Fullname:  c.Fullname,
		Email:     c.Email,
		Age:       c.Age,
		Picture:   picture,
		CreatedAt: now.UTC(),
	}
}

// UserUpdate is the body accepted when updating a user. All three
// attributes are written; there is no partial update.
type UserUpdate struct {
	Email    string   `json:"email" validate:"required,email"`
	Username string   `json:"username" validate:"required"`
	Picture  []string `json:"picture"`
}

// OK validates the update body.
func (u UserUpdate) OK() error {
	return validateBody("user update", u)
}

// Apply writes the updated attributes onto user, leaving id and
// created_at alone.
func (u UserUpdate) Apply(user *User) {
	user.Email = u.Email
	user.Username = u.Username
	user.Picture = u.Picture
	if user.Picture == nil {
		user.Picture = []string{}
	}
}
