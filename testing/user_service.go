package testing

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kit/platform/errors"
	"github.com/storefront/storefront/mock"
)

var userCmpOptions = cmp.Options{
	cmp.Transformer("Sort", func(in []*storefront.User) []*storefront.User {
		out := append([]*storefront.User(nil), in...) // Copy input to avoid mutating it
		sort.Slice(out, func(i, j int) bool {
			return out[i].ID < out[j].ID
		})
		return out
	}),
}

// UserInitFn builds a storefront.UserService seeded with fields. The returned
// func releases it.
type UserInitFn func(ShopFields, *testing.T) (storefront.UserService, func())

// UserService runs every user conformance case against the service init builds.
func UserService(init UserInitFn, t *testing.T) {
	tests := []struct {
		name string
		fn   func(init UserInitFn, t *testing.T)
	}{
		{name: "CreateUser", fn: CreateUser},
		{name: "FindUserByID", fn: FindUserByID},
		{name: "FindUsers", fn: FindUsers},
		{name: "UpdateUser", fn: UpdateUser},
		{name: "DeleteUser", fn: DeleteUser},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(init, t)
		})
	}
}

func alice() *storefront.User {
	return &storefront.User{
		ID:        idOne,
		Username:  "alice",
		Fullname:  strPtr("Alice Liddell"),
		Email:     "alice@example.com",
		Age:       intPtr(31),
		Picture:   []string{"https://img.example.com/alice.png"},
		CreatedAt: fixedNow.Add(-time.Hour),
	}
}

func bob() *storefront.User {
	return &storefront.User{
		ID:        idTwo,
		Username:  "bob",
		Email:     "bob@example.com",
		Picture:   []string{},
		CreatedAt: fixedNow.Add(-time.Minute),
	}
}

// CreateUser testing
func CreateUser(init UserInitFn, t *testing.T) {
	type args struct {
		create storefront.UserCreate
	}
	type wants struct {
		err  error
		user *storefront.User
	}

	tests := []struct {
		name   string
		fields ShopFields
		args   args
		wants  wants
	}{
		{
			name: "create user with empty set",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			args: args{
				create: storefront.UserCreate{
					Username: "carol",
					Fullname: strPtr("Carol Danvers"),
					Email:    "carol@example.com",
					Age:      intPtr(0),
				},
			},
			wants: wants{
				user: &storefront.User{
					ID:        idThree,
					Username:  "carol",
					Fullname:  strPtr("Carol Danvers"),
					Email:     "carol@example.com",
					Age:       intPtr(0),
					Picture:   []string{},
					CreatedAt: fixedNow,
				},
			},
		},
		{
			name: "create with an existing id replaces the user",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idOne),
				Now:         fixedNow,
				Users:       []*storefront.User{alice()},
			},
			args: args{
				create: storefront.UserCreate{
					Username: "alice2",
					Email:    "alice2@example.com",
					Picture:  []string{"a.png", "b.png"},
				},
			},
			wants: wants{
				user: &storefront.User{
					ID:        idOne,
					Username:  "alice2",
					Email:     "alice2@example.com",
					Picture:   []string{"a.png", "b.png"},
					CreatedAt: fixedNow,
				},
			},
		},
		{
			name: "email must be valid",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			args: args{
				create: storefront.UserCreate{
					Username: "carol",
					Email:    "carol",
				},
			},
			wants: wants{
				err: &errors.Error{
					Code: errors.EInvalid,
					Msg:  "invalid user: email must be a valid email address",
				},
			},
		},
		{
			name: "username and email are required",
			fields: ShopFields{
				IDGenerator: mock.NewIDGenerator(idThree),
				Now:         fixedNow,
			},
			args: args{
				create: storefront.UserCreate{},
			},
			wants: wants{
				err: &errors.Error{
					Code: errors.EInvalid,
					Msg:  "invalid user: username is required; email is required",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			user, err := s.CreateUser(ctx, tt.args.create)
			diffPlatformErrors(tt.name, err, tt.wants.err, t)
			if tt.wants.err != nil {
				return
			}

			if diff := cmp.Diff(user, tt.wants.user); diff != "" {
				t.Errorf("created user is different -got/+want\ndiff %s", diff)
			}

			found, err := s.FindUserByID(ctx, user.ID)
			if err != nil {
				t.Fatalf("failed to read back created user: %v", err)
			}
			if diff := cmp.Diff(found, tt.wants.user); diff != "" {
				t.Errorf("stored user is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindUserByID testing
func FindUserByID(init UserInitFn, t *testing.T) {
	type args struct {
		id string
	}
	type wants struct {
		err  error
		user *storefront.User
	}

	tests := []struct {
		name   string
		fields ShopFields
		args   args
		wants  wants
	}{
		{
			name: "basic find user by id",
			fields: ShopFields{
				Users: []*storefront.User{alice(), bob()},
			},
			args: args{
				id: idTwo,
			},
			wants: wants{
				user: bob(),
			},
		},
		{
			name: "optional attributes survive storage",
			fields: ShopFields{
				Users: []*storefront.User{alice()},
			},
			args: args{
				id: idOne,
			},
			wants: wants{
				user: alice(),
			},
		},
		{
			name: "find user by id not exists",
			fields: ShopFields{
				Users: []*storefront.User{alice()},
			},
			args: args{
				id: idNone,
			},
			wants: wants{
				err: storefront.ErrUserNotFound,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			user, err := s.FindUserByID(context.Background(), tt.args.id)
			diffPlatformErrors(tt.name, err, tt.wants.err, t)

			if diff := cmp.Diff(user, tt.wants.user); diff != "" {
				t.Errorf("user is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// FindUsers testing
func FindUsers(init UserInitFn, t *testing.T) {
	many := make([]*storefront.User, 0, storefront.MaxUsersListed+5)
	for i := 1; i <= storefront.MaxUsersListed+5; i++ {
		many = append(many, &storefront.User{
			ID:        fmt.Sprintf("020f755c-3c08-4000-8000-%012d", 100+i),
			Username:  fmt.Sprintf("user%d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Picture:   []string{},
			CreatedAt: fixedNow,
		})
	}

	type wants struct {
		users []*storefront.User
		count int
	}

	tests := []struct {
		name   string
		fields ShopFields
		wants  wants
	}{
		{
			name:   "no users",
			fields: ShopFields{},
			wants: wants{
				users: []*storefront.User{},
			},
		},
		{
			name: "fullname and age are not listed",
			fields: ShopFields{
				Users: []*storefront.User{alice(), bob()},
			},
			wants: wants{
				users: []*storefront.User{
					{
						ID:        idOne,
						Username:  "alice",
						Email:     "alice@example.com",
						Picture:   []string{"https://img.example.com/alice.png"},
						CreatedAt: fixedNow.Add(-time.Hour),
					},
					bob(),
				},
			},
		},
		{
			name: "at most twenty users are listed",
			fields: ShopFields{
				Users: many,
			},
			wants: wants{
				count: storefront.MaxUsersListed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()

			users, err := s.FindUsers(context.Background())
			diffPlatformErrors(tt.name, err, nil, t)

			if tt.wants.users != nil {
				if diff := cmp.Diff(users, tt.wants.users, userCmpOptions...); diff != "" {
					t.Errorf("users are different -got/+want\ndiff %s", diff)
				}
				return
			}

			if len(users) != tt.wants.count {
				t.Fatalf("expected %d users, got %d", tt.wants.count, len(users))
			}
			for _, u := range users {
				if u.Fullname != nil || u.Age != nil {
					t.Errorf("listed user %s carries unlisted attributes", u.ID)
				}
			}
		})
	}
}

// UpdateUser testing
func UpdateUser(init UserInitFn, t *testing.T) {
	type args struct {
		id  string
		upd storefront.UserUpdate
	}
	type wants struct {
		err  error
		user *storefront.User
	}

	tests := []struct {
		name   string
		fields ShopFields
		args   args
		wants  wants
	}{
		{
			name: "update changes email, username and picture only",
			fields: ShopFields{
				Now:   fixedNow,
				Users: []*storefront.User{alice(), bob()},
			},
			args: args{
				id: idOne,
				upd: storefront.UserUpdate{
					Email:    "alice@wonder.land",
					Username: "alice_l",
					Picture:  []string{"new.png"},
				},
			},
			wants: wants{
				user: &storefront.User{
					ID:        idOne,
					Username:  "alice_l",
					Fullname:  strPtr("Alice Liddell"),
					Email:     "alice@wonder.land",
					Age:       intPtr(31),
					Picture:   []string{"new.png"},
					CreatedAt: fixedNow.Add(-time.Hour),
				},
			},
		},
		{
			name: "update missing user",
			fields: ShopFields{
				Users: []*storefront.User{alice()},
			},
			args: args{
				id: idNone,
				upd: storefront.UserUpdate{
					Email:    "ghost@example.com",
					Username: "ghost",
				},
			},
			wants: wants{
				err: storefront.ErrUserNotFound,
			},
		},
		{
			name: "update requires a valid email",
			fields: ShopFields{
				Users: []*storefront.User{alice()},
			},
			args: args{
				id: idOne,
				upd: storefront.UserUpdate{
					Email:    "not-an-email",
					Username: "alice",
				},
			},
			wants: wants{
				err: &errors.Error{
					Code: errors.EInvalid,
					Msg:  "invalid user update: email must be a valid email address",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			user, err := s.UpdateUser(ctx, tt.args.id, tt.args.upd)
			diffPlatformErrors(tt.name, err, tt.wants.err, t)
			if tt.wants.err != nil {
				if errors.ErrorCode(tt.wants.err) == errors.ENotFound {
					if _, err := s.FindUserByID(ctx, tt.args.id); errors.ErrorCode(err) != errors.ENotFound {
						t.Fatalf("update of a missing user must not create it, got err %v", err)
					}
				}
				return
			}

			if diff := cmp.Diff(user, tt.wants.user); diff != "" {
				t.Errorf("updated user is different -got/+want\ndiff %s", diff)
			}

			found, err := s.FindUserByID(ctx, tt.args.id)
			if err != nil {
				t.Fatalf("failed to read back updated user: %v", err)
			}
			if diff := cmp.Diff(found, tt.wants.user); diff != "" {
				t.Errorf("stored user is different -got/+want\ndiff %s", diff)
			}
		})
	}
}

// DeleteUser testing
func DeleteUser(init UserInitFn, t *testing.T) {
	type args struct {
		id string
	}
	type wants struct {
		users []*storefront.User
	}

	tests := []struct {
		name   string
		fields ShopFields
		args   args
		wants  wants
	}{
		{
			name: "delete users using exist id",
			fields: ShopFields{
				Users: []*storefront.User{alice(), bob()},
			},
			args: args{
				id: idOne,
			},
			wants: wants{
				users: []*storefront.User{bob()},
			},
		},
		{
			name: "delete users using id that does not exist",
			fields: ShopFields{
				Users: []*storefront.User{bob()},
			},
			args: args{
				id: idNone,
			},
			wants: wants{
				users: []*storefront.User{bob()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, done := init(tt.fields, t)
			defer done()
			ctx := context.Background()

			err := s.DeleteUser(ctx, tt.args.id)
			diffPlatformErrors(tt.name, err, nil, t)

			// a second delete is still not an error
			err = s.DeleteUser(ctx, tt.args.id)
			diffPlatformErrors(tt.name, err, nil, t)

			if _, err := s.FindUserByID(ctx, tt.args.id); errors.ErrorCode(err) != errors.ENotFound {
				t.Fatalf("expected deleted user to be not found, got %v", err)
			}

			users, err := s.FindUsers(ctx)
			if err != nil {
				t.Fatalf("failed to retrieve users: %v", err)
			}
			if diff := cmp.Diff(users, tt.wants.users, userCmpOptions...); diff != "" {
				t.Errorf("users are different -got/+want\ndiff %s", diff)
			}
		})
	}
}
