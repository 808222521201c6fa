package shop

import (
	"context"
	"encoding/json"

	"github.com/storefront/storefront"
	"github.com/storefront/storefront/kv"
)

func unmarshalUser(v []byte) (*storefront.User, error) {
	u := &storefront.User{}
	if err := json.Unmarshal(v, u); err != nil {
		return nil, ErrCorruptRecord("user", err)
	}

	return u, nil
}

func marshalUser(u *storefront.User) ([]byte, error) {
	v, err := json.Marshal(u)
	if err != nil {
		return nil, ErrUnprocessableRecord("user", err)
	}

	return v, nil
}

func (s *Store) putUser(tx kv.Tx, u *storefront.User) error {
	b, err := tx.Bucket(userBucket)
	if err != nil {
		return err
	}

	v, err := marshalUser(u)
	if err != nil {
		return err
	}

	return b.Put([]byte(u.ID), v)
}

// CreateUser writes u under its id, replacing any user already stored there.
func (s *Store) CreateUser(ctx context.Context, tx kv.Tx, u *storefront.User) (retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpCreateUser)
	}()

	return s.putUser(tx, u)
}

// GetUser returns the user stored under id.
func (s *Store) GetUser(ctx context.Context, tx kv.Tx, id string) (user *storefront.User, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpFindUserByID)
	}()

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, err
	}

	v, err := b.Get([]byte(id))
	if kv.IsNotFound(err) {
		return nil, storefront.ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return unmarshalUser(v)
}

// ListUsers returns up to storefront.MaxUsersListed users carrying only
// storefront.UserListAttributes.
func (s *Store) ListUsers(ctx context.Context, tx kv.Tx) (users []*storefront.User, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpFindUsers)
	}()

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return nil, err
	}

	users = []*storefront.User{}
	var decodeErr error
	err = kv.WalkFirst(b, func(k, v []byte) bool {
		pv, err := project(v, storefront.UserListAttributes)
		if err != nil {
			decodeErr = ErrCorruptRecord("user", err)
			return false
		}

		u, err := unmarshalUser(pv)
		if err != nil {
			decodeErr = err
			return false
		}

		users = append(users, u)
		return len(users) < storefront.MaxUsersListed
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	return users, nil
}

// UpdateUser applies upd to the user stored under id. It must run in a
// writable transaction so the read and the write see the same state.
func (s *Store) UpdateUser(ctx context.Context, tx kv.Tx, id string, upd storefront.UserUpdate) (user *storefront.User, retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpUpdateUser)
	}()

	u, err := s.GetUser(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(u)

	if err := s.putUser(tx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// DeleteUser removes the user stored under id. A missing user is not an error.
func (s *Store) DeleteUser(ctx context.Context, tx kv.Tx, id string) (retErr error) {
	defer func() {
		retErr = ErrInternalServiceError(retErr, storefront.OpDeleteUser)
	}()

	b, err := tx.Bucket(userBucket)
	if err != nil {
		return err
	}

	return b.Delete([]byte(id))
}
