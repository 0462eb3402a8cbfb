// Package userstore owns the users collection.
//
// The whole collection lives as one JSON array under the kv key "users";
// every mutation rewrites it in full. That is O(n) per write and fine at
// the scale this system runs at. No other package touches the key.
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openreuse/donatehub/internal/app/store/kv"
	"github.com/openreuse/donatehub/internal/app/system/normalize"
	"github.com/openreuse/donatehub/internal/domain/models"
)

var (
	// ErrNotFound is returned for lookups and updates against an id or
	// email no user has.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user with an email
	// that already exists. Uniqueness is enforced here in the store, not
	// left to callers.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errBadRole   = errors.New(`role must be "donor", "ngo", or "admin"`)
	errOrgNeeded = errors.New("ngo accounts must have organization name, address, and phone")
)

// Store reads and writes the users collection.
type Store struct {
	kv kv.Store
}

// New returns a user store over the given backend.
func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

func (s *Store) load(ctx context.Context) ([]models.User, error) {
	raw, err := s.kv.Get(ctx, kv.KeyUsers)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	var users []models.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *Store) save(ctx context.Context, users []models.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyUsers, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// List returns every user in insertion order.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.load(ctx)
}

// Get loads a user by id. Returns ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, id int) (*models.User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// GetByEmail looks up a user by case-insensitive email.
// Returns ErrNotFound if absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	email = normalize.Email(email)
	for i := range users {
		if normalize.Email(users[i].Email) == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// Create inserts a new user after normalizing and validating fields.
// The id is max(existing ids)+1, or 1 for an empty collection; ids of
// deleted users can therefore be reused (donation ids, by contrast,
// never are).
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)

	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}
	if u.Role == models.RoleNgo &&
		(u.OrganizationName == "" || u.OrganizationAddress == "" || u.OrganizationPhone == "") {
		return models.User{}, errOrgNeeded
	}

	users, err := s.load(ctx)
	if err != nil {
		return models.User{}, err
	}

	maxID := 0
	for i := range users {
		if normalize.Email(users[i].Email) == u.Email {
			return models.User{}, ErrDuplicateEmail
		}
		if users[i].ID > maxID {
			maxID = users[i].ID
		}
	}

	u.ID = maxID + 1
	u.CreatedAt = time.Now().UTC()

	users = append(users, u)
	if err := s.save(ctx, users); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Update holds the fields a user record allows to change after creation.
// Nil pointers leave the stored value untouched. ID, Role, and CreatedAt
// are immutable.
type Update struct {
	Name                *string
	Email               *string
	Password            *string
	Verified            *bool
	OrganizationName    *string
	OrganizationAddress *string
	OrganizationPhone   *string
}

// ApplyTo merges the set fields onto u.
func (upd Update) ApplyTo(u *models.User) {
	if upd.Name != nil {
		u.Name = normalize.Name(*upd.Name)
	}
	if upd.Email != nil {
		u.Email = normalize.Email(*upd.Email)
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Verified != nil {
		u.Verified = *upd.Verified
	}
	if upd.OrganizationName != nil {
		u.OrganizationName = *upd.OrganizationName
	}
	if upd.OrganizationAddress != nil {
		u.OrganizationAddress = *upd.OrganizationAddress
	}
	if upd.OrganizationPhone != nil {
		u.OrganizationPhone = *upd.OrganizationPhone
	}
}

// UpdateUser applies upd to the user with the given id and persists the
// collection. Returns ErrNotFound for an unknown id and ErrDuplicateEmail
// if the update would take another user's email.
func (s *Store) UpdateUser(ctx context.Context, id int, upd Update) (*models.User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		for i := range users {
			if i != idx && normalize.Email(users[i].Email) == email {
				return nil, ErrDuplicateEmail
			}
		}
	}

	upd.ApplyTo(&users[idx])
	if err := s.save(ctx, users); err != nil {
		return nil, err
	}
	u := users[idx]
	return &u, nil
}

// Delete removes a user by id. Rejecting an NGO application deletes the
// record outright; donations referencing it are left dangling.
// Returns ErrNotFound for an unknown id.
func (s *Store) Delete(ctx context.Context, id int) error {
	users, err := s.load(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	users = append(users[:idx], users[idx+1:]...)
	return s.save(ctx, users)
}

// Ngos returns every NGO account, in listing order.
func (s *Store) Ngos(ctx context.Context) ([]models.User, error) {
	return s.filter(ctx, func(u *models.User) bool {
		return u.Role == models.RoleNgo
	})
}

// VerifiedNgos returns NGO accounts that have passed admin verification.
func (s *Store) VerifiedNgos(ctx context.Context) ([]models.User, error) {
	return s.filter(ctx, func(u *models.User) bool {
		return u.Role == models.RoleNgo && u.Verified
	})
}

// PendingNgos returns NGO accounts still awaiting verification.
func (s *Store) PendingNgos(ctx context.Context) ([]models.User, error) {
	return s.filter(ctx, func(u *models.User) bool {
		return u.Role == models.RoleNgo && !u.Verified
	})
}

func (s *Store) filter(ctx context.Context, keep func(*models.User) bool) ([]models.User, error) {
	users, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.User
	for i := range users {
		if keep(&users[i]) {
			out = append(out, users[i])
		}
	}
	return out, nil
}

// Replace overwrites the whole collection. Only the seed/reset path
// uses this.
func (s *Store) Replace(ctx context.Context, users []models.User) error {
	return s.save(ctx, users)
}
