package pinstore

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// DefaultPinnedApps lists the packages that are always pinned and cannot be unpinned.
var DefaultPinnedApps = []string{
	"com.android.settings",
}

// ErrEmptyIdentifier is returned when a pin operation is given an empty package identifier.
var ErrEmptyIdentifier = errors.New("empty package identifier")

// Storage persists the set of user-pinned package identifiers.
type Storage interface {
	// Load returns the stored identifiers. found is false if nothing was ever stored.
	Load(ctx context.Context) (ids []string, found bool, err error)

	// Save replaces the stored identifiers.
	Save(ctx context.Context, ids []string) error

	// Clear removes the stored identifiers.
	Clear(ctx context.Context) error
}

// Set is a set of package identifiers.
type Set map[string]struct{}

// Has reports whether id is a member of the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members of the set in ascending order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Store manages pinned packages on top of a storage backend.
type Store struct {
	mu       sync.Mutex
	storage  Storage
	defaults Set
}

// New returns a store that uses DefaultPinnedApps as its default pins.
func New(storage Storage) *Store {
	return NewWithDefaults(storage, DefaultPinnedApps)
}

// NewWithDefaults returns a store with a custom set of default pins.
func NewWithDefaults(storage Storage, defaults []string) *Store {
	set := make(Set, len(defaults))
	for _, id := range defaults {
		set[id] = struct{}{}
	}

	return &Store{storage: storage, defaults: set}
}

// Defaults returns the default pins in ascending order.
func (st *Store) Defaults() []string {
	return st.defaults.Sorted()
}

// GetPinnedApps returns the union of the default pins and the user pins. If the
// storage cannot be read, the default pins are returned together with a *StorageError.
func (st *Store) GetPinnedApps(ctx context.Context) (Set, error) {
	user, err := st.load(ctx)

	pinned := make(Set, len(st.defaults)+len(user))
	for id := range st.defaults {
		pinned[id] = struct{}{}
	}

	for id := range user {
		pinned[id] = struct{}{}
	}

	return pinned, err
}

// PinApp adds id to the user pins.
func (st *Store) PinApp(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyIdentifier
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	user, err := st.load(ctx)
	if err != nil {
		return err
	}

	user[id] = struct{}{}

	return st.save(ctx, user)
}

// UnpinApp removes id from the user pins. Default pins are left untouched.
func (st *Store) UnpinApp(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyIdentifier
	}

	if st.defaults.Has(id) {
		return nil
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	user, err := st.load(ctx)
	if err != nil {
		return err
	}

	delete(user, id)

	return st.save(ctx, user)
}

// IsPinned reports whether id is pinned, either by default or by the user.
func (st *Store) IsPinned(ctx context.Context, id string) (bool, error) {
	pinned, err := st.GetPinnedApps(ctx)
	return pinned.Has(id), err
}

// ResetToDefaults removes all user pins.
func (st *Store) ResetToDefaults(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.storage.Clear(ctx); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}

	return nil
}

// load reads the user pins. Missing data yields an empty set.
func (st *Store) load(ctx context.Context) (Set, error) {
	ids, found, err := st.storage.Load(ctx)
	if err != nil {
		return Set{}, &StorageError{Op: "load", Err: err}
	}

	user := make(Set, len(ids))
	if !found {
		return user, nil
	}

	for _, id := range ids {
		user[id] = struct{}{}
	}

	return user, nil
}

// save writes the user pins, never including a default pin.
func (st *Store) save(ctx context.Context, user Set) error {
	ids := make([]string, 0, len(user))
	for id := range user {
		if !st.defaults.Has(id) {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	if err := st.storage.Save(ctx, ids); err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	return nil
}
