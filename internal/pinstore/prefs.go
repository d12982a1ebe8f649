package pinstore

import (
	"context"

	"github.com/crissyfield/appinventory/internal/prefs"
)

const (
	// PrefsName is the name of the preferences document holding the user pins.
	PrefsName = "pinned_apps_prefs"

	// keyPinnedApps is the preferences entry holding the user pins.
	keyPinnedApps = "pinned_apps"
)

// PrefsStorage keeps the user pins as a string set in a preferences document.
type PrefsStorage struct {
	prefs *prefs.Preferences
}

// NewPrefsStorage returns a storage on the pin preferences document of backend.
func NewPrefsStorage(backend prefs.Backend) *PrefsStorage {
	return &PrefsStorage{prefs: prefs.Open(backend, PrefsName)}
}

// Load implements Storage.
func (s *PrefsStorage) Load(ctx context.Context) ([]string, bool, error) {
	return s.prefs.GetStringSet(ctx, keyPinnedApps)
}

// Save implements Storage.
func (s *PrefsStorage) Save(ctx context.Context, ids []string) error {
	return s.prefs.PutStringSet(ctx, keyPinnedApps, ids)
}

// Clear implements Storage.
func (s *PrefsStorage) Clear(ctx context.Context) error {
	return s.prefs.Remove(ctx, keyPinnedApps)
}
