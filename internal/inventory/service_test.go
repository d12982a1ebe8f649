package inventory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crissyfield/appinventory/internal/pinstore"
)

// fakeGateway serves package facts from memory.
type fakeGateway struct {
	packages []RawPackage
	icons    map[string]*Icon
	iconErrs map[string]error
	listErr  error
}

func (g *fakeGateway) ListInstalledPackages(_ context.Context) ([]RawPackage, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}

	return g.packages, nil
}

func (g *fakeGateway) GetPackage(_ context.Context, id string) (*RawPackage, error) {
	for i := range g.packages {
		if g.packages[i].Identifier == id {
			pkg := g.packages[i]
			return &pkg, nil
		}
	}

	return nil, ErrPackageNotFound
}

func (g *fakeGateway) GetLabel(ctx context.Context, id string) (string, error) {
	pkg, err := g.GetPackage(ctx, id)
	if err != nil {
		return "", err
	}

	if pkg.Application == nil {
		return "", nil
	}

	return pkg.Application.Label, nil
}

func (g *fakeGateway) GetIcon(_ context.Context, id string) (*Icon, error) {
	if err := g.iconErrs[id]; err != nil {
		return nil, err
	}

	return g.icons[id], nil
}

func (g *fakeGateway) GetPermissions(ctx context.Context, id string) ([]string, error) {
	pkg, err := g.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	return pkg.Permissions, nil
}

// memoryStorage keeps pins in memory.
type memoryStorage struct {
	ids     []string
	found   bool
	loadErr error
}

func (s *memoryStorage) Load(_ context.Context) ([]string, bool, error) {
	return s.ids, s.found, s.loadErr
}

func (s *memoryStorage) Save(_ context.Context, ids []string) error {
	s.ids, s.found = ids, true
	return nil
}

func (s *memoryStorage) Clear(_ context.Context) error {
	s.ids, s.found = nil, false
	return nil
}

var pngIcon = &Icon{Format: "png", Image: []byte{0x89, 'P', 'N', 'G'}}

// userApp returns the facts of a non-system package with an icon resource.
func userApp(id, label, version string) RawPackage {
	return RawPackage{
		Identifier:  id,
		VersionName: version,
		Application: &ApplicationInfo{Label: label, HasIcon: true},
	}
}

// systemApp returns the facts of a system package with an icon resource.
func systemApp(id, label string) RawPackage {
	pkg := userApp(id, label, "1.0")
	pkg.Application.System = true

	return pkg
}

// withIcons returns a gateway that has an icon for every given package.
func withIcons(packages ...RawPackage) *fakeGateway {
	icons := make(map[string]*Icon, len(packages))
	for _, pkg := range packages {
		icons[pkg.Identifier] = pngIcon
	}

	return &fakeGateway{packages: packages, icons: icons, iconErrs: map[string]error{}}
}

func newTestService(gw Gateway, defaults []string, pinned ...string) *Service {
	storage := &memoryStorage{ids: pinned, found: len(pinned) > 0}
	return NewService(gw, pinstore.NewWithDefaults(storage, defaults))
}

func packageNames(apps []AppRecord) []string {
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		names = append(names, app.PackageName)
	}

	return names
}

func TestFetchInstalledAppsFiltersSystemAndBrokenIcons(t *testing.T) {
	gw := withIcons(
		userApp("com.example.a", "A", "1.0"),
		systemApp("com.example.b", "B"),
		userApp("com.example.c", "C", "1.0"),
	)
	gw.iconErrs["com.example.c"] = errors.New("resource not found")

	svc := newTestService(gw, nil, "com.example.b")

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.a"}, packageNames(apps))
}

func TestFetchInstalledAppsIncludesSystemApps(t *testing.T) {
	gw := withIcons(
		userApp("com.example.a", "A", "1.0"),
		systemApp("com.example.b", "B"),
	)

	svc := newTestService(gw, nil)

	apps, err := svc.FetchInstalledApps(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.a", "com.example.b"}, packageNames(apps))
}

func TestFetchInstalledAppsSkipsPackages(t *testing.T) {
	noApplication := RawPackage{Identifier: "com.example.noapp"}

	noIconResource := userApp("com.example.noicon", "No Icon", "1.0")
	noIconResource.Application.HasIcon = false

	tests := []struct {
		name    string
		pkg     RawPackage
		nilIcon bool
	}{
		{name: "no application info", pkg: noApplication},
		{name: "no icon resource", pkg: noIconResource},
		{name: "icon resolves to nothing", pkg: userApp("com.example.nil", "Nil", "1.0"), nilIcon: true},
		{name: "missing identifier", pkg: userApp("", "Anonymous", "1.0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := withIcons(userApp("com.example.ok", "Ok", "1.0"), tt.pkg)
			if tt.nilIcon {
				gw.icons[tt.pkg.Identifier] = nil
			}

			svc := newTestService(gw, nil)

			apps, err := svc.FetchInstalledApps(context.Background(), true)
			require.NoError(t, err)
			assert.Equal(t, []string{"com.example.ok"}, packageNames(apps))
		})
	}
}

func TestFetchInstalledAppsDropsDuplicates(t *testing.T) {
	gw := withIcons(
		userApp("com.example.a", "First", "1.0"),
		userApp("com.example.a", "Second", "2.0"),
	)

	svc := newTestService(gw, nil)

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "First", apps[0].Name)
}

func TestFetchInstalledAppsRecordFields(t *testing.T) {
	gw := withIcons(
		userApp("com.example.versioned", "Versioned", "2.3.1"),
		userApp("com.example.unversioned", "", ""),
	)

	svc := newTestService(gw, nil)

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, apps, 2)

	assert.Equal(t, AppRecord{
		Icon:        pngIcon,
		Name:        "Versioned",
		PackageName: "com.example.versioned",
		Version:     "2.3.1",
	}, apps[1])

	assert.Equal(t, "com.example.unversioned", apps[0].Name)
	assert.Equal(t, UnknownVersion, apps[0].Version)
}

func TestFetchInstalledAppsOrdering(t *testing.T) {
	gw := withIcons(
		userApp("com.example.zeta", "zeta", "1"),
		userApp("com.example.alpha", "Alpha", "1"),
		userApp("com.example.beta", "beta", "1"),
		userApp("com.android.settings", "Settings", "1"),
		userApp("com.example.omega", "Omega", "1"),
		userApp("com.example.delta", "Delta", "1"),
	)

	svc := newTestService(gw, []string{"com.android.settings"}, "com.example.omega", "com.example.delta")

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"com.example.delta",
		"com.example.omega",
		"com.android.settings",
		"com.example.alpha",
		"com.example.beta",
		"com.example.zeta",
	}, packageNames(apps))

	// Pinned records precede unpinned ones, names ascend within each group
	for i := 1; i < len(apps); i++ {
		prev, cur := apps[i-1], apps[i]

		if prev.Pinned == cur.Pinned {
			assert.LessOrEqual(t, strings.ToLower(prev.Name), strings.ToLower(cur.Name))
		} else {
			assert.True(t, prev.Pinned, "unpinned %s precedes pinned %s", prev.PackageName, cur.PackageName)
		}
	}
}

func TestFetchInstalledAppsPinStorageFailure(t *testing.T) {
	gw := withIcons(
		userApp("com.example.alpha", "Alpha", "1"),
		userApp("com.android.settings", "Settings", "1"),
	)

	storage := &memoryStorage{loadErr: errors.New("disk on fire")}
	svc := NewService(gw, pinstore.NewWithDefaults(storage, []string{"com.android.settings"}))

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.android.settings", "com.example.alpha"}, packageNames(apps))
}

func TestFetchInstalledAppsListError(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("device disconnected")}
	svc := newTestService(gw, nil)

	apps, err := svc.FetchInstalledApps(context.Background(), false)
	require.Error(t, err)
	assert.Nil(t, apps)
	assert.Contains(t, err.Error(), "device disconnected")
}

func TestFetchInstalledAppsCancelled(t *testing.T) {
	gw := withIcons(userApp("com.example.a", "A", "1"))
	svc := newTestService(gw, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FetchInstalledApps(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetAppInfo(t *testing.T) {
	noApplication := RawPackage{Identifier: "com.example.noapp"}

	gw := withIcons(
		userApp("com.example.a", "Alpha", "1.2"),
		userApp("com.example.unversioned", "Unversioned", ""),
		userApp("com.example.broken", "Broken", "1.0"),
		noApplication,
	)
	gw.iconErrs["com.example.broken"] = errors.New("icon decode failed")

	svc := newTestService(gw, nil, "com.example.a")

	t.Run("found", func(t *testing.T) {
		app := svc.GetAppInfo(context.Background(), "com.example.a")
		require.NotNil(t, app)
		assert.Equal(t, AppRecord{
			Icon:        pngIcon,
			Name:        "Alpha",
			PackageName: "com.example.a",
			Version:     "1.2",
			Pinned:      true,
		}, *app)
	})

	t.Run("unknown version", func(t *testing.T) {
		app := svc.GetAppInfo(context.Background(), "com.example.unversioned")
		require.NotNil(t, app)
		assert.Equal(t, UnknownVersion, app.Version)
	})

	t.Run("not installed", func(t *testing.T) {
		assert.Nil(t, svc.GetAppInfo(context.Background(), "com.example.missing"))
	})

	t.Run("icon failure", func(t *testing.T) {
		assert.Nil(t, svc.GetAppInfo(context.Background(), "com.example.broken"))
	})

	t.Run("no application info", func(t *testing.T) {
		assert.Nil(t, svc.GetAppInfo(context.Background(), "com.example.noapp"))
	})
}

func TestGetAppPermissions(t *testing.T) {
	pkg := userApp("com.example.a", "A", "1")
	pkg.Permissions = []string{"android.permission.INTERNET", "android.permission.CAMERA"}

	svc := newTestService(withIcons(pkg, userApp("com.example.none", "None", "1")), nil)

	assert.Equal(t, pkg.Permissions, svc.GetAppPermissions(context.Background(), "com.example.a"))

	none := svc.GetAppPermissions(context.Background(), "com.example.none")
	assert.NotNil(t, none)
	assert.Empty(t, none)

	missing := svc.GetAppPermissions(context.Background(), "com.example.missing")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestPinOperations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(withIcons(), []string{"com.android.settings"})

	assert.Equal(t, []string{"com.android.settings"}, svc.DefaultPinnedApps())

	require.NoError(t, svc.PinApp(ctx, "com.example.a"))

	pinned, err := svc.IsPinned(ctx, "com.example.a")
	require.NoError(t, err)
	assert.True(t, pinned)

	require.NoError(t, svc.UnpinApp(ctx, "com.example.a"))

	pinned, err = svc.IsPinned(ctx, "com.example.a")
	require.NoError(t, err)
	assert.False(t, pinned)

	require.NoError(t, svc.UnpinApp(ctx, "com.android.settings"))

	pinned, err = svc.IsPinned(ctx, "com.android.settings")
	require.NoError(t, err)
	assert.True(t, pinned)

	require.NoError(t, svc.PinApp(ctx, "com.example.b"))
	require.NoError(t, svc.ResetPins(ctx))

	all, err := svc.PinnedApps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.android.settings"}, all)
}
