// Package inventory lists the applications installed on a device, merges them
// with the user's pinned packages and derives a readable manifest per package.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/crissyfield/appinventory/internal/pinstore"
)

// PinStore holds the pinned packages.
type PinStore interface {
	GetPinnedApps(ctx context.Context) (pinstore.Set, error)
	PinApp(ctx context.Context, id string) error
	UnpinApp(ctx context.Context, id string) error
	IsPinned(ctx context.Context, id string) (bool, error)
	ResetToDefaults(ctx context.Context) error
	Defaults() []string
}

// Service combines the package facts of a device with the pin state.
type Service struct {
	gateway Gateway
	pins    PinStore
}

// NewService returns a service on the given gateway and pin store.
func NewService(gateway Gateway, pins PinStore) *Service {
	return &Service{gateway: gateway, pins: pins}
}

// FetchInstalledApps returns the installed applications, pinned applications
// first and then ordered by name. Packages that cannot be shown are left out.
func (svc *Service) FetchInstalledApps(ctx context.Context, includeSystemApps bool) ([]AppRecord, error) {
	// Enumerate packages
	packages, err := svc.gateway.ListInstalledPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list installed packages: %w", err)
	}

	// Scan packages
	apps := make([]AppRecord, 0, len(packages))
	seen := make(map[string]struct{}, len(packages))

	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := svc.scanPackage(ctx, pkg, includeSystemApps)
		if res.skip == "" {
			if _, ok := seen[pkg.Identifier]; ok {
				res.skip = "duplicate identifier"
			}
		}

		if res.skip != "" {
			slog.Debug("Skipping package", slog.String("package", pkg.Identifier), slog.String("reason", res.skip))
			continue
		}

		seen[pkg.Identifier] = struct{}{}
		apps = append(apps, res.record)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Sort by pin state and name
	pinned, err := svc.pins.GetPinnedApps(ctx)
	if err != nil {
		slog.Warn("Failed to read pinned apps, using defaults", slog.Any("error", err))
	}

	sortApps(apps, pinned)

	return apps, nil
}

// GetAppInfo returns the record of a single package, or nil if it cannot be loaded.
func (svc *Service) GetAppInfo(ctx context.Context, id string) *AppRecord {
	// Get package facts
	pkg, err := svc.gateway.GetPackage(ctx, id)
	if err != nil {
		slog.Debug("Failed to get package", slog.String("package", id), slog.Any("error", err))
		return nil
	}

	if pkg.Application == nil {
		slog.Debug("Package has no application info", slog.String("package", id))
		return nil
	}

	// Resolve label and icon
	label, err := svc.gateway.GetLabel(ctx, id)
	if err != nil {
		slog.Debug("Failed to get label", slog.String("package", id), slog.Any("error", err))
		return nil
	}

	icon, err := svc.gateway.GetIcon(ctx, id)
	if err != nil {
		slog.Debug("Failed to get icon", slog.String("package", id), slog.Any("error", err))
		return nil
	}

	pinned, err := svc.pins.IsPinned(ctx, id)
	if err != nil {
		slog.Warn("Failed to read pinned apps, using defaults", slog.Any("error", err))
	}

	return &AppRecord{
		Icon:        icon,
		Name:        displayName(label, id),
		PackageName: id,
		Version:     versionLabel(pkg.VersionName),
		Pinned:      pinned,
	}
}

// GetAppPermissions returns the permissions requested by a package. The result
// is empty if the package cannot be loaded.
func (svc *Service) GetAppPermissions(ctx context.Context, id string) []string {
	permissions, err := svc.gateway.GetPermissions(ctx, id)
	if err != nil {
		slog.Debug("Failed to get permissions", slog.String("package", id), slog.Any("error", err))
		return []string{}
	}

	if permissions == nil {
		return []string{}
	}

	return permissions
}

// GetAppManifest returns a manifest-like document describing a package. If the
// package cannot be loaded the document is a single line error message.
func (svc *Service) GetAppManifest(ctx context.Context, id string) string {
	pkg, err := svc.gateway.GetPackage(ctx, id)
	if err != nil {
		return fmt.Sprintf("%s: %v", manifestErrorPrefix, err)
	}

	if pkg.Application == nil {
		return manifestMissingApplication
	}

	return renderManifest(pkg)
}

// PinApp pins a package.
func (svc *Service) PinApp(ctx context.Context, id string) error {
	return svc.pins.PinApp(ctx, id)
}

// UnpinApp unpins a package. Default pins stay pinned.
func (svc *Service) UnpinApp(ctx context.Context, id string) error {
	return svc.pins.UnpinApp(ctx, id)
}

// IsPinned reports whether a package is pinned.
func (svc *Service) IsPinned(ctx context.Context, id string) (bool, error) {
	return svc.pins.IsPinned(ctx, id)
}

// PinnedApps returns all pinned packages in ascending order.
func (svc *Service) PinnedApps(ctx context.Context) ([]string, error) {
	pinned, err := svc.pins.GetPinnedApps(ctx)
	return pinned.Sorted(), err
}

// ResetPins removes all user pins.
func (svc *Service) ResetPins(ctx context.Context) error {
	return svc.pins.ResetToDefaults(ctx)
}

// DefaultPinnedApps returns the packages that are always pinned.
func (svc *Service) DefaultPinnedApps() []string {
	return svc.pins.Defaults()
}

// sortApps marks pinned records and orders them pinned first, then by name
// ignoring case.
func sortApps(apps []AppRecord, pinned pinstore.Set) {
	for i := range apps {
		apps[i].Pinned = pinned.Has(apps[i].PackageName)
	}

	slices.SortStableFunc(apps, func(a, b AppRecord) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}

			return 1
		}

		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// displayName returns label, or the package identifier if the label is empty.
func displayName(label string, id string) string {
	if label == "" {
		return id
	}

	return label
}

// versionLabel returns the version name, or UnknownVersion if it is empty.
func versionLabel(name string) string {
	if name == "" {
		return UnknownVersion
	}

	return name
}
