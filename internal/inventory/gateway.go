package inventory

import (
	"context"
	"errors"
)

// ErrPackageNotFound is returned by gateways for identifiers that are not installed.
var ErrPackageNotFound = errors.New("package not found")

// Gateway provides access to the package introspection API of a device.
type Gateway interface {
	// ListInstalledPackages enumerates every installed package, system packages included.
	ListInstalledPackages(ctx context.Context) ([]RawPackage, error)

	// GetPackage returns the full facts of a package, components included.
	GetPackage(ctx context.Context, identifier string) (*RawPackage, error)

	// GetLabel returns the localized label of a package.
	GetLabel(ctx context.Context, identifier string) (string, error)

	// GetIcon returns the icon of a package, or nil if there is none.
	GetIcon(ctx context.Context, identifier string) (*Icon, error)

	// GetPermissions returns the permissions requested by a package.
	GetPermissions(ctx context.Context, identifier string) ([]string, error)
}
