package inventory

import (
	"context"
	"fmt"
)

// scanResult is the outcome of scanning a single package: either a record, or
// the reason the package is skipped.
type scanResult struct {
	record AppRecord
	skip   string
}

// skipped returns a result that leaves the package out of the inventory.
func skipped(reason string) scanResult {
	return scanResult{skip: reason}
}

// scanPackage turns the facts of a package into a record.
func (svc *Service) scanPackage(ctx context.Context, pkg RawPackage, includeSystemApps bool) scanResult {
	if pkg.Identifier == "" {
		return skipped("missing identifier")
	}

	app := pkg.Application
	if app == nil {
		return skipped("no application info")
	}

	if !includeSystemApps && app.System {
		return skipped("system package")
	}

	if !app.HasIcon {
		return skipped("no icon resource")
	}

	// Resolve icon
	icon, err := svc.gateway.GetIcon(ctx, pkg.Identifier)
	if err != nil {
		return skipped(fmt.Sprintf("load icon: %v", err))
	}

	if icon == nil {
		return skipped("icon unavailable")
	}

	return scanResult{
		record: AppRecord{
			Icon:        icon,
			Name:        displayName(app.Label, pkg.Identifier),
			PackageName: pkg.Identifier,
			Version:     versionLabel(pkg.VersionName),
		},
	}
}
