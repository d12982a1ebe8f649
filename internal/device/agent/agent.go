// Package agent holds the JavaScript agent that queries Android's PackageManager
// from inside a device process, and decodes the results of its RPC exports.
package agent

import (
	_ "embed"
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/crissyfield/appinventory/internal/inventory"
)

// Source is the agent script.
//
//go:embed agent.js
var Source string

// Names of the RPC functions exported by the agent.
const (
	ExportListPackages = "listPackages"
	ExportPackageInfo  = "packageInfo"
	ExportLabel        = "label"
	ExportPermissions  = "permissions"
)

// resultError returns the error carried by an RPC result, if any.
func resultError(result any) error {
	if err, ok := result.(error); ok {
		return err
	}

	return nil
}

// DecodePackages decodes the result of ExportListPackages.
func DecodePackages(result any) ([]inventory.RawPackage, error) {
	if err := resultError(result); err != nil {
		return nil, err
	}

	var packages []inventory.RawPackage

	err := mapstructure.Decode(result, &packages)
	if err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}

	return packages, nil
}

// DecodePackage decodes the result of ExportPackageInfo. A null result means the
// package is not installed.
func DecodePackage(result any) (*inventory.RawPackage, error) {
	if err := resultError(result); err != nil {
		return nil, err
	}

	if result == nil {
		return nil, inventory.ErrPackageNotFound
	}

	var pkg inventory.RawPackage

	err := mapstructure.Decode(result, &pkg)
	if err != nil {
		return nil, fmt.Errorf("decode package: %w", err)
	}

	return &pkg, nil
}

// DecodeLabel decodes the result of ExportLabel.
func DecodeLabel(result any) (string, error) {
	if err := resultError(result); err != nil {
		return "", err
	}

	label, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("decode label: unexpected %T", result)
	}

	return label, nil
}

// DecodePermissions decodes the result of ExportPermissions. A null result means
// the package is not installed.
func DecodePermissions(result any) ([]string, error) {
	if err := resultError(result); err != nil {
		return nil, err
	}

	if result == nil {
		return nil, inventory.ErrPackageNotFound
	}

	var permissions []string

	err := mapstructure.Decode(result, &permissions)
	if err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	return permissions, nil
}

// DecodeIcon picks the first icon out of the parameters Frida reports for an
// application. It returns nil if the application has no icon.
func DecodeIcon(params map[string]any) (*inventory.Icon, error) {
	var p struct {
		Icons []struct {
			Format string `mapstructure:"format"`
			Width  int    `mapstructure:"width"`
			Height int    `mapstructure:"height"`
			Image  []byte `mapstructure:"image"`
		} `mapstructure:"icons"`
	}

	err := mapstructure.Decode(params, &p)
	if err != nil {
		return nil, fmt.Errorf("decode application parameters: %w", err)
	}

	for _, icon := range p.Icons {
		if len(icon.Image) == 0 {
			continue
		}

		return &inventory.Icon{
			Format: icon.Format,
			Width:  icon.Width,
			Height: icon.Height,
			Image:  icon.Image,
		}, nil
	}

	return nil, nil
}
