package device

import (
	"context"
	"fmt"

	"github.com/crissyfield/appinventory/internal/device/agent"
	"github.com/crissyfield/appinventory/internal/inventory"
)

var _ inventory.Gateway = (*Gateway)(nil)

// Gateway answers package queries by calling the agent loaded into a device process.
type Gateway struct {
	device *Device
	script *Script
}

// OpenGateway loads the agent into the named process of an Android device.
// "system_server" is always running and has access to every package.
func OpenGateway(dev *Device, process string) (*Gateway, error) {
	// Ensure the device meets the requirements
	if !dev.IsAndroid() {
		return nil, fmt.Errorf("android device required, found %s/%s", dev.Platform, dev.OS)
	}

	// Find the host process
	pid, err := dev.GetProcessID(process)
	if err != nil {
		return nil, fmt.Errorf("find agent process: %w", err)
	}

	// Load agent
	script, err := dev.LoadScriptIntoProcess(agent.Source, pid)
	if err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}

	return &Gateway{device: dev, script: script}, nil
}

// Close unloads the agent.
func (gw *Gateway) Close() {
	gw.script.Close()
}

// ListInstalledPackages implements inventory.Gateway.
func (gw *Gateway) ListInstalledPackages(ctx context.Context) ([]inventory.RawPackage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return agent.DecodePackages(gw.script.Call(agent.ExportListPackages))
}

// GetPackage implements inventory.Gateway.
func (gw *Gateway) GetPackage(ctx context.Context, identifier string) (*inventory.RawPackage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return agent.DecodePackage(gw.script.Call(agent.ExportPackageInfo, identifier))
}

// GetLabel implements inventory.Gateway.
func (gw *Gateway) GetLabel(ctx context.Context, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return agent.DecodeLabel(gw.script.Call(agent.ExportLabel, identifier))
}

// GetIcon implements inventory.Gateway.
func (gw *Gateway) GetIcon(ctx context.Context, identifier string) (*inventory.Icon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return gw.device.ApplicationIcon(identifier)
}

// GetPermissions implements inventory.Gateway.
func (gw *Gateway) GetPermissions(ctx context.Context, identifier string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return agent.DecodePermissions(gw.script.Call(agent.ExportPermissions, identifier))
}
