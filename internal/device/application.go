package device

import (
	"fmt"

	"github.com/frida/frida-go/frida"

	"github.com/crissyfield/appinventory/internal/device/agent"
	"github.com/crissyfield/appinventory/internal/inventory"
)

// ApplicationIcon retrieves the icon of an application installed on the device.
// It returns nil if the application has no icon.
func (dev *Device) ApplicationIcon(identifier string) (*inventory.Icon, error) {
	// Enumerate matching applications
	apps, err := dev.device.EnumerateApplications(identifier, frida.ScopeFull)
	if err != nil {
		return nil, fmt.Errorf("enumerate applications: %w", err)
	}

	for _, app := range apps {
		if app.Identifier() != identifier {
			continue
		}

		// Decode icons out of application parameters
		icon, err := agent.DecodeIcon(app.Params())
		if err != nil {
			return nil, err
		}

		return icon, nil
	}

	return nil, fmt.Errorf("%w [%s]", inventory.ErrPackageNotFound, identifier)
}
