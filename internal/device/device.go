// Package device reads package facts from an Android device through Frida.
package device

import (
	"fmt"
	"sync"

	"github.com/frida/frida-go/frida"
	"github.com/go-viper/mapstructure/v2"
)

// Device is a Frida device.
type Device struct {
	device frida.DeviceInt

	ID       string // ID is the Frida device ID, e.g. the adb serial.
	Name     string // Name is the human-readable name of the device.
	Access   string // Access can be "full" or "limited".
	Platform string // Platform can be "darwin", "linux", etc..
	Arch     string // Arch can be "arm64", "x86_64", etc..
	OS       string // OS can be "ios", "android", etc..
	Version  string // Version is the OS version, e.g. "14".
}

// deviceParams are the system parameters reported by a device.
type deviceParams struct {
	Name     string `mapstructure:"name"`
	Access   string `mapstructure:"access"`
	Platform string `mapstructure:"platform"`
	Arch     string `mapstructure:"arch"`
	OS       struct {
		ID      string `mapstructure:"id"`
		Version string `mapstructure:"version"`
	} `mapstructure:"os"`
}

var (
	deviceManager     *frida.DeviceManager
	deviceManagerOnce sync.Once
)

// FindDevice returns the device with the given ID, or the first USB device if id
// is empty.
func FindDevice(id string) (*Device, error) {
	// Initialize device manager, if not done already
	deviceManagerOnce.Do(func() {
		deviceManager = frida.NewDeviceManager()
	})

	if deviceManager == nil {
		return nil, fmt.Errorf("device manager unavailable")
	}

	// Pick device
	devices, err := deviceManager.EnumerateDevices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}

	var device frida.DeviceInt

	for _, dev := range devices {
		if (id == "" && dev.DeviceType() == frida.DeviceTypeUsb) || (id != "" && dev.ID() == id) {
			device = dev
			break
		}
	}

	if device == nil {
		if id != "" {
			return nil, fmt.Errorf("device not found [%s]", id)
		}

		return nil, fmt.Errorf("no usb device found")
	}

	return describeDevice(device)
}

// describeDevice reads the system parameters of a device.
func describeDevice(device frida.DeviceInt) (*Device, error) {
	ps, err := device.Params()
	if err != nil {
		return nil, fmt.Errorf("get device parameters: %w", err)
	}

	var params deviceParams

	err = mapstructure.Decode(ps, &params)
	if err != nil {
		return nil, fmt.Errorf("decode device parameters: %w", err)
	}

	// Older Frida servers omit the name parameter
	name := params.Name
	if name == "" {
		name = device.Name()
	}

	return &Device{
		device:   device,
		ID:       device.ID(),
		Name:     name,
		Access:   params.Access,
		Platform: params.Platform,
		Arch:     params.Arch,
		OS:       params.OS.ID,
		Version:  params.OS.Version,
	}, nil
}

// IsAndroid reports whether the device runs Android.
func (dev *Device) IsAndroid() bool {
	return dev.Platform == "linux" && dev.OS == "android"
}

// GetProcessID returns the ID of the running process with the given name.
func (dev *Device) GetProcessID(name string) (int, error) {
	processes, err := dev.device.EnumerateProcesses(frida.ScopeMetadata)
	if err != nil {
		return 0, fmt.Errorf("enumerate processes: %w", err)
	}

	for _, p := range processes {
		if p.Name() == name {
			return p.PID(), nil
		}
	}

	return 0, fmt.Errorf("process not found [%s]", name)
}
