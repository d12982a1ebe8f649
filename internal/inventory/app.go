package inventory

// UnknownVersion is reported when a package declares no version name.
const UnknownVersion = "Unknown"

// Icon is an opaque image handle resolved from the device.
type Icon struct {
	Format string // Format is the image encoding, e.g. "png".
	Width  int    // Width in pixels, zero if not reported.
	Height int    // Height in pixels, zero if not reported.
	Image  []byte // Image holds the encoded image bytes.
}

// AppRecord represents an installed application as shown to the user.
type AppRecord struct {
	Icon        *Icon  `json:"-" yaml:"-"`             // Icon is the resolved icon, nil if absent.
	Name        string `json:"name" yaml:"name"`       // Name is the display label of the application.
	PackageName string `json:"package" yaml:"package"` // PackageName is the unique package identifier.
	Version     string `json:"version" yaml:"version"` // Version is the version name or "Unknown".
	Pinned      bool   `json:"pinned" yaml:"pinned"`   // Pinned reports the pin state at fetch time.
}

// RawPackage holds the facts the platform reports for a single package.
type RawPackage struct {
	Identifier  string           `mapstructure:"identifier"`
	VersionName string           `mapstructure:"versionName"` // VersionName is empty when undeclared.
	VersionCode int64            `mapstructure:"versionCode"`
	Permissions []string         `mapstructure:"permissions"` // Permissions in declared order.
	Application *ApplicationInfo `mapstructure:"application"` // Application is nil when the platform reports none.
	Activities  []Activity       `mapstructure:"activities"`
	Services    []Component      `mapstructure:"services"`
	Receivers   []Component      `mapstructure:"receivers"`
}

// ApplicationInfo is the application block of a package.
type ApplicationInfo struct {
	Label     string `mapstructure:"label"`     // Label is the localized application label.
	ClassName string `mapstructure:"className"` // ClassName is the Application subclass, if any.
	System    bool   `mapstructure:"system"`    // System is set for packages on the system image.
	HasIcon   bool   `mapstructure:"hasIcon"`   // HasIcon is set when an icon resource is declared.
	MinSDK    int    `mapstructure:"minSdk"`    // MinSDK is zero when undeclared.
	TargetSDK int    `mapstructure:"targetSdk"` // TargetSDK is zero when undeclared.
}

// Activity is a declared activity component.
type Activity struct {
	Name     string `mapstructure:"name"`
	Exported bool   `mapstructure:"exported"`
}

// Component is a declared service or receiver component.
type Component struct {
	Name string `mapstructure:"name"`
}
