package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// manifestErrorPrefix starts the document returned when a package cannot be loaded.
	manifestErrorPrefix = "Error loading manifest"

	// manifestMissingApplication is returned for packages without an application block.
	manifestMissingApplication = "Error: application info is missing"
)

// xmlEscaper escapes the five XML special characters. Replacements are applied
// in a single pass, so entities it produces are never escaped again.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML escapes text for use in an XML attribute value.
func escapeXML(text string) string {
	return xmlEscaper.Replace(text)
}

// sdkLabel formats an SDK level, or "Unknown" if it is undeclared.
func sdkLabel(level int) string {
	if level <= 0 {
		return UnknownVersion
	}

	return strconv.Itoa(level)
}

// renderManifest writes the manifest-like document of a package. pkg.Application
// must not be nil.
func renderManifest(pkg *RawPackage) string {
	var b strings.Builder

	app := pkg.Application

	// Header
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<manifest xmlns:android="http://schemas.android.com/apk/res/android"` + "\n")
	fmt.Fprintf(&b, "    package=\"%s\"\n", escapeXML(pkg.Identifier))
	fmt.Fprintf(&b, "    android:versionCode=\"%d\"\n", pkg.VersionCode)
	fmt.Fprintf(&b, "    android:versionName=\"%s\">\n\n", escapeXML(versionLabel(pkg.VersionName)))

	// SDK levels
	b.WriteString("    <uses-sdk\n")
	fmt.Fprintf(&b, "        android:minSdkVersion=\"%s\"\n", sdkLabel(app.MinSDK))
	fmt.Fprintf(&b, "        android:targetSdkVersion=\"%s\" />\n\n", sdkLabel(app.TargetSDK))

	// Permissions
	if len(pkg.Permissions) > 0 {
		for _, permission := range pkg.Permissions {
			fmt.Fprintf(&b, "    <uses-permission android:name=\"%s\" />\n", escapeXML(permission))
		}

		b.WriteString("\n")
	}

	// Application
	b.WriteString("    <application\n")
	fmt.Fprintf(&b, "        android:label=\"%s\"\n", escapeXML(displayName(app.Label, pkg.Identifier)))
	fmt.Fprintf(&b, "        android:name=\"%s\"\n", escapeXML(app.ClassName))
	b.WriteString("        android:icon=\"@mipmap/ic_launcher\">\n\n")

	// Activities
	if len(pkg.Activities) > 0 {
		for _, activity := range pkg.Activities {
			b.WriteString("        <activity\n")
			fmt.Fprintf(&b, "            android:name=\"%s\"\n", escapeXML(activity.Name))
			fmt.Fprintf(&b, "            android:exported=\"%t\" />\n", activity.Exported)
		}

		b.WriteString("\n")
	}

	// Services and receivers
	writeComponents(&b, "service", pkg.Services)
	writeComponents(&b, "receiver", pkg.Receivers)

	b.WriteString("    </application>\n")
	b.WriteString("</manifest>")

	return b.String()
}

// writeComponents writes one element per component, followed by a blank line.
func writeComponents(b *strings.Builder, tag string, components []Component) {
	if len(components) == 0 {
		return
	}

	for _, component := range components {
		fmt.Fprintf(b, "        <%s\n", tag)
		fmt.Fprintf(b, "            android:name=\"%s\" />\n", escapeXML(component.Name))
	}

	b.WriteString("\n")
}
