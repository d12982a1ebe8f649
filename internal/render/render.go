// Package render writes inventory results to a terminal or as structured documents.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/crissyfield/appinventory/internal/config"
	"github.com/crissyfield/appinventory/internal/inventory"
)

// pinMarker flags pinned records in tables.
const pinMarker = "*"

// appDetail is the document written for a single application.
type appDetail struct {
	inventory.AppRecord `yaml:",inline"`
	Permissions         []string `json:"permissions" yaml:"permissions"`
}

// Apps writes a list of application records.
func Apps(w io.Writer, format string, apps []inventory.AppRecord) error {
	if format != config.FormatTable {
		return document(w, format, apps)
	}

	data := pterm.TableData{{"", "Name", "Package", "Version"}}
	for _, app := range apps {
		data = append(data, []string{marker(app.Pinned), app.Name, app.PackageName, app.Version})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// App writes a single application record and its permissions.
func App(w io.Writer, format string, app *inventory.AppRecord, permissions []string) error {
	if format != config.FormatTable {
		return document(w, format, appDetail{AppRecord: *app, Permissions: permissions})
	}

	data := pterm.TableData{
		{"Name", app.Name},
		{"Package", app.PackageName},
		{"Version", app.Version},
		{"Pinned", fmt.Sprintf("%t", app.Pinned)},
		{"Icon", iconSummary(app.Icon)},
	}

	if err := pterm.DefaultTable.WithData(data).WithWriter(w).Render(); err != nil {
		return err
	}

	return Strings(w, format, "Permission", permissions)
}

// Strings writes a list of strings under a single column title.
func Strings(w io.Writer, format string, title string, items []string) error {
	if format != config.FormatTable {
		return document(w, format, items)
	}

	data := pterm.TableData{{title}}
	for _, item := range items {
		data = append(data, []string{item})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

// Manifest writes a manifest document, highlighted as XML if color is set.
func Manifest(w io.Writer, manifest string, color bool) error {
	if !color {
		_, err := fmt.Fprintln(w, manifest)
		return err
	}

	if err := quick.Highlight(w, manifest+"\n", "xml", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("highlight manifest: %w", err)
	}

	return nil
}

// document writes v as YAML or JSON.
func document(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()

	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	default:
		return fmt.Errorf("unsupported output format [%s]", format)
	}
}

// marker returns the table marker of a pin state.
func marker(pinned bool) string {
	if pinned {
		return pinMarker
	}

	return ""
}

// iconSummary describes an icon in a single table cell.
func iconSummary(icon *inventory.Icon) string {
	if icon == nil {
		return "none"
	}

	if icon.Width > 0 && icon.Height > 0 {
		return fmt.Sprintf("%s %dx%d, %d bytes", icon.Format, icon.Width, icon.Height, len(icon.Image))
	}

	return fmt.Sprintf("%s, %d bytes", icon.Format, len(icon.Image))
}
