package prefs

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const (
	// header is the XML declaration Android writes at the top of preference files.
	header = "<?xml version='1.0' encoding='utf-8' standalone='yes' ?>\n"

	// tagSet is the element name of string set entries.
	tagSet = "set"

	// tagString is the element name of string entries and set members.
	tagString = "string"
)

// document is the <map> root of a preferences file.
type document struct {
	XMLName xml.Name `xml:"map"`
	Entries []entry  `xml:",any"`
}

// entry is a single typed preference. Entries other than sets are kept as read
// so that writing a document does not drop them.
type entry struct {
	XMLName xml.Name
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr,omitempty"`
	Text    string   `xml:",chardata"`
	Strings []string `xml:"string"`
}

// newSetEntry returns a <set> entry holding values.
func newSetEntry(name string, values []string) entry {
	return entry{
		XMLName: xml.Name{Local: tagSet},
		Name:    name,
		Strings: append([]string(nil), values...),
	}
}

// lookup returns the entry named key, or nil.
func (d *document) lookup(key string) *entry {
	for i := range d.Entries {
		if d.Entries[i].Name == key {
			return &d.Entries[i]
		}
	}

	return nil
}

// put replaces or appends an entry.
func (d *document) put(e entry) {
	if old := d.lookup(e.Name); old != nil {
		*old = e
		return
	}

	d.Entries = append(d.Entries, e)
}

// remove deletes the entry named key and reports whether it existed.
func (d *document) remove(key string) bool {
	for i := range d.Entries {
		if d.Entries[i].Name == key {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return true
		}
	}

	return false
}

// decode parses a preferences file.
func decode(data []byte) (*document, error) {
	var doc document

	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	// Sets carry only indentation as character data
	for i := range doc.Entries {
		if doc.Entries[i].XMLName.Local == tagSet {
			doc.Entries[i].Text = ""
		} else if doc.Entries[i].XMLName.Local != tagString {
			doc.Entries[i].Text = strings.TrimSpace(doc.Entries[i].Text)
		}
	}

	return &doc, nil
}

// encode renders a preferences file.
func encode(doc *document) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "    ")

	if err := enc.Encode(doc); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
