// Package prefs implements a named key-value preferences document, stored in the
// XML layout Android uses for SharedPreferences.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// Backend reads and writes whole preference documents.
type Backend interface {
	// ReadFile returns the content of the named file, or an error matching
	// fs.ErrNotExist if the file does not exist.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// WriteFile replaces the content of the named file.
	WriteFile(ctx context.Context, name string, data []byte) error
}

// Preferences is a named preferences document.
type Preferences struct {
	mu      sync.Mutex
	backend Backend
	name    string
}

// Open returns the preferences document with the given name. Nothing is read
// until the first access.
func Open(backend Backend, name string) *Preferences {
	return &Preferences{backend: backend, name: name}
}

// Name returns the file name of the document.
func (p *Preferences) Name() string {
	return p.name + ".xml"
}

// GetStringSet returns the string set stored under key. found is false if the
// document or the key does not exist.
func (p *Preferences) GetStringSet(ctx context.Context, key string) (values []string, found bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.read(ctx)
	if err != nil {
		return nil, false, err
	}

	e := doc.lookup(key)
	if e == nil {
		return nil, false, nil
	}

	if e.XMLName.Local != tagSet {
		return nil, false, fmt.Errorf("entry [%s] is a %s, not a set", key, e.XMLName.Local)
	}

	return e.Strings, true, nil
}

// PutStringSet stores values under key, replacing any previous entry.
func (p *Preferences) PutStringSet(ctx context.Context, key string, values []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.read(ctx)
	if err != nil {
		return err
	}

	doc.put(newSetEntry(key, values))

	return p.write(ctx, doc)
}

// Remove deletes the entry stored under key. Removing a missing key is not an error.
func (p *Preferences) Remove(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	doc, err := p.read(ctx)
	if err != nil {
		return err
	}

	if !doc.remove(key) {
		return nil
	}

	return p.write(ctx, doc)
}

// read loads the document. A missing file yields an empty document.
func (p *Preferences) read(ctx context.Context) (*document, error) {
	data, err := p.backend.ReadFile(ctx, p.Name())
	if errors.Is(err, fs.ErrNotExist) {
		return &document{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read preferences [%s]: %w", p.Name(), err)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode preferences [%s]: %w", p.Name(), err)
	}

	return doc, nil
}

// write stores the document.
func (p *Preferences) write(ctx context.Context, doc *document) error {
	data, err := encode(doc)
	if err != nil {
		return fmt.Errorf("encode preferences [%s]: %w", p.Name(), err)
	}

	if err := p.backend.WriteFile(ctx, p.Name(), data); err != nil {
		return fmt.Errorf("write preferences [%s]: %w", p.Name(), err)
	}

	return nil
}
