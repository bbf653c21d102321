// Package host defines the capability a host editor exposes to the engine:
// read the whole document text and replace it wholesale.
package host

import (
	"context"
	"errors"
	"sync"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrClosed indicates the document can no longer be mutated.
	ErrClosed = errors.New("document is closed")

	// ErrStale indicates the backing file changed since the document was read.
	ErrStale = errors.New("document changed since it was read")
)

// Document is a text buffer owned by the host.
type Document interface {
	// Text returns the full current text.
	Text() string

	// ReplaceText replaces the full text. On error the text is unchanged.
	ReplaceText(ctx context.Context, newText string) error
}

// MemoryDocument is an in-memory Document.
// It is safe for concurrent use.
type MemoryDocument struct {
	mu           sync.Mutex
	text         string
	closed       bool
	replacements int
}

// NewMemoryDocument creates a document holding text.
func NewMemoryDocument(text string) *MemoryDocument {
	return &MemoryDocument{text: text}
}

// Text returns the current text.
func (d *MemoryDocument) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// ReplaceText replaces the text, or returns ErrClosed after Close.
func (d *MemoryDocument) ReplaceText(ctx context.Context, newText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.text = newText
	d.replacements++
	return nil
}

// Close makes every later ReplaceText fail with ErrClosed.
func (d *MemoryDocument) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// Replacements returns how many times ReplaceText succeeded.
func (d *MemoryDocument) Replacements() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.replacements
}
