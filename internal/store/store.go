// Package store persists the ledger document.
//
// Every backend keeps the whole document as one unit: View decodes a fresh
// copy for reading, and Update decodes a copy, hands it to the callback and
// writes the whole document back only if the callback succeeds. Writers are
// serialized per backend so that two concurrent updates cannot lose each
// other's changes.
package store

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"amartaka-bot/internal/model"
)

// ErrConflict is returned when an optimistic update kept losing to other writers.
var ErrConflict = errors.New("document changed concurrently")

// Store gives transactional access to the ledger document.
type Store interface {
	// View calls fn with a private copy of the current document.
	View(ctx context.Context, fn func(doc *model.Document) error) error

	// Update calls fn with a private copy of the current document and
	// persists the result if fn returns nil. An error from fn is returned
	// unchanged and nothing is written.
	Update(ctx context.Context, fn func(doc *model.Document) error) error

	// Close releases backend resources.
	Close() error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Encode serializes the document in its on-disk layout.
func Encode(doc *model.Document) ([]byte, error) {
	doc.Normalize()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return b, nil
}

// Decode parses a document. Empty input yields an empty document.
func Decode(b []byte) (*model.Document, error) {
	doc := model.NewDocument()
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Snapshot returns a copy of the current document.
func Snapshot(ctx context.Context, s Store) (*model.Document, error) {
	var out *model.Document
	err := s.View(ctx, func(doc *model.Document) error {
		out = doc
		return nil
	})
	return out, err
}
