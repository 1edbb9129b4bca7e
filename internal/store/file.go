package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"amartaka-bot/internal/model"
)

// File stores the document as one indented JSON file.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile opens the document at path, creating it with empty collections
// if it does not exist.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := f.write(model.NewDocument()); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("Created empty ledger document")
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}
	return f, nil
}

func (f *File) read() (*model.Document, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Decode(b)
}

// write replaces the file through a rename so readers never see a torn document.
func (f *File) write(doc *model.Document) error {
	b, err := Encode(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

func (f *File) View(ctx context.Context, fn func(doc *model.Document) error) error {
	f.mu.Lock()
	doc, err := f.read()
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (f *File) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := f.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return f.write(doc)
}

func (f *File) Close() error { return nil }
