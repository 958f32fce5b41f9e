package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// File stores every key in a single JSON object on disk. The document is
// re-read on each Get so several processes sharing the file see each other's
// writes; concurrent writers are last-write-wins.
type File struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewFile(fsys afero.Fs, path string) *File {
	return &File{fs: fsys, path: path}
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("kvstore: value for %q is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", f.path, err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("kvstore: create dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, raw, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("kvstore: replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) read() (map[string]json.RawMessage, error) {
	raw, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read %s: %w", f.path, err)
	}

	doc := make(map[string]json.RawMessage)
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("kvstore: decode %s: %w", f.path, err)
	}
	return doc, nil
}
