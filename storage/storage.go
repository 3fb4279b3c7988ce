// Package storage reads the JSON dataset served by the data endpoint.
//
// The dataset lives at a fixed path below the storage root. Its schema is
// opaque: Load decodes it into a generic tree of maps, slices and scalars so
// it can be re-encoded without assuming anything about its shape.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultRoot    = "./storage"
	DefaultDataset = "app/users_orders.json"
)

var (
	ErrNotFound     = errors.New("dataset not found")
	ErrMalformed    = errors.New("dataset is not valid JSON")
	ErrOutsideRoot  = errors.New("dataset path escapes the storage root")
	ErrAlreadyExist = errors.New("dataset already exists")
)

type Store struct {
	root    string
	dataset string
}

type DatasetInfo struct {
	Path       string    `json:"path"`
	Present    bool      `json:"present"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// New returns a Store for dataset, a slash separated path relative to root.
func New(root string, dataset string) (*Store, error) {
	if root == "" {
		root = DefaultRoot
	}
	if dataset == "" {
		dataset = DefaultDataset
	}

	rel := filepath.FromSlash(dataset)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, dataset)
	}

	return &Store{
		root:    filepath.Clean(root),
		dataset: rel,
	}, nil
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Path() string {
	return filepath.Join(s.root, s.dataset)
}

// Stat reports whether a regular file exists at the dataset path.
// Anything else at that path (nothing, a directory, a socket) is ErrNotFound.
func (s *Store) Stat() (DatasetInfo, error) {
	info := DatasetInfo{Path: s.Path()}

	fi, err := os.Stat(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, ErrNotFound
		}
		return info, fmt.Errorf("stat dataset: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return info, ErrNotFound
	}

	info.Present = true
	info.Size = fi.Size()
	info.ModifiedAt = fi.ModTime().UTC()
	return info, nil
}

// Load reads and decodes the dataset. The file is read on every call.
func (s *Store) Load() (any, error) {
	if _, err := s.Stat(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.Path())
	if err != nil {
		// removed between Stat and ReadFile
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return Decode(raw)
}

// Decode parses exactly one JSON value from raw. Numbers are kept as
// json.Number so re-encoding reproduces their original text.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformed)
	}

	return v, nil
}

// Write replaces the dataset atomically with the JSON encoding of v.
// Unless overwrite is set an existing dataset is left untouched.
func (s *Store) Write(v any, overwrite bool) error {
	path := s.Path()

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExist, path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}
