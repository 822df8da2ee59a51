package storage

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

const (
	dbfsScheme = "dbfs:"
	dbfsMount  = "/dbfs"
)

// LocalizePath rewrites a dbfs: URI to its /dbfs mount equivalent, the
// local-addressable form of the same location. Plain paths pass through.
func LocalizePath(p string) string {
	if strings.HasPrefix(p, dbfsScheme) {
		return dbfsMount + strings.TrimPrefix(p, dbfsScheme)
	}
	return p
}

// Store persists directories, JSON documents and raw files at a path,
// uniformly for local paths and dbfs-style URIs.
type Store interface {
	MkdirAll(path string) error
	WriteDocument(path string, doc interface{}) error
	WriteFile(path string, data []byte) error
}

type fsStore struct {
	fs afero.Fs
}

// NewStore returns a Store backed by fs. Paths are localized before use,
// so dbfs: URIs land on the /dbfs mount.
func NewStore(fs afero.Fs) Store {
	return &fsStore{fs: fs}
}

// Resolve returns the store serving a path's scheme. Local paths and
// dbfs: URIs are both served by the OS filesystem; the latter through the
// mount LocalizePath points at.
func Resolve(string) Store {
	return NewStore(afero.NewOsFs())
}

func (s *fsStore) MkdirAll(p string) error {
	if err := s.fs.MkdirAll(LocalizePath(p), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", p, err)
	}
	return nil
}

func (s *fsStore) WriteDocument(p string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", p, err)
	}
	return s.WriteFile(p, append(data, '\n'))
}

func (s *fsStore) WriteFile(p string, data []byte) error {
	local := LocalizePath(p)
	if err := s.fs.MkdirAll(path.Dir(local), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path.Dir(p), err)
	}
	if err := afero.WriteFile(s.fs, local, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
