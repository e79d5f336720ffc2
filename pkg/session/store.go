package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned by Load when no credential has been saved.
var ErrNotFound = errors.New("session: no saved credential")

// Info describes the stored credential.
type Info struct {
	Exists    bool
	Count     int
	CreatedAt time.Time
}

// Metadata is written next to the credential after a successful login.
type Metadata struct {
	User    string    `json:"user"`
	SavedAt time.Time `json:"savedAt"`
}

// FileStore persists the portal credential as a JSON cookie file plus the
// browser profile directory that belongs to the same session.
// No initialization is required; directories are created on first save.
type FileStore struct {
	path       string
	profileDir string
}

// NewFileStore creates a store for the cookie file at path. profileDir is
// removed by Clear alongside the file.
func NewFileStore(path, profileDir string) *FileStore {
	return &FileStore{
		path:       path,
		profileDir: profileDir,
	}
}

// Path returns the cookie file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) metadataPath() string {
	return s.path + ".meta"
}

// Save writes cred atomically via a temporary file.
func (s *FileStore) Save(cred Credential) error {
	if cred == nil {
		cred = Credential{}
	}
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Load reads the stored credential. An empty array loads successfully;
// callers check Usable.
func (s *FileStore) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential %s: %w", s.path, err)
	}
	return cred, nil
}

// Describe reports whether a credential exists, how many cookies it holds
// and when it was written.
func (s *FileStore) Describe() Info {
	stat, err := os.Stat(s.path)
	if err != nil {
		return Info{}
	}
	cred, err := s.Load()
	if err != nil {
		return Info{}
	}
	return Info{
		Exists:    true,
		Count:     len(cred),
		CreatedAt: stat.ModTime(),
	}
}

// SaveMetadata writes the login metadata sidecar.
func (s *FileStore) SaveMetadata(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return writeAtomic(s.metadataPath(), data)
}

// LoadMetadata reads the sidecar written by SaveMetadata.
func (s *FileStore) LoadMetadata() (Metadata, error) {
	var meta Metadata
	data, err := os.ReadFile(s.metadataPath())
	if errors.Is(err, os.ErrNotExist) {
		return meta, ErrNotFound
	}
	if err != nil {
		return meta, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return meta, nil
}

// Clear deletes the credential, its sidecar and the browser profile.
// Every step is attempted; only unexpected failures are reported.
func (s *FileStore) Clear() error {
	var errs []error
	for _, p := range []string{s.path, s.metadataPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if s.profileDir != "" {
		if err := os.RemoveAll(s.profileDir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
