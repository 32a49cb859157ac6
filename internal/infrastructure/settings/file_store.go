package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/pkg/filesystem"
	"github.com/doeshing/sllm/internal/ports"
)

// FileStore keeps the default option record in settings.json.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore creates a store for <dir>/settings.json on fs.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: filepath.Join(dir, domain.SettingsFileName),
	}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Ensure creates the directory and an empty record when absent.
func (s *FileStore) Ensure() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return &domain.IOError{Op: "create", Path: filepath.Dir(s.path), Err: err}
	}
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return &domain.IOError{Op: "stat", Path: s.path, Err: err}
	}
	if exists {
		return nil
	}
	if err := afero.WriteFile(s.fs, s.path, []byte("{}"), domain.DataFilePermissions); err != nil {
		return &domain.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Load implements ports.SettingsRepository. A missing or blank file is an
// empty record.
func (s *FileStore) Load() (domain.Options, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Options{}, nil
		}
		return domain.Options{}, &domain.IOError{Op: "read", Path: s.path, Err: err}
	}
	return Decode(data, s.path)
}

// Save implements ports.SettingsRepository. The record replaces whatever
// was stored before.
func (s *FileStore) Save(opts domain.Options) error {
	data, err := Encode(opts)
	if err != nil {
		return err
	}
	if err := filesystem.AtomicWriteFile(s.fs, s.path, data, domain.DataFilePermissions); err != nil {
		return &domain.IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// Purge deletes the settings file.
func (s *FileStore) Purge() error {
	if err := filesystem.RemoveIfExists(s.fs, s.path); err != nil {
		return &domain.IOError{Op: "remove", Path: s.path, Err: err}
	}
	return nil
}

// Raw returns the file content as stored.
func (s *FileStore) Raw() ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil && os.IsNotExist(err) {
		return []byte("{}"), nil
	}
	return data, err
}

// Decode parses a settings record. Comments and trailing commas are
// accepted so hand-edited files keep working.
func Decode(data []byte, source string) (domain.Options, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Options{}, nil
	}
	var opts domain.Options
	if err := json.Unmarshal(jsonc.ToJSON(data), &opts); err != nil {
		return domain.Options{}, &domain.ConfigurationError{
			Msg:    fmt.Sprintf("cannot parse settings file %s", source),
			Remedy: []string{"Fix the file by hand or reset it with `sllm .settings-purge`."},
			Err:    err,
		}
	}
	return opts, nil
}

// Encode renders a record the way it is stored on disk.
func Encode(opts domain.Options) ([]byte, error) {
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return append(data, '\n'), nil
}

var _ ports.SettingsRepository = (*FileStore)(nil)
