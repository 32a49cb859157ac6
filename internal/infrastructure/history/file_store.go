package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/pkg/filesystem"
	"github.com/doeshing/sllm/internal/ports"
)

// FileStore keeps the exchange log as a JSON array in history.json,
// oldest first.
type FileStore struct {
	fs    afero.Fs
	path  string
	limit int
	log   ports.Logger
}

// NewFileStore creates a store for <dir>/history.json capped at limit
// exchanges.
func NewFileStore(fs afero.Fs, dir string, limit int, log ports.Logger) *FileStore {
	if limit <= 0 {
		limit = domain.MaxHistoryStore
	}
	return &FileStore{
		fs:    fs,
		path:  filepath.Join(dir, domain.HistoryFileName),
		limit: limit,
		log:   log,
	}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Ensure creates the directory and an empty log when absent.
func (f *FileStore) Ensure() error {
	if err := f.fs.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return &domain.IOError{Op: "create", Path: filepath.Dir(f.path), Err: err}
	}
	exists, err := afero.Exists(f.fs, f.path)
	if err != nil {
		return &domain.IOError{Op: "stat", Path: f.path, Err: err}
	}
	if exists {
		return nil
	}
	if err := afero.WriteFile(f.fs, f.path, []byte("[]"), domain.DataFilePermissions); err != nil {
		return &domain.IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

// Append implements ports.HistoryRepository.
func (f *FileStore) Append(entry domain.HistoryEntry) error {
	return f.write(f.read().Append(entry, f.limit))
}

// Window implements ports.HistoryRepository.
func (f *FileStore) Window(count int, newestFirst bool) ([]domain.HistoryEntry, error) {
	return f.read().Window(count, newestFirst), nil
}

// Undo drops the n most recent exchanges.
func (f *FileStore) Undo(n int) error {
	return f.write(f.read().Undo(n))
}

// Last returns the most recent exchange.
func (f *FileStore) Last() (domain.HistoryEntry, bool, error) {
	entry, ok := f.read().Last()
	return entry, ok, nil
}

// Purge removes the history file.
func (f *FileStore) Purge() error {
	if err := filesystem.RemoveIfExists(f.fs, f.path); err != nil {
		return &domain.IOError{Op: "remove", Path: f.path, Err: err}
	}
	return nil
}

// read loads the log. A missing, unreadable or corrupt file yields an empty
// log and a warning: history must never block a new prompt.
func (f *FileStore) read() domain.HistoryLog {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.warn("can not read history file", err)
		}
		return domain.HistoryLog{}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.HistoryLog{}
	}
	var log domain.HistoryLog
	if err := json.Unmarshal(data, &log); err != nil {
		f.warn("can not parse history file, starting with an empty history", err)
		return domain.HistoryLog{}
	}
	return log
}

func (f *FileStore) write(log domain.HistoryLog) error {
	if log == nil {
		log = domain.HistoryLog{}
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return err
	}
	if err := filesystem.AtomicWriteFile(f.fs, f.path, data, domain.DataFilePermissions); err != nil {
		return &domain.IOError{Op: "write", Path: f.path, Err: err}
	}
	return nil
}

func (f *FileStore) warn(msg string, err error) {
	if f.log == nil {
		return
	}
	f.log.Warn(msg, map[string]interface{}{"path": f.path, "error": err.Error()})
}

var _ ports.HistoryRepository = (*FileStore)(nil)
