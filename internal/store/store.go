// Package store persists the application's single JSON document: user
// accounts, session counters, query logs, and login logs.
//
// The whole document is read before each operation and written after it.
// Writes are atomic (temp file + rename), so a crash between operations
// never leaves a half-written file. Read distinguishes "absent" from
// "corrupt" so callers and tests can tell the two apart; Load collapses
// both into the canonical empty document, which is the behavior the
// request path relies on.
//
// # Concurrency
//
// Update serializes read-modify-write cycles with an in-process mutex and
// a [github.com/gofrs/flock] file lock, closing the lost-update race
// between concurrent requests and between processes sharing a data
// directory. Save failures inside Update are logged and swallowed: a
// storage hiccup must never turn into a user-visible error.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/fyreone/fyreone/internal/log"
)

// DataFileName is the name of the document file inside the data directory.
const DataFileName = "fyreone_data.json"

// ErrMalformed indicates the backing file exists but does not parse as a
// Document. Load treats this the same as an absent file; Read surfaces it.
var ErrMalformed = errors.New("malformed data file")

// Store manages the document file. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	flock  *flock.Flock
	logger log.Logger
}

// New creates a Store for the given data directory.
// The directory is created if missing; a nil logger falls back to NewNop.
func New(dir string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dir, DataFileName)
	s := &Store{
		path:   path,
		flock:  flock.New(path + ".lock"),
		logger: logger.With("component", "store"),
	}
	return s, nil
}

// Path returns the full path of the document file.
func (s *Store) Path() string {
	return s.path
}

// Read reads and decodes the document, surfacing failure modes explicitly:
// an absent file returns an error wrapping fs.ErrNotExist, an unparseable
// file returns an error wrapping ErrMalformed. Use Load on the request
// path, Read where the cause matters.
func (s *Store) Read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}

	doc.normalize()
	return &doc, nil
}

// Load reads the document, swallowing both failure modes into the
// canonical empty Document. A corrupt file is logged before being reset;
// an absent file is the normal first-run state and logged at debug only.
func (s *Store) Load() *Document {
	doc, err := s.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("data file absent, starting empty", "path", s.path)
		} else {
			s.logger.Warn("data file unreadable, resetting to empty", "path", s.path, "error", err)
		}
		return NewDocument()
	}
	return doc
}

// Save serializes the document and atomically replaces the backing file.
// The temp file lives in the same directory so the rename never crosses a
// filesystem boundary.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), DataFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Update runs one atomic read-modify-write cycle: load the document, apply
// fn, save. The in-process lock and the file lock are held for the whole
// cycle so concurrent updates never lose increments.
//
// A non-nil error from fn aborts the cycle without saving and is returned
// unchanged - this is how validate-then-mutate operations (duplicate email,
// wrong password) bail out. Save failures are logged and swallowed; Update
// never surfaces a storage error to its caller.
func (s *Store) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		// Another process holds a stale lock, or the filesystem refuses
		// locking entirely. Proceed under the in-process lock alone.
		s.logger.Warn("file lock unavailable, proceeding without it", "error", err)
	} else {
		defer func() {
			if err := s.flock.Unlock(); err != nil {
				s.logger.Warn("releasing file lock", "error", err)
			}
		}()
	}

	doc := s.Load()
	if err := fn(doc); err != nil {
		return err
	}

	if err := s.Save(doc); err != nil {
		s.logger.Error("could not save data", "error", err)
	}
	return nil
}
