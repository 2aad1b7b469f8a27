// Package storage persists engine settings in a BadgerDB key/value store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

// Storage keys
const (
	keySettings = "settings"
	keyFirstRun = "first_run"
)

// Hash size bounds in megabytes.
const (
	defaultHashMB = 64
	minHashMB     = 1
	maxHashMB     = 4096
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: not found")

// Settings are the user-adjustable engine options that survive restarts.
type Settings struct {
	HashMB int  `json:"hash_mb"`
	Color  bool `json:"color"`
	Debug  bool `json:"debug"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{HashMB: defaultHashMB}
}

// Normalize clamps the hash size into the supported range.
func (s *Settings) Normalize() {
	s.HashMB = max(minHashMB, min(s.HashMB, maxHashMB))
}

// Storage wraps BadgerDB.
type Storage struct {
	db  *badger.DB
	log logr.Logger
}

// Options configure Open.
type Options struct {
	// Dir is the database directory. Empty means DatabaseDir().
	Dir string
	// InMemory keeps everything in memory; Dir is ignored.
	InMemory bool
	Logger   logr.Logger
}

// Open opens (or creates) the settings store.
func Open(o Options) (*Storage, error) {
	log := o.Logger

	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := o.Dir
		if dir == "" {
			var err error
			if dir, err = DatabaseDir(); err != nil {
				return nil, fmt.Errorf("storage: data directory: %w", err)
			}
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = badgerLogger{log.WithName("badger")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", opts.Dir, err)
	}
	log.V(1).Info("settings store opened", "dir", opts.Dir, "inMemory", o.InMemory)
	return &Storage{db: db, log: log}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// LoadSettings returns the saved settings, or the defaults when nothing
// was saved yet.
func (s *Storage) LoadSettings() (Settings, error) {
	settings := DefaultSettings()
	err := s.get(keySettings, &settings)
	if errors.Is(err, ErrNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("storage: load settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings persists settings.
func (s *Storage) SaveSettings(settings Settings) error {
	settings.Normalize()
	if err := s.put(keySettings, settings); err != nil {
		return fmt.Errorf("storage: save settings: %w", err)
	}
	s.log.V(1).Info("settings saved", "hash", settings.HashMB, "color", settings.Color, "debug", settings.Debug)
	return nil
}

// IsFirstRun reports whether MarkFirstRunComplete was never called.
func (s *Storage) IsFirstRun() (bool, error) {
	var done bool
	err := s.get(keyFirstRun, &done)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	return !done, err
}

// MarkFirstRunComplete records that the store has been initialised.
func (s *Storage) MarkFirstRunComplete() error {
	return s.put(keyFirstRun, true)
}

// badgerLogger forwards badger's printf-style logging to logr. Warnings
// and errors always print, info and debug only at higher verbosity.
type badgerLogger struct {
	log logr.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error(nil, fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...), "level", "warning")
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.V(2).Info(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.V(3).Info(fmt.Sprintf(format, args...))
}
