package wardclient

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DeviceStore persists the device identifier between runs
type DeviceStore interface {
	Load() (string, error)
	Save(id string) error
}

// FileDeviceStore keeps the identifier in a plain file
type FileDeviceStore struct {
	Path string
}

func (s *FileDeviceStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileDeviceStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(id+"\n"), 0o600)
}

// DeviceID hands out a stable identifier for this installation.
// The first call generates and persists one, later calls return the
// same value. It never fails: when the store is unusable the id is
// held in memory only and a fresh one appears on the next run.
type DeviceID struct {
	store DeviceStore

	mu sync.Mutex
	id string
}

func NewDeviceID(store DeviceStore) *DeviceID {
	return &DeviceID{store: store}
}

func (d *DeviceID) Get() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.id != "" {
		return d.id
	}

	if d.store != nil {
		id, err := d.store.Load()
		if err == nil && id != "" {
			d.id = id
			return d.id
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			// unreadable store, fall through to a fresh id
			d.store = nil
		}
	}

	d.id = uuid.NewString()
	if d.store != nil {
		if err := d.store.Save(d.id); err != nil {
			d.store = nil
		}
	}
	return d.id
}
