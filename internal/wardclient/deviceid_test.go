package wardclient

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Load() (string, error) { return "", errors.New("disk is on fire") }
func (failingStore) Save(string) error     { return errors.New("disk is on fire") }

func Test_DeviceID(t *testing.T) {
	t.Parallel()

	t.Run("stable across calls", func(t *testing.T) {
		d := NewDeviceID(nil)

		first := d.Get()
		require.NotEmpty(t, first)
		require.Equal(t, first, d.Get())
		require.Equal(t, first, d.Get())
	})

	t.Run("generated id is a uuid", func(t *testing.T) {
		d := NewDeviceID(nil)

		_, err := uuid.Parse(d.Get())
		require.NoError(t, err)
	})

	t.Run("persisted between instances", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device_id")
		store := &FileDeviceStore{Path: path}

		first := NewDeviceID(store).Get()
		second := NewDeviceID(store).Get()
		require.Equal(t, first, second, "a new instance over the same store should reuse the id")
	})

	t.Run("wiped store yields a fresh id", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "device_id")
		store := &FileDeviceStore{Path: path}

		first := NewDeviceID(store).Get()

		// the user cleared local state, the installation starts over
		require.NoError(t, os.Remove(path))

		second := NewDeviceID(store).Get()
		require.NotEqual(t, first, second, "a wiped store must not resurrect the old id")

		_, err := uuid.Parse(second)
		require.NoError(t, err)
	})

	t.Run("never fails on a broken store", func(t *testing.T) {
		d := NewDeviceID(failingStore{})

		id := d.Get()
		require.NotEmpty(t, id, "id should be handed out even when the store is unusable")
		require.Equal(t, id, d.Get(), "in-memory id should stay stable for the instance")
	})

	t.Run("file store creates parent dirs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "device_id")
		store := &FileDeviceStore{Path: path}

		id := NewDeviceID(store).Get()

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, id, loaded)
	})
}
