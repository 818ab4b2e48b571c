package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/testutil"
)

func Test_TrustedDeviceRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newUser := func(t *testing.T, tx pgx.Tx) models.User {
		userRepo := UserRepo{DB: tx}
		user, err := userRepo.CreateUser(t.Context(), "deviceuser", "deviceuser@example.org", models.RoleMember, "hash")
		require.NoError(t, err)
		return user
	}

	t.Run("trust and check device", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TrustedDeviceRepo{DB: tx}
			user := newUser(t, tx)

			device, err := repo.Trust(t.Context(), user.ID, "browser-fingerprint-1")

			require.NoError(t, err)
			require.Equal(t, user.ID, device.UserID)
			require.Equal(t, "browser-fingerprint-1", device.DeviceID)
			require.False(t, device.CreatedAt.IsZero())

			trusted, err := repo.IsTrusted(t.Context(), user.ID, "browser-fingerprint-1")
			require.NoError(t, err)
			require.True(t, trusted)
		})
	})

	t.Run("unknown device not trusted", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TrustedDeviceRepo{DB: tx}
			user := newUser(t, tx)

			trusted, err := repo.IsTrusted(t.Context(), user.ID, "never-seen")

			require.NoError(t, err)
			require.False(t, trusted)
		})
	})

	t.Run("trusting twice bumps last seen", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TrustedDeviceRepo{DB: tx}
			user := newUser(t, tx)

			first, err := repo.Trust(t.Context(), user.ID, "browser-fingerprint-1")
			require.NoError(t, err)

			second, err := repo.Trust(t.Context(), user.ID, "browser-fingerprint-1")
			require.NoError(t, err)

			require.Equal(t, first.ID, second.ID, "same device row should be kept")
			require.False(t, second.LastSeen.Before(first.LastSeen), "last seen should not go backwards")
		})
	})

	t.Run("device trusted per user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TrustedDeviceRepo{DB: tx}
			userRepo := UserRepo{DB: tx}

			alice, err := userRepo.CreateUser(t.Context(), "alice", "alice@example.org", models.RoleMember, "hash")
			require.NoError(t, err)
			bob, err := userRepo.CreateUser(t.Context(), "bob", "bob@example.org", models.RoleMember, "hash")
			require.NoError(t, err)

			_, err = repo.Trust(t.Context(), alice.ID, "shared-family-laptop")
			require.NoError(t, err)

			trusted, err := repo.IsTrusted(t.Context(), bob.ID, "shared-family-laptop")
			require.NoError(t, err)
			require.False(t, trusted, "trust is scoped to the user who verified")
		})
	})
}
