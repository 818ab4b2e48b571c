package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/testutil"
)

func Test_LoginCodeRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Codes reference a user row, create one per transaction
	newCode := func(t *testing.T, tx pgx.Tx) models.LoginCode {
		userRepo := UserRepo{DB: tx}
		user, err := userRepo.CreateUser(t.Context(), "codeuser", "codeuser@example.org", models.RoleMember, "hash")
		require.NoError(t, err)

		now := time.Now().Truncate(time.Microsecond)
		return models.LoginCode{
			ID:           uuid.New(),
			UserID:       user.ID,
			Code:         "482913",
			CreatedAt:    now,
			ExpiresAt:    now.Add(10 * time.Minute),
			AttemptsLeft: 3,
			UsedAt:       nil,
		}
	}

	t.Run("save and get code", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}
			code := newCode(t, tx)

			require.NoError(t, repo.Save(t.Context(), code))

			got, err := repo.Get(t.Context(), code.ID)

			require.NoError(t, err)
			require.Equal(t, code.ID, got.ID)
			require.Equal(t, code.UserID, got.UserID)
			require.Equal(t, "482913", got.Code)
			require.Equal(t, 3, got.AttemptsLeft)
			require.WithinDuration(t, code.ExpiresAt, got.ExpiresAt, 0)
			require.Nil(t, got.UsedAt, "UsedAt should be nil for a fresh code")
		})
	})

	t.Run("get not existed code", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}

			_, err := repo.Get(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrLoginCodeNotFound)
		})
	})

	t.Run("decrement attempts", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}
			code := newCode(t, tx)
			require.NoError(t, repo.Save(t.Context(), code))

			left, err := repo.DecrementAttempts(t.Context(), code.ID)
			require.NoError(t, err)
			require.Equal(t, 2, left)

			left, err = repo.DecrementAttempts(t.Context(), code.ID)
			require.NoError(t, err)
			require.Equal(t, 1, left)

			left, err = repo.DecrementAttempts(t.Context(), code.ID)
			require.NoError(t, err)
			require.Equal(t, 0, left)

			// Attempts exhausted, further tries must fail
			_, err = repo.DecrementAttempts(t.Context(), code.ID)
			require.ErrorIs(t, err, apperrors.ErrLoginCodeNoAttempts)
		})
	})

	t.Run("mark code used", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}
			code := newCode(t, tx)
			require.NoError(t, repo.Save(t.Context(), code))

			require.NoError(t, repo.MarkUsed(t.Context(), code.ID))

			got, err := repo.Get(t.Context(), code.ID)
			require.NoError(t, err)
			require.NotNil(t, got.UsedAt)
		})
	})

	t.Run("mark used keeps first timestamp", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}
			code := newCode(t, tx)
			require.NoError(t, repo.Save(t.Context(), code))

			require.NoError(t, repo.MarkUsed(t.Context(), code.ID))
			first, err := repo.Get(t.Context(), code.ID)
			require.NoError(t, err)

			require.NoError(t, repo.MarkUsed(t.Context(), code.ID))
			second, err := repo.Get(t.Context(), code.ID)
			require.NoError(t, err)

			require.Equal(t, first.UsedAt, second.UsedAt, "used timestamp should not move")
		})
	})

	t.Run("mark used not existed code", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := LoginCodeRepo{DB: tx}

			err := repo.MarkUsed(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrLoginCodeNotFound)
		})
	})
}
