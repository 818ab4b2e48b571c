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

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_MemberRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	birthdate := mustParseTime("1984-03-11 00:00:00Z")
	member := models.Member{
		FirstName: "Alma",
		LastName:  "Young",
		Email:     "alma@example.org",
		Phone:     "+1-555-0101",
		Address:   "12 Cedar Ln",
		Birthdate: &birthdate,
		Household: "Young",
	}

	t.Run("create member ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}

			got, err := repo.Create(t.Context(), member)

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, got.ID, "id should be assigned")
			require.Equal(t, member.FirstName, got.FirstName)
			require.Equal(t, member.LastName, got.LastName)
			require.Equal(t, member.Email, got.Email)
			require.NotNil(t, got.Birthdate)
			require.WithinDuration(t, birthdate, *got.Birthdate, 0)
			require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
		})
	})

	t.Run("get member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}
			created, err := repo.Create(t.Context(), member)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), created.ID)

			require.NoError(t, err)
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, "Alma", got.FirstName)
		})
	})

	t.Run("get not existed member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}

			_, err := repo.Get(t.Context(), uuid.New())

			require.ErrorIs(t, err, apperrors.ErrMemberNotFound)
		})
	})

	t.Run("list with search", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}

			_, err := repo.Create(t.Context(), models.Member{FirstName: "Alma", LastName: "Young"})
			require.NoError(t, err)
			_, err = repo.Create(t.Context(), models.Member{FirstName: "Sariah", LastName: "Benson"})
			require.NoError(t, err)

			all, err := repo.List(t.Context(), "")
			require.NoError(t, err)
			require.Len(t, all, 2)
			require.Equal(t, "Benson", all[0].LastName, "list should be ordered by last name")

			found, err := repo.List(t.Context(), "you")
			require.NoError(t, err)
			require.Len(t, found, 1, "search should match case insensitive")
			require.Equal(t, "Young", found[0].LastName)
		})
	})

	t.Run("update member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}
			created, err := repo.Create(t.Context(), member)
			require.NoError(t, err)

			created.Phone = "+1-555-0202"
			created.Household = "Young-Price"

			got, err := repo.Update(t.Context(), created)

			require.NoError(t, err)
			require.Equal(t, "+1-555-0202", got.Phone)
			require.Equal(t, "Young-Price", got.Household)
		})
	})

	t.Run("update not existed member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}

			missing := member
			missing.ID = uuid.New()

			_, err := repo.Update(t.Context(), missing)
			require.ErrorIs(t, err, apperrors.ErrMemberNotFound)
		})
	})

	t.Run("delete member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := MemberRepo{DB: tx}
			created, err := repo.Create(t.Context(), member)
			require.NoError(t, err)

			require.NoError(t, repo.Delete(t.Context(), created.ID))

			_, err = repo.Get(t.Context(), created.ID)
			require.ErrorIs(t, err, apperrors.ErrMemberNotFound)

			err = repo.Delete(t.Context(), created.ID)
			require.ErrorIs(t, err, apperrors.ErrMemberNotFound, "second delete should report not found")
		})
	})
}
