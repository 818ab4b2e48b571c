package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhansen/wardbook/internal/repository"
)

// DBTX is the minimal pgx surface the repositories need
// Satisfied by *pgxpool.Pool and pgx.Tx alike
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Refresh() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Device() repository.TrustedDeviceRepo {
	return &TrustedDeviceRepo{DB: s.db}
}

func (s *Storage) LoginCode() repository.LoginCodeRepo {
	return &LoginCodeRepo{DB: s.db}
}

func (s *Storage) Member() repository.MemberRepo {
	return &MemberRepo{DB: s.db}
}

func (s *Storage) Calling() repository.CallingRepo {
	return &CallingRepo{DB: s.db}
}

func (s *Storage) Meeting() repository.MeetingRepo {
	return &MeetingRepo{DB: s.db}
}

func (s *Storage) Budget() repository.BudgetRepo {
	return &BudgetRepo{DB: s.db}
}

func (s *Storage) Interview() repository.InterviewRepo {
	return &InterviewRepo{DB: s.db}
}

func (s *Storage) Activity() repository.ActivityRepo {
	return &ActivityRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
