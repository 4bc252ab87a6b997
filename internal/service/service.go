package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/pkg/logger/sl"
)

// Transactor is the slice of *sqlx.DB the services need to open
// transactions. Tests substitute a mock.
type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type BaseService struct {
	db  Transactor
	log *slog.Logger
}

func NewBaseService(db Transactor, log *slog.Logger) BaseService {
	return BaseService{db: db, log: log}
}

// transaction runs fn inside a single transaction. Every write pair that
// must be observed atomically (message + thread summary, rating + favor
// status) goes through here. Errors from fn are returned as-is so
// sentinel checks keep working; begin and commit failures are wrapped
// with op.
func (s *BaseService) transaction(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.rollback(tx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

// rollback is a no-op after a successful commit; sql.ErrTxDone is the
// signal for that and is not worth logging.
func (s *BaseService) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.log.Error("failed to rollback transaction", sl.Err(err))
	}
}
