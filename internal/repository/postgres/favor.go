package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
)

type FavorRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewFavorRepository(db *sqlx.DB, log *slog.Logger) *FavorRepository {
	return &FavorRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const favorColumns = "id, title, description, category, requester_id, price, location, status, helper_id, created_at"

func (fr *FavorRepository) CreateFavor(ctx context.Context, favor *domain.Favor) error {
	const op = "internal.repository.postgres.CreateFavor"

	query, args, err := fr.sq.Insert("favors").
		Columns("id", "title", "description", "category", "requester_id", "price", "location", "status").
		Values(favor.ID, favor.Title, favor.Description, favor.Category, favor.RequesterID, favor.Price, favor.Location, favor.Status).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := fr.db.QueryRowxContext(ctx, query, args...).Scan(&favor.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("%s: %w: favor with id '%s'", op, apperrors.ErrAlreadyExists, favor.ID)
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: requester with id '%s'", op, apperrors.ErrNotFound, favor.RequesterID)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (fr *FavorRepository) GetFavorByID(ctx context.Context, ext sqlx.ExtContext, favorID string) (*domain.Favor, error) {
	const op = "internal.repository.postgres.GetFavorByID"

	query, args, err := fr.sq.Select(favorColumns).
		From("favors").
		Where(sq.Eq{"id": favorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var favor domain.Favor
	if err := sqlx.GetContext(ctx, ext, &favor, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: favor with id '%s'", op, apperrors.ErrNotFound, favorID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &favor, nil
}

func (fr *FavorRepository) GetFavorByIDWithLock(ctx context.Context, tx *sqlx.Tx, favorID string) (*domain.Favor, error) {
	const op = "internal.repository.postgres.GetFavorByIDWithLock"

	query, args, err := fr.sq.Select(favorColumns).
		From("favors").
		Where(sq.Eq{"id": favorID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var favor domain.Favor
	if err := tx.GetContext(ctx, &favor, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: favor with id '%s'", op, apperrors.ErrNotFound, favorID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &favor, nil
}

func (fr *FavorRepository) ListOpenFavors(ctx context.Context, category string) ([]domain.Favor, error) {
	const op = "internal.repository.postgres.ListOpenFavors"

	builder := fr.sq.Select(favorColumns).
		From("favors").
		Where(sq.Eq{"status": domain.FavorStatusPending}).
		OrderBy("created_at DESC")

	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var favors []domain.Favor
	if err := fr.db.SelectContext(ctx, &favors, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return favors, nil
}

func (fr *FavorRepository) AddApplicant(ctx context.Context, applicant *domain.Applicant) error {
	const op = "internal.repository.postgres.AddApplicant"

	query, args, err := fr.sq.Insert("applicants").
		Columns("favor_id", "user_id", "full_name", "location").
		Values(applicant.FavorID, applicant.UserID, applicant.FullName, applicant.Location).
		Suffix("RETURNING applied_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := fr.db.QueryRowxContext(ctx, query, args...).Scan(&applicant.AppliedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return &apperrors.AlreadyAppliedError{FavorID: applicant.FavorID, UserID: applicant.UserID}
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: favor or user missing", op, apperrors.ErrNotFound)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (fr *FavorRepository) GetApplicants(ctx context.Context, favorID string) ([]domain.Applicant, error) {
	const op = "internal.repository.postgres.GetApplicants"

	query, args, err := fr.sq.Select("favor_id", "user_id", "full_name", "location", "applied_at").
		From("applicants").
		Where(sq.Eq{"favor_id": favorID}).
		OrderBy("applied_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var applicants []domain.Applicant
	if err := fr.db.SelectContext(ctx, &applicants, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return applicants, nil
}

func (fr *FavorRepository) HasApplicant(ctx context.Context, ext sqlx.ExtContext, favorID, userID string) (bool, error) {
	const op = "internal.repository.postgres.HasApplicant"

	query, args, err := fr.sq.Select("1").
		From("applicants").
		Where(sq.Eq{"favor_id": favorID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var one int
	if err := sqlx.GetContext(ctx, ext, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return true, nil
}

func (fr *FavorRepository) SetHelper(ctx context.Context, tx *sqlx.Tx, favorID, helperID string) error {
	const op = "internal.repository.postgres.SetHelper"

	query, args, err := fr.sq.Update("favors").
		Set("helper_id", helperID).
		Set("status", domain.FavorStatusInProgress).
		Where(sq.Eq{"id": favorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%s: %w: favor with id '%s'", op, apperrors.ErrNotFound, favorID)
	}

	return nil
}

func (fr *FavorRepository) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, favorID string, status domain.FavorStatus) error {
	const op = "internal.repository.postgres.UpdateStatus"

	query, args, err := fr.sq.Update("favors").
		Set("status", status).
		Where(sq.Eq{"id": favorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%s: %w: favor with id '%s'", op, apperrors.ErrNotFound, favorID)
	}

	return nil
}
