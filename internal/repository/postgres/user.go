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

type UserRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewUserRepository(db *sqlx.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ur *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	const op = "internal.repository.postgres.CreateUser"

	query, args, err := ur.sq.Insert("users").
		Columns("id", "email", "password_hash", "full_name", "location", "presentation", "gender", "phone").
		Values(user.ID, user.Email, user.PasswordHash, user.FullName, user.Location, user.Presentation, user.Gender, user.Phone).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := ur.db.QueryRowxContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("%s: %w: email '%s'", op, apperrors.ErrAlreadyExists, user.Email)
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByEmail"

	query, args, err := ur.sq.Select(
		"id", "email", "password_hash", "full_name", "location", "presentation", "gender", "phone", "created_at",
	).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with email '%s'", op, apperrors.ErrNotFound, email)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	const op = "internal.repository.postgres.GetUserByID"

	query, args, err := ur.sq.Select(
		"id", "email", "password_hash", "full_name", "location", "presentation", "gender", "phone", "created_at",
	).
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &user, nil
}

func (ur *UserRepository) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error) {
	const op = "internal.repository.postgres.UpdateProfile"

	ur.log.Info("updating profile", slog.String("op", op), slog.String("user_id", userID))

	builder := ur.sq.Update("users").Where(sq.Eq{"id": userID})

	if patch.FullName != nil {
		builder = builder.Set("full_name", *patch.FullName)
	}
	if patch.Location != nil {
		builder = builder.Set("location", *patch.Location)
	}
	if patch.Presentation != nil {
		builder = builder.Set("presentation", *patch.Presentation)
	}
	if patch.Gender != nil {
		builder = builder.Set("gender", *patch.Gender)
	}
	if patch.Phone != nil {
		builder = builder.Set("phone", *patch.Phone)
	}

	query, args, err := builder.
		Suffix("RETURNING id, email, password_hash, full_name, location, presentation, gender, phone, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var user domain.User
	if err := ur.db.QueryRowxContext(ctx, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: user with id '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &user, nil
}
