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

type RatingRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRatingRepository(db *sqlx.DB, log *slog.Logger) *RatingRepository {
	return &RatingRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (rr *RatingRepository) InsertRating(ctx context.Context, tx *sqlx.Tx, rating *domain.Rating) error {
	const op = "internal.repository.postgres.InsertRating"

	query, args, err := rr.sq.Insert("ratings").
		Columns("id", "favor_id", "rater_id", "rated_user_id", "score", "comment").
		Values(rating.ID, rating.FavorID, rating.RaterID, rating.RatedUserID, rating.Score, rating.Comment).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&rating.CreatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return &apperrors.FavorAlreadyRatedError{FavorID: rating.FavorID}
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: favor or user missing", op, apperrors.ErrNotFound)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (rr *RatingRepository) GetRatingsForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	const op = "internal.repository.postgres.GetRatingsForUser"

	query, args, err := rr.sq.Select("id", "favor_id", "rater_id", "rated_user_id", "score", "comment", "created_at").
		From("ratings").
		Where(sq.Eq{"rated_user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var ratings []domain.Rating
	if err := rr.db.SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return ratings, nil
}

func (rr *RatingRepository) UpsertStats(ctx context.Context, stats *domain.UserStats) error {
	const op = "internal.repository.postgres.UpsertStats"

	query, args, err := rr.sq.Insert("user_stats").
		Columns("user_id", "favors_completed", "average_rating", "total_ratings", "people_helped", "updated_at").
		Values(stats.UserID, stats.FavorsCompleted, stats.AverageRating, stats.TotalRatings, stats.PeopleHelped, sq.Expr("NOW()")).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			favors_completed = EXCLUDED.favors_completed,
			average_rating = EXCLUDED.average_rating,
			total_ratings = EXCLUDED.total_ratings,
			people_helped = EXCLUDED.people_helped,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	if _, err := rr.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return nil
}

func (rr *RatingRepository) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	const op = "internal.repository.postgres.GetStats"

	query, args, err := rr.sq.Select("user_id", "favors_completed", "average_rating", "total_ratings", "people_helped", "updated_at").
		From("user_stats").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var stats domain.UserStats
	if err := rr.db.GetContext(ctx, &stats, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: stats for user '%s'", op, apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &stats, nil
}
