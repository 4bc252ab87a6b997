package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
)

type RatingService interface {
	// Submit validates and persists a rating for a completed favor, marks
	// the favor rated and recomputes the helper's stats.
	Submit(ctx context.Context, favorID, raterID string, score float64, comment string) (*domain.Rating, error)

	// RecomputeStats rebuilds the user's stats from scratch out of every
	// rating addressed to them and overwrites the stored row.
	RecomputeStats(ctx context.Context, userID string) (*domain.UserStats, error)

	// Stats returns the user's current stats; a user with no ratings gets
	// an all-zero value.
	Stats(ctx context.Context, userID string) (*domain.UserStats, error)
}

type RatingServiceImpl struct {
	BaseService
	ratings repository.RatingRepository
	favors  repository.FavorRepository
}

func NewRatingService(db Transactor, log *slog.Logger, ratings repository.RatingRepository, favors repository.FavorRepository) *RatingServiceImpl {
	return &RatingServiceImpl{
		BaseService: NewBaseService(db, log),
		ratings:     ratings,
		favors:      favors,
	}
}

func (s *RatingServiceImpl) Submit(ctx context.Context, favorID, raterID string, score float64, comment string) (*domain.Rating, error) {
	const op = "internal.service.rating.Submit"
	log := s.log.With(slog.String("op", op), slog.String("favor_id", favorID), slog.String("rater_id", raterID))

	// Resolved before any I/O.
	if score < 1.0 || score > 5.0 {
		return nil, &apperrors.ScoreOutOfRangeError{Score: score}
	}

	rating := &domain.Rating{
		ID:      uuid.NewString(),
		FavorID: favorID,
		RaterID: raterID,
		Score:   score,
		Comment: comment,
	}

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		favor, err := s.favors.GetFavorByIDWithLock(ctx, tx, favorID)
		if err != nil {
			return fmt.Errorf("%s: failed to get favor: %w", op, err)
		}

		if favor.RequesterID != raterID {
			return apperrors.ErrNotRequester
		}

		switch favor.Status {
		case domain.FavorStatusRated:
			return &apperrors.FavorAlreadyRatedError{FavorID: favorID}
		case domain.FavorStatusCompleted:
			// Eligible.
		default:
			return apperrors.ErrFavorNotCompleted
		}

		if favor.HelperID == nil {
			return apperrors.ErrFavorNotCompleted
		}

		rating.RatedUserID = *favor.HelperID

		if err := s.ratings.InsertRating(ctx, tx, rating); err != nil {
			return err
		}

		if err := s.favors.UpdateStatus(ctx, tx, favorID, domain.FavorStatusRated); err != nil {
			return fmt.Errorf("%s: failed to mark favor rated: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Full recomputation rather than an incremental patch: rerunning it on
	// the same rating set always yields the same row, so interleaved
	// submissions cannot drift.
	if _, err := s.RecomputeStats(ctx, rating.RatedUserID); err != nil {
		return nil, fmt.Errorf("%s: rating stored but stats recomputation failed: %w", op, err)
	}

	log.Info("rating submitted", slog.String("rated_user_id", rating.RatedUserID))

	return rating, nil
}

func (s *RatingServiceImpl) RecomputeStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	const op = "internal.service.rating.RecomputeStats"

	ratings, err := s.ratings.GetRatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get ratings: %w", op, err)
	}

	stats := foldRatings(userID, ratings)

	if err := s.ratings.UpsertStats(ctx, stats); err != nil {
		return nil, fmt.Errorf("%s: failed to store stats: %w", op, err)
	}

	return stats, nil
}

func (s *RatingServiceImpl) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	const op = "internal.service.rating.Stats"

	stats, err := s.ratings.GetStats(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.UserStats{UserID: userID}, nil
		}

		return nil, fmt.Errorf("%s: failed to get stats: %w", op, err)
	}

	return stats, nil
}

// foldRatings computes the aggregate row from the complete rating set.
// The average stays unrounded; rounding is a display concern.
func foldRatings(userID string, ratings []domain.Rating) *domain.UserStats {
	var sum float64
	favorIDs := make(map[string]struct{})
	raterIDs := make(map[string]struct{})

	for _, r := range ratings {
		sum += r.Score
		favorIDs[r.FavorID] = struct{}{}
		raterIDs[r.RaterID] = struct{}{}
	}

	average := 0.0
	if len(ratings) > 0 {
		average = sum / float64(len(ratings))
	}

	return &domain.UserStats{
		UserID:          userID,
		FavorsCompleted: len(favorIDs),
		AverageRating:   average,
		TotalRatings:    len(ratings),
		PeopleHelped:    len(raterIDs),
	}
}
