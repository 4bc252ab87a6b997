package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
	"github.com/vecinoapp/favores-service/pkg/logger/sl"
)

// Notification type tags.
const (
	NotificationTypeApplied  = "favor:applied"
	NotificationTypeAccepted = "favor:accepted"
)

type PublishFavorInput struct {
	Title       string
	Description string
	Category    string
	Price       int64
	Location    string
}

type FavorService interface {
	// Publish creates a new favor in "pending" status.
	Publish(ctx context.Context, requesterID string, in PublishFavorInput) (*domain.Favor, error)

	// List returns pending favors, newest first, optionally filtered by
	// category.
	List(ctx context.Context, category string) ([]domain.Favor, error)

	// Get returns a single favor.
	Get(ctx context.Context, favorID string) (*domain.Favor, error)

	// Apply registers the user as an applicant and notifies the requester.
	Apply(ctx context.Context, favorID, userID string) (*domain.Applicant, error)

	// Applicants lists a favor's applicants; only the requester may look.
	Applicants(ctx context.Context, favorID, requesterID string) ([]domain.Applicant, error)

	// Accept picks an applicant as the helper and moves the favor to
	// "in_progress". Only valid while pending; the applicant list freezes
	// from here on.
	Accept(ctx context.Context, favorID, requesterID, applicantID string) (*domain.Favor, error)

	// Complete moves an in-progress favor to "completed", making it
	// eligible for rating.
	Complete(ctx context.Context, favorID, requesterID string) (*domain.Favor, error)
}

type FavorServiceImpl struct {
	BaseService
	ext           sqlx.ExtContext
	favors        repository.FavorRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewFavorService(
	db Transactor,
	ext sqlx.ExtContext,
	log *slog.Logger,
	favors repository.FavorRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
) *FavorServiceImpl {
	return &FavorServiceImpl{
		BaseService:   NewBaseService(db, log),
		ext:           ext,
		favors:        favors,
		users:         users,
		notifications: notifications,
	}
}

func (s *FavorServiceImpl) Publish(ctx context.Context, requesterID string, in PublishFavorInput) (*domain.Favor, error) {
	const op = "internal.service.favor.Publish"
	log := s.log.With(slog.String("op", op), slog.String("requester_id", requesterID))

	favor := &domain.Favor{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		RequesterID: requesterID,
		Price:       in.Price,
		Location:    in.Location,
		Status:      domain.FavorStatusPending,
	}

	if err := s.favors.CreateFavor(ctx, favor); err != nil {
		return nil, fmt.Errorf("%s: failed to create favor: %w", op, err)
	}

	log.Info("favor published", slog.String("favor_id", favor.ID))

	return favor, nil
}

func (s *FavorServiceImpl) List(ctx context.Context, category string) ([]domain.Favor, error) {
	const op = "internal.service.favor.List"

	favors, err := s.favors.ListOpenFavors(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list favors: %w", op, err)
	}

	return favors, nil
}

func (s *FavorServiceImpl) Get(ctx context.Context, favorID string) (*domain.Favor, error) {
	const op = "internal.service.favor.Get"

	favor, err := s.favors.GetFavorByID(ctx, s.ext, favorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get favor: %w", op, err)
	}

	return favor, nil
}

func (s *FavorServiceImpl) Apply(ctx context.Context, favorID, userID string) (*domain.Applicant, error) {
	const op = "internal.service.favor.Apply"
	log := s.log.With(slog.String("op", op), slog.String("favor_id", favorID), slog.String("user_id", userID))

	favor, err := s.favors.GetFavorByID(ctx, s.ext, favorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get favor: %w", op, err)
	}

	if favor.Status != domain.FavorStatusPending {
		return nil, apperrors.ErrFavorNotOpen
	}

	if favor.RequesterID == userID {
		return nil, apperrors.ErrSelfApply
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get applicant profile: %w", op, err)
	}

	applicant := &domain.Applicant{
		FavorID:  favorID,
		UserID:   userID,
		FullName: user.FullName,
		Location: user.Location,
	}

	if err := s.favors.AddApplicant(ctx, applicant); err != nil {
		return nil, err
	}

	// The notification is a side effect of applying; losing one is
	// tolerable, losing the application is not.
	s.notify(ctx, &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: favor.RequesterID,
		SenderID:    userID,
		SenderName:  user.FullName,
		FavorID:     favor.ID,
		FavorTitle:  favor.Title,
		Type:        NotificationTypeApplied,
	})

	log.Info("applicant added")

	return applicant, nil
}

func (s *FavorServiceImpl) Applicants(ctx context.Context, favorID, requesterID string) ([]domain.Applicant, error) {
	const op = "internal.service.favor.Applicants"

	favor, err := s.favors.GetFavorByID(ctx, s.ext, favorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get favor: %w", op, err)
	}

	if favor.RequesterID != requesterID {
		return nil, apperrors.ErrNotRequester
	}

	applicants, err := s.favors.GetApplicants(ctx, favorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get applicants: %w", op, err)
	}

	return applicants, nil
}

func (s *FavorServiceImpl) Accept(ctx context.Context, favorID, requesterID, applicantID string) (*domain.Favor, error) {
	const op = "internal.service.favor.Accept"
	log := s.log.With(slog.String("op", op), slog.String("favor_id", favorID), slog.String("applicant_id", applicantID))

	var favor *domain.Favor

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		favor, err = s.favors.GetFavorByIDWithLock(ctx, tx, favorID)
		if err != nil {
			return fmt.Errorf("%s: failed to get favor: %w", op, err)
		}

		if favor.RequesterID != requesterID {
			return apperrors.ErrNotRequester
		}

		if favor.Status != domain.FavorStatusPending {
			return apperrors.ErrFavorNotOpen
		}

		applied, err := s.favors.HasApplicant(ctx, tx, favorID, applicantID)
		if err != nil {
			return fmt.Errorf("%s: failed to check applicant: %w", op, err)
		}

		if !applied {
			return apperrors.ErrNoApplicant
		}

		if err := s.favors.SetHelper(ctx, tx, favorID, applicantID); err != nil {
			return fmt.Errorf("%s: failed to set helper: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	favor.Status = domain.FavorStatusInProgress
	favor.HelperID = &applicantID

	requester, err := s.users.GetUserByID(ctx, requesterID)
	senderName := ""
	if err == nil {
		senderName = requester.FullName
	}

	s.notify(ctx, &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: applicantID,
		SenderID:    requesterID,
		SenderName:  senderName,
		FavorID:     favor.ID,
		FavorTitle:  favor.Title,
		Type:        NotificationTypeAccepted,
	})

	log.Info("applicant accepted")

	return favor, nil
}

func (s *FavorServiceImpl) Complete(ctx context.Context, favorID, requesterID string) (*domain.Favor, error) {
	const op = "internal.service.favor.Complete"
	log := s.log.With(slog.String("op", op), slog.String("favor_id", favorID))

	var favor *domain.Favor

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		var err error

		favor, err = s.favors.GetFavorByIDWithLock(ctx, tx, favorID)
		if err != nil {
			return fmt.Errorf("%s: failed to get favor: %w", op, err)
		}

		if favor.RequesterID != requesterID {
			return apperrors.ErrNotRequester
		}

		if favor.Status != domain.FavorStatusInProgress {
			return apperrors.ErrFavorNotInProgress
		}

		if err := s.favors.UpdateStatus(ctx, tx, favorID, domain.FavorStatusCompleted); err != nil {
			return fmt.Errorf("%s: failed to update status: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	favor.Status = domain.FavorStatusCompleted

	log.Info("favor completed")

	return favor, nil
}

func (s *FavorServiceImpl) notify(ctx context.Context, n *domain.Notification) {
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		s.log.Error("failed to create notification", sl.Err(err),
			slog.String("recipient_id", n.RecipientID), slog.String("type", n.Type))
	}
}
