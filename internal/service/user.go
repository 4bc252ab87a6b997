package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/auth"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Location     string
	Presentation string
	Gender       string
	Phone        string
}

// Profile bundles a user's account record with their rating stats.
type Profile struct {
	User  *domain.User
	Stats *domain.UserStats
}

type UserService interface {
	// Register creates an account and returns a signed access token.
	// It returns apperrors.ErrAlreadyExists if the email is taken.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)

	// Login verifies the credentials and returns a signed access token.
	// It returns apperrors.ErrUnauthorized for a wrong email or password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Get returns the user's account record.
	Get(ctx context.Context, userID string) (*domain.User, error)

	// Profile returns the user's account record together with their stats.
	Profile(ctx context.Context, userID string) (*Profile, error)

	// UpdateProfile applies the non-nil fields of the patch.
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error)
}

type UserServiceImpl struct {
	log        *slog.Logger
	users      repository.UserRepository
	ratings    RatingService
	tokens     *auth.Manager
	bcryptCost int
}

func NewUserService(log *slog.Logger, users repository.UserRepository, ratings RatingService, tokens *auth.Manager, bcryptCost int) *UserServiceImpl {
	return &UserServiceImpl{
		log:        log,
		users:      users,
		ratings:    ratings,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	const op = "internal.service.user.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Location:     in.Location,
		Presentation: in.Presentation,
		Gender:       in.Gender,
		Phone:        in.Phone,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	return user, token, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	const op = "internal.service.user.Login"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// An unknown email and a wrong password are indistinguishable
			// to the caller.
			return nil, "", apperrors.ErrUnauthorized
		}

		return nil, "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

func (s *UserServiceImpl) Get(ctx context.Context, userID string) (*domain.User, error) {
	const op = "internal.service.user.Get"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	return user, nil
}

func (s *UserServiceImpl) Profile(ctx context.Context, userID string) (*Profile, error) {
	const op = "internal.service.user.Profile"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	stats, err := s.ratings.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get stats: %w", op, err)
	}

	return &Profile{User: user, Stats: stats}, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error) {
	const op = "internal.service.user.UpdateProfile"

	// An all-nil patch has nothing to write; return the current record.
	if patch == (domain.ProfileUpdate{}) {
		user, err := s.users.GetUserByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
		}

		return user, nil
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update profile: %w", op, err)
	}

	return user, nil
}
