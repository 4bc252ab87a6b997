package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
)

type TransactorMock struct {
	mock.Mock
}

var _ Transactor = (*TransactorMock)(nil)

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*sqlx.Tx), args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

type FavorRepositoryMock struct {
	mock.Mock
}

var _ repository.FavorRepository = (*FavorRepositoryMock)(nil)

func (m *FavorRepositoryMock) CreateFavor(ctx context.Context, favor *domain.Favor) error {
	args := m.Called(ctx, favor)
	return args.Error(0)
}

func (m *FavorRepositoryMock) GetFavorByID(ctx context.Context, ext sqlx.ExtContext, favorID string) (*domain.Favor, error) {
	args := m.Called(ctx, ext, favorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

func (m *FavorRepositoryMock) GetFavorByIDWithLock(ctx context.Context, tx *sqlx.Tx, favorID string) (*domain.Favor, error) {
	args := m.Called(ctx, tx, favorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

func (m *FavorRepositoryMock) ListOpenFavors(ctx context.Context, category string) ([]domain.Favor, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Favor), args.Error(1)
}

func (m *FavorRepositoryMock) AddApplicant(ctx context.Context, applicant *domain.Applicant) error {
	args := m.Called(ctx, applicant)
	return args.Error(0)
}

func (m *FavorRepositoryMock) GetApplicants(ctx context.Context, favorID string) ([]domain.Applicant, error) {
	args := m.Called(ctx, favorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Applicant), args.Error(1)
}

func (m *FavorRepositoryMock) HasApplicant(ctx context.Context, ext sqlx.ExtContext, favorID, userID string) (bool, error) {
	args := m.Called(ctx, ext, favorID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *FavorRepositoryMock) SetHelper(ctx context.Context, tx *sqlx.Tx, favorID, helperID string) error {
	args := m.Called(ctx, tx, favorID, helperID)
	return args.Error(0)
}

func (m *FavorRepositoryMock) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, favorID string, status domain.FavorStatus) error {
	args := m.Called(ctx, ext, favorID, status)
	return args.Error(0)
}

type ChatRepositoryMock struct {
	mock.Mock
}

var _ repository.ChatRepository = (*ChatRepositoryMock)(nil)

func (m *ChatRepositoryMock) InsertMessage(ctx context.Context, tx *sqlx.Tx, msg *domain.Message) error {
	args := m.Called(ctx, tx, msg)
	return args.Error(0)
}

func (m *ChatRepositoryMock) UpsertThread(ctx context.Context, tx *sqlx.Tx, thread *domain.ChatThread) error {
	args := m.Called(ctx, tx, thread)
	return args.Error(0)
}

func (m *ChatRepositoryMock) GetThread(ctx context.Context, threadID string) (*domain.ChatThread, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ChatThread), args.Error(1)
}

func (m *ChatRepositoryMock) GetMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *ChatRepositoryMock) GetThreadsByParticipant(ctx context.Context, userID string) ([]domain.ChatThread, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ChatThread), args.Error(1)
}

func (m *ChatRepositoryMock) AddReadBy(ctx context.Context, threadID, userID string) error {
	args := m.Called(ctx, threadID, userID)
	return args.Error(0)
}

type RatingRepositoryMock struct {
	mock.Mock
}

var _ repository.RatingRepository = (*RatingRepositoryMock)(nil)

func (m *RatingRepositoryMock) InsertRating(ctx context.Context, tx *sqlx.Tx, rating *domain.Rating) error {
	args := m.Called(ctx, tx, rating)
	return args.Error(0)
}

func (m *RatingRepositoryMock) GetRatingsForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Rating), args.Error(1)
}

func (m *RatingRepositoryMock) UpsertStats(ctx context.Context, stats *domain.UserStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *RatingRepositoryMock) GetStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserStats), args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

var _ repository.NotificationRepository = (*NotificationRepositoryMock)(nil)

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkRead(ctx context.Context, notificationID, recipientID string) (time.Time, error) {
	args := m.Called(ctx, notificationID, recipientID)
	return args.Get(0).(time.Time), args.Error(1)
}
