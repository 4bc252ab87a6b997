package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/service"
)

type UserServiceMock struct {
	mock.Mock
}

var _ service.UserService = (*UserServiceMock)(nil)

func (m *UserServiceMock) Register(ctx context.Context, in service.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}

	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *UserServiceMock) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}

	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *UserServiceMock) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserServiceMock) Profile(ctx context.Context, userID string) (*service.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *UserServiceMock) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.User), args.Error(1)
}

type FavorServiceMock struct {
	mock.Mock
}

var _ service.FavorService = (*FavorServiceMock)(nil)

func (m *FavorServiceMock) Publish(ctx context.Context, requesterID string, in service.PublishFavorInput) (*domain.Favor, error) {
	args := m.Called(ctx, requesterID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

func (m *FavorServiceMock) List(ctx context.Context, category string) ([]domain.Favor, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Favor), args.Error(1)
}

func (m *FavorServiceMock) Get(ctx context.Context, favorID string) (*domain.Favor, error) {
	args := m.Called(ctx, favorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

func (m *FavorServiceMock) Apply(ctx context.Context, favorID, userID string) (*domain.Applicant, error) {
	args := m.Called(ctx, favorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *FavorServiceMock) Applicants(ctx context.Context, favorID, requesterID string) ([]domain.Applicant, error) {
	args := m.Called(ctx, favorID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Applicant), args.Error(1)
}

func (m *FavorServiceMock) Accept(ctx context.Context, favorID, requesterID, applicantID string) (*domain.Favor, error) {
	args := m.Called(ctx, favorID, requesterID, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

func (m *FavorServiceMock) Complete(ctx context.Context, favorID, requesterID string) (*domain.Favor, error) {
	args := m.Called(ctx, favorID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Favor), args.Error(1)
}

type ChatServiceMock struct {
	mock.Mock
}

var _ service.ChatService = (*ChatServiceMock)(nil)

func (m *ChatServiceMock) Send(ctx context.Context, in service.SendInput) (*domain.Message, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *ChatServiceMock) Messages(ctx context.Context, threadID, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, threadID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *ChatServiceMock) Subscribe(ctx context.Context, threadID, userID string) (<-chan []domain.Message, func(), error) {
	args := m.Called(ctx, threadID, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}

	return args.Get(0).(<-chan []domain.Message), args.Get(1).(func()), args.Error(2)
}

func (m *ChatServiceMock) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ConversationSummary), args.Error(1)
}

func (m *ChatServiceMock) SubscribeConversations(ctx context.Context, userID string) (<-chan []domain.ConversationSummary, func(), error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}

	return args.Get(0).(<-chan []domain.ConversationSummary), args.Get(1).(func()), args.Error(2)
}

func (m *ChatServiceMock) MarkRead(ctx context.Context, threadID, userID string) error {
	args := m.Called(ctx, threadID, userID)
	return args.Error(0)
}

type RatingServiceMock struct {
	mock.Mock
}

var _ service.RatingService = (*RatingServiceMock)(nil)

func (m *RatingServiceMock) Submit(ctx context.Context, favorID, raterID string, score float64, comment string) (*domain.Rating, error) {
	args := m.Called(ctx, favorID, raterID, score, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Rating), args.Error(1)
}

func (m *RatingServiceMock) RecomputeStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *RatingServiceMock) Stats(ctx context.Context, userID string) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.UserStats), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

var _ service.NotificationService = (*NotificationServiceMock)(nil)

func (m *NotificationServiceMock) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationServiceMock) MarkRead(ctx context.Context, notificationID, userID string) (time.Time, error) {
	args := m.Called(ctx, notificationID, userID)
	return args.Get(0).(time.Time), args.Error(1)
}
