package service

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
)

type favorMocks struct {
	favors        *FavorRepositoryMock
	users         *UserRepositoryMock
	notifications *NotificationRepositoryMock
	transactor    *TransactorMock
}

func newFavorService(t *testing.T) (*FavorServiceImpl, *favorMocks) {
	t.Helper()

	m := &favorMocks{
		favors:        new(FavorRepositoryMock),
		users:         new(UserRepositoryMock),
		notifications: new(NotificationRepositoryMock),
		transactor:    new(TransactorMock),
	}

	service := NewFavorService(m.transactor, nil, slog.Default(), m.favors, m.users, m.notifications)

	return service, m
}

func TestFavorServiceImpl_Publish(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	var created *domain.Favor
	m.favors.On("CreateFavor", mock.Anything, mock.AnythingOfType("*domain.Favor")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Favor)
		}).
		Return(nil)

	favor, err := service.Publish(ctx, "req", PublishFavorInput{
		Title:       "Pasear al perro",
		Description: "Dos paseos al dia",
		Category:    "mascotas",
		Price:       1500,
		Location:    "Palermo",
	})

	require.NoError(t, err)
	require.NotNil(t, favor)
	assert.Equal(t, created, favor)
	assert.NotEmpty(t, favor.ID)
	assert.Equal(t, "req", favor.RequesterID)
	assert.Equal(t, domain.FavorStatusPending, favor.Status)
	assert.Nil(t, favor.HelperID)
}

func TestFavorServiceImpl_Apply(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		userID      string
		favor       *domain.Favor
		expectedErr error
	}{
		{
			name:   "Failure: favor is no longer open",
			userID: "u1",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusInProgress,
			},
			expectedErr: apperrors.ErrFavorNotOpen,
		},
		{
			name:   "Failure: requester applies to their own favor",
			userID: "req",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusPending,
			},
			expectedErr: apperrors.ErrSelfApply,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, m := newFavorService(t)

			m.favors.On("GetFavorByID", mock.Anything, nil, "f1").Return(tc.favor, nil)

			applicant, err := service.Apply(ctx, "f1", tc.userID)

			assert.Nil(t, applicant)
			assert.ErrorIs(t, err, tc.expectedErr)
			m.favors.AssertNotCalled(t, "AddApplicant", mock.Anything, mock.Anything)
		})
	}
}

func TestFavorServiceImpl_Apply_Success(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	m.favors.On("GetFavorByID", mock.Anything, nil, "f1").Return(&domain.Favor{
		ID:          "f1",
		Title:       "Pasear al perro",
		RequesterID: "req",
		Status:      domain.FavorStatusPending,
	}, nil)
	m.users.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{
		ID:       "u1",
		FullName: "Ana Gomez",
		Location: "Palermo",
	}, nil)
	m.favors.On("AddApplicant", mock.Anything, mock.AnythingOfType("*domain.Applicant")).Return(nil)

	var notified *domain.Notification
	m.notifications.On("CreateNotification", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			notified = args.Get(1).(*domain.Notification)
		}).
		Return(nil)

	applicant, err := service.Apply(ctx, "f1", "u1")

	require.NoError(t, err)
	require.NotNil(t, applicant)
	assert.Equal(t, "f1", applicant.FavorID)
	assert.Equal(t, "u1", applicant.UserID)
	assert.Equal(t, "Ana Gomez", applicant.FullName)

	require.NotNil(t, notified)
	assert.Equal(t, "req", notified.RecipientID)
	assert.Equal(t, "u1", notified.SenderID)
	assert.Equal(t, NotificationTypeApplied, notified.Type)
	assert.Equal(t, "Pasear al perro", notified.FavorTitle)
}

func TestFavorServiceImpl_Apply_DuplicatePassesThrough(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	m.favors.On("GetFavorByID", mock.Anything, nil, "f1").Return(&domain.Favor{
		ID:          "f1",
		RequesterID: "req",
		Status:      domain.FavorStatusPending,
	}, nil)
	m.users.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)
	m.favors.On("AddApplicant", mock.Anything, mock.Anything).
		Return(&apperrors.AlreadyAppliedError{FavorID: "f1", UserID: "u1"})

	applicant, err := service.Apply(ctx, "f1", "u1")

	assert.Nil(t, applicant)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	var dupErr *apperrors.AlreadyAppliedError
	assert.ErrorAs(t, err, &dupErr)

	m.notifications.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
}

func TestFavorServiceImpl_Apply_NotificationFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	m.favors.On("GetFavorByID", mock.Anything, nil, "f1").Return(&domain.Favor{
		ID:          "f1",
		RequesterID: "req",
		Status:      domain.FavorStatusPending,
	}, nil)
	m.users.On("GetUserByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)
	m.favors.On("AddApplicant", mock.Anything, mock.Anything).Return(nil)
	m.notifications.On("CreateNotification", mock.Anything, mock.Anything).
		Return(assert.AnError)

	applicant, err := service.Apply(ctx, "f1", "u1")

	require.NoError(t, err)
	assert.NotNil(t, applicant)
}

func TestFavorServiceImpl_Applicants_RequesterOnly(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	m.favors.On("GetFavorByID", mock.Anything, nil, "f1").Return(&domain.Favor{
		ID:          "f1",
		RequesterID: "req",
	}, nil)

	applicants, err := service.Applicants(ctx, "f1", "not-req")

	assert.Nil(t, applicants)
	assert.ErrorIs(t, err, apperrors.ErrNotRequester)
	m.favors.AssertNotCalled(t, "GetApplicants", mock.Anything, mock.Anything)
}

func TestFavorServiceImpl_Accept(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name         string
		requesterID  string
		favor        *domain.Favor
		hasApplicant bool
		checkApplied bool
		expectedErr  error
	}{
		{
			name:        "Failure: caller is not the requester",
			requesterID: "intruder",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusPending,
			},
			expectedErr: apperrors.ErrNotRequester,
		},
		{
			name:        "Failure: favor already in progress",
			requesterID: "req",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusInProgress,
			},
			expectedErr: apperrors.ErrFavorNotOpen,
		},
		{
			name:        "Failure: accepted user never applied",
			requesterID: "req",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusPending,
			},
			checkApplied: true,
			hasApplicant: false,
			expectedErr:  apperrors.ErrNoApplicant,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, m := newFavorService(t)

			_, tx, smock := newMockDBAndTx(t)
			smock.ExpectRollback()
			m.transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
			m.favors.On("GetFavorByIDWithLock", mock.Anything, tx, "f1").Return(tc.favor, nil)
			if tc.checkApplied {
				m.favors.On("HasApplicant", mock.Anything, tx, "f1", "u1").Return(tc.hasApplicant, nil)
			}

			favor, err := service.Accept(ctx, "f1", tc.requesterID, "u1")

			assert.Nil(t, favor)
			assert.ErrorIs(t, err, tc.expectedErr)
			m.favors.AssertNotCalled(t, "SetHelper", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestFavorServiceImpl_Accept_Success(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	_, tx, smock := newMockDBAndTx(t)
	smock.ExpectCommit()
	m.transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	m.favors.On("GetFavorByIDWithLock", mock.Anything, tx, "f1").Return(&domain.Favor{
		ID:          "f1",
		Title:       "Pasear al perro",
		RequesterID: "req",
		Status:      domain.FavorStatusPending,
	}, nil)
	m.favors.On("HasApplicant", mock.Anything, tx, "f1", "u1").Return(true, nil)
	m.favors.On("SetHelper", mock.Anything, tx, "f1", "u1").Return(nil)
	m.users.On("GetUserByID", mock.Anything, "req").Return(&domain.User{
		ID:       "req",
		FullName: "Luis Perez",
	}, nil)

	var notified *domain.Notification
	m.notifications.On("CreateNotification", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) {
			notified = args.Get(1).(*domain.Notification)
		}).
		Return(nil)

	favor, err := service.Accept(ctx, "f1", "req", "u1")

	require.NoError(t, err)
	require.NotNil(t, favor)
	assert.Equal(t, domain.FavorStatusInProgress, favor.Status)
	require.NotNil(t, favor.HelperID)
	assert.Equal(t, "u1", *favor.HelperID)

	require.NotNil(t, notified)
	assert.Equal(t, "u1", notified.RecipientID)
	assert.Equal(t, NotificationTypeAccepted, notified.Type)
	assert.Equal(t, "Luis Perez", notified.SenderName)

	m.favors.AssertExpectations(t)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestFavorServiceImpl_Complete(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		requesterID string
		favor       *domain.Favor
		expectedErr error
	}{
		{
			name:        "Failure: caller is not the requester",
			requesterID: "intruder",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusInProgress,
			},
			expectedErr: apperrors.ErrNotRequester,
		},
		{
			name:        "Failure: favor still pending",
			requesterID: "req",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusPending,
			},
			expectedErr: apperrors.ErrFavorNotInProgress,
		},
		{
			name:        "Failure: favor already completed",
			requesterID: "req",
			favor: &domain.Favor{
				ID:          "f1",
				RequesterID: "req",
				Status:      domain.FavorStatusCompleted,
			},
			expectedErr: apperrors.ErrFavorNotInProgress,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, m := newFavorService(t)

			_, tx, smock := newMockDBAndTx(t)
			smock.ExpectRollback()
			m.transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
			m.favors.On("GetFavorByIDWithLock", mock.Anything, tx, "f1").Return(tc.favor, nil)

			favor, err := service.Complete(ctx, "f1", tc.requesterID)

			assert.Nil(t, favor)
			assert.ErrorIs(t, err, tc.expectedErr)
			m.favors.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestFavorServiceImpl_Complete_Success(t *testing.T) {
	ctx := context.Background()

	service, m := newFavorService(t)

	_, tx, smock := newMockDBAndTx(t)
	smock.ExpectCommit()
	m.transactor.On("BeginTxx", mock.Anything, (*sql.TxOptions)(nil)).Return(tx, nil)
	m.favors.On("GetFavorByIDWithLock", mock.Anything, tx, "f1").Return(&domain.Favor{
		ID:          "f1",
		RequesterID: "req",
		HelperID:    helperID("u1"),
		Status:      domain.FavorStatusInProgress,
	}, nil)
	m.favors.On("UpdateStatus", mock.Anything, tx, "f1", domain.FavorStatusCompleted).Return(nil)

	favor, err := service.Complete(ctx, "f1", "req")

	require.NoError(t, err)
	require.NotNil(t, favor)
	assert.Equal(t, domain.FavorStatusCompleted, favor.Status)

	m.favors.AssertExpectations(t)
	assert.NoError(t, smock.ExpectationsWereMet())
}
