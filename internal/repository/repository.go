// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/internal/domain"
)

// UserRepository defines the contract for user account and profile data.
type UserRepository interface {
	// CreateUser inserts a new user record.
	// It returns apperrors.ErrAlreadyExists if the email is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByEmail retrieves a user by email, including the password hash.
	// It returns apperrors.ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	// It returns apperrors.ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// UpdateProfile applies the non-nil fields of the patch to the user's
	// profile and returns the updated record. The user id is immutable.
	// It returns apperrors.ErrNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error)
}

// FavorRepository defines the contract for favor requests and their applicants.
// Applicants are stored in their own table, one row per (favor, user) pair.
type FavorRepository interface {
	// CreateFavor inserts a new favor with status "pending".
	CreateFavor(ctx context.Context, favor *domain.Favor) error

	// GetFavorByID retrieves a favor. The ext argument allows execution
	// within a transaction (*sqlx.Tx) or directly on a DB connection.
	// It returns apperrors.ErrNotFound if the favor is not found.
	GetFavorByID(ctx context.Context, ext sqlx.ExtContext, favorID string) (*domain.Favor, error)

	// GetFavorByIDWithLock retrieves a favor and acquires a row-level lock
	// ("FOR UPDATE") so concurrent status transitions serialize.
	// It returns apperrors.ErrNotFound if the favor is not found.
	GetFavorByIDWithLock(ctx context.Context, tx *sqlx.Tx, favorID string) (*domain.Favor, error)

	// ListOpenFavors returns pending favors, newest first, optionally
	// filtered by category (empty string means all categories).
	ListOpenFavors(ctx context.Context, category string) ([]domain.Favor, error)

	// AddApplicant appends an applicant entry.
	// It returns apperrors.ErrAlreadyExists if the (favor, user) pair exists.
	AddApplicant(ctx context.Context, applicant *domain.Applicant) error

	// GetApplicants returns the applicants of a favor ordered by applied_at.
	GetApplicants(ctx context.Context, favorID string) ([]domain.Applicant, error)

	// HasApplicant reports whether the user has applied to the favor.
	HasApplicant(ctx context.Context, ext sqlx.ExtContext, favorID, userID string) (bool, error)

	// SetHelper records the accepted helper and moves the favor to
	// "in_progress". Intended to run inside a transaction.
	SetHelper(ctx context.Context, tx *sqlx.Tx, favorID, helperID string) error

	// UpdateStatus sets the favor status.
	UpdateStatus(ctx context.Context, ext sqlx.ExtContext, favorID string, status domain.FavorStatus) error
}

// ChatRepository defines the contract for chat threads and messages.
// The thread-summary row and the message rows for one send are expected to
// be written in the same transaction.
type ChatRepository interface {
	// InsertMessage appends a message to a thread. The created_at timestamp
	// is assigned by the database and written back into msg.
	InsertMessage(ctx context.Context, tx *sqlx.Tx, msg *domain.Message) error

	// UpsertThread writes the thread-summary row: participants, the
	// participant display-name map, the last-message fields and the read-by
	// set. Only the fields present in the thread value are touched.
	UpsertThread(ctx context.Context, tx *sqlx.Tx, thread *domain.ChatThread) error

	// GetThread retrieves a thread summary.
	// It returns apperrors.ErrNotFound if no summary row exists.
	GetThread(ctx context.Context, threadID string) (*domain.ChatThread, error)

	// GetMessages returns the full message list of a thread ordered by the
	// server-assigned timestamp ascending.
	GetMessages(ctx context.Context, threadID string) ([]domain.Message, error)

	// GetThreadsByParticipant returns summaries of every thread the user
	// participates in, ordered by last_message_at descending. Rows without
	// a last-message timestamp are excluded.
	GetThreadsByParticipant(ctx context.Context, userID string) ([]domain.ChatThread, error)

	// AddReadBy adds the user to the thread's read-by set. Adding an
	// already-present user is a no-op.
	// It returns apperrors.ErrNotFound if the thread does not exist.
	AddReadBy(ctx context.Context, threadID, userID string) error
}

// RatingRepository defines the contract for ratings and the derived user stats.
type RatingRepository interface {
	// InsertRating persists a rating record.
	// It returns apperrors.ErrAlreadyExists if the (favor, rater) pair
	// already has a rating.
	InsertRating(ctx context.Context, tx *sqlx.Tx, rating *domain.Rating) error

	// GetRatingsForUser returns every rating addressed to the user.
	GetRatingsForUser(ctx context.Context, userID string) ([]domain.Rating, error)

	// UpsertStats overwrites the user's stats row wholesale.
	UpsertStats(ctx context.Context, stats *domain.UserStats) error

	// GetStats retrieves the user's stats.
	// It returns apperrors.ErrNotFound if no stats row exists yet.
	GetStats(ctx context.Context, userID string) (*domain.UserStats, error)
}

// NotificationRepository defines the contract for the notification feed.
type NotificationRepository interface {
	// CreateNotification inserts a notification record.
	CreateNotification(ctx context.Context, n *domain.Notification) error

	// ListByRecipient returns the recipient's notifications ordered by
	// timestamp descending.
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)

	// MarkRead flips the read flag to true and returns the read timestamp.
	// Marking an already-read notification keeps the original timestamp.
	// It returns apperrors.ErrNotFound if the notification does not exist
	// or belongs to another recipient.
	MarkRead(ctx context.Context, notificationID, recipientID string) (time.Time, error)
}
