package domain

import (
	"time"
)

type FavorStatus string

const (
	FavorStatusPending    FavorStatus = "pending"
	FavorStatusInProgress FavorStatus = "in_progress"
	FavorStatusCompleted  FavorStatus = "completed"
	FavorStatusRated      FavorStatus = "rated"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	Location     string    `db:"location"`
	Presentation string    `db:"presentation"`
	Gender       string    `db:"gender"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
}

type Favor struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	Category    string      `db:"category"`
	RequesterID string      `db:"requester_id"`
	Price       int64       `db:"price"`
	Location    string      `db:"location"`
	Status      FavorStatus `db:"status"`
	HelperID    *string     `db:"helper_id"`
	CreatedAt   time.Time   `db:"created_at"`
}

type Applicant struct {
	FavorID   string    `db:"favor_id"`
	UserID    string    `db:"user_id"`
	FullName  string    `db:"full_name"`
	Location  string    `db:"location"`
	AppliedAt time.Time `db:"applied_at"`
}

// ChatThread is the denormalized summary document for a two-party
// conversation. The last-message fields always reflect the most recently
// written message; ReadBy is reset to the sender on every send.
type ChatThread struct {
	ID               string
	ParticipantIDs   []string
	ParticipantNames map[string]string
	LastMessageText  string
	LastSenderID     string
	LastMessageAt    *time.Time
	ReadBy           []string
}

type Message struct {
	ID         string    `db:"id"`
	ThreadID   string    `db:"thread_id"`
	SenderID   string    `db:"sender_id"`
	SenderName string    `db:"sender_name"`
	Text       string    `db:"text"`
	CreatedAt  time.Time `db:"created_at"`
}

// ConversationSummary is the per-viewer projection of a ChatThread used to
// render a conversation list. OtherID, OtherName and Unread are derived at
// read time and never persisted.
type ConversationSummary struct {
	ThreadID        string
	OtherID         string
	OtherName       string
	LastMessageText string
	LastSenderID    string
	LastMessageAt   time.Time
	Unread          bool
}

type Notification struct {
	ID          string     `db:"id"`
	RecipientID string     `db:"recipient_id"`
	SenderID    string     `db:"sender_id"`
	SenderName  string     `db:"sender_name"`
	FavorID     string     `db:"favor_id"`
	FavorTitle  string     `db:"favor_title"`
	Type        string     `db:"type"`
	CreatedAt   time.Time  `db:"created_at"`
	ReadAt      *time.Time `db:"read_at"`
}

type Rating struct {
	ID          string    `db:"id"`
	FavorID     string    `db:"favor_id"`
	RaterID     string    `db:"rater_id"`
	RatedUserID string    `db:"rated_user_id"`
	Score       float64   `db:"score"`
	Comment     string    `db:"comment"`
	CreatedAt   time.Time `db:"created_at"`
}

// UserStats is fully recomputed from the set of ratings addressed to the
// user; it is never patched incrementally.
type UserStats struct {
	UserID          string    `db:"user_id"`
	FavorsCompleted int       `db:"favors_completed"`
	AverageRating   float64   `db:"average_rating"`
	TotalRatings    int       `db:"total_ratings"`
	PeopleHelped    int       `db:"people_helped"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
// The user id itself is immutable once created.
type ProfileUpdate struct {
	FullName     *string
	Location     *string
	Presentation *string
	Gender       *string
	Phone        *string
}
