package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Chat.
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrSelfChat       = errors.New("cannot open a chat with yourself")
	ErrNotParticipant = errors.New("user is not a participant of this thread")

	// Favors.
	ErrFavorNotOpen       = errors.New("favor is not accepting applicants")
	ErrAlreadyApplied     = errors.New("user already applied to this favor")
	ErrSelfApply          = errors.New("requester cannot apply to their own favor")
	ErrNotRequester       = errors.New("user is not the requester of this favor")
	ErrNoApplicant        = errors.New("user has not applied to this favor")
	ErrFavorNotInProgress = errors.New("favor is not in progress")

	// Ratings.
	ErrScoreOutOfRange   = errors.New("score must be between 1.0 and 5.0")
	ErrFavorNotCompleted = errors.New("only completed favors can be rated")
	ErrFavorAlreadyRated = errors.New("favor has already been rated")
)

type EmptyMessageError struct{ ThreadID string }

func (e *EmptyMessageError) Error() string {
	return fmt.Sprintf("empty message for thread '%s'", e.ThreadID)
}
func (e *EmptyMessageError) Is(target error) bool {
	return target == ErrEmptyMessage || target == ErrValidation
}

type ScoreOutOfRangeError struct{ Score float64 }

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %.1f is out of the allowed range [1.0, 5.0]", e.Score)
}
func (e *ScoreOutOfRangeError) Is(target error) bool {
	return target == ErrScoreOutOfRange || target == ErrValidation
}

type FavorAlreadyRatedError struct{ FavorID string }

func (e *FavorAlreadyRatedError) Error() string {
	return fmt.Sprintf("favor '%s' has already been rated", e.FavorID)
}
func (e *FavorAlreadyRatedError) Is(target error) bool {
	return target == ErrFavorAlreadyRated || target == ErrAlreadyExists
}

type AlreadyAppliedError struct {
	FavorID string
	UserID  string
}

func (e *AlreadyAppliedError) Error() string {
	return fmt.Sprintf("user '%s' already applied to favor '%s'", e.UserID, e.FavorID)
}
func (e *AlreadyAppliedError) Is(target error) bool {
	return target == ErrAlreadyApplied || target == ErrAlreadyExists
}
