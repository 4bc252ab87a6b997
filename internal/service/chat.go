package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
	"github.com/vecinoapp/favores-service/internal/repository"
	"github.com/vecinoapp/favores-service/internal/stream"
	"github.com/vecinoapp/favores-service/pkg/logger/sl"
)

// fallbackDisplayName is shown for a participant whose name is missing
// from the thread's name map.
const fallbackDisplayName = "Usuario"

// NotificationTypeNewChat marks the notification sent to the recipient of
// the first message in a thread.
const NotificationTypeNewChat = "chat:new"

// SendInput carries everything needed to send a message; the thread id is
// derived from the two participant ids, never supplied by the caller.
type SendInput struct {
	SenderID      string
	SenderName    string
	RecipientID   string
	RecipientName string
	Text          string
}

type ChatService interface {
	// Send appends a message to the pair's thread and updates the thread
	// summary in the same transaction. Validation failures (empty text,
	// self-chat) are returned before any write.
	Send(ctx context.Context, in SendInput) (*domain.Message, error)

	// Messages returns the thread's full message list, oldest first.
	Messages(ctx context.Context, threadID, userID string) ([]domain.Message, error)

	// Subscribe delivers the full ordered message list now and again after
	// every insert, until cancel is called or ctx is done.
	Subscribe(ctx context.Context, threadID, userID string) (<-chan []domain.Message, func(), error)

	// Conversations returns the user's conversation list, newest first.
	Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error)

	// SubscribeConversations delivers the full conversation list now and
	// again whenever any of the user's threads changes.
	SubscribeConversations(ctx context.Context, userID string) (<-chan []domain.ConversationSummary, func(), error)

	// MarkRead records that the user has seen the thread's latest message.
	MarkRead(ctx context.Context, threadID, userID string) error
}

type ChatServiceImpl struct {
	BaseService
	repo          repository.ChatRepository
	notifications repository.NotificationRepository
	broker        *stream.Broker
}

func NewChatService(db Transactor, log *slog.Logger, repo repository.ChatRepository, notifications repository.NotificationRepository, broker *stream.Broker) *ChatServiceImpl {
	return &ChatServiceImpl{
		BaseService:   NewBaseService(db, log),
		repo:          repo,
		notifications: notifications,
		broker:        broker,
	}
}

func (s *ChatServiceImpl) Send(ctx context.Context, in SendInput) (*domain.Message, error) {
	const op = "internal.service.chat.Send"

	if in.SenderID == in.RecipientID {
		return nil, apperrors.ErrSelfChat
	}

	threadID := domain.ThreadID(in.SenderID, in.RecipientID)

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, &apperrors.EmptyMessageError{ThreadID: threadID}
	}

	log := s.log.With(slog.String("op", op), slog.String("thread_id", threadID), slog.String("sender_id", in.SenderID))

	// Whether the thread already exists decides if the recipient gets a
	// new-chat notification below. An inconclusive read just skips the
	// notification; the send itself must not depend on it.
	newThread := false
	if _, err := s.repo.GetThread(ctx, threadID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			newThread = true
		} else {
			log.Error("failed to check thread existence", sl.Err(err))
		}
	}

	msg := &domain.Message{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		SenderID:   in.SenderID,
		SenderName: in.SenderName,
		Text:       text,
	}

	// The message row and the summary row commit as one unit: a reader can
	// never see a summary pointing at a message that is not retrievable,
	// nor a message the summary does not yet reflect.
	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertMessage(ctx, tx, msg); err != nil {
			return err
		}

		thread := &domain.ChatThread{
			ID:             threadID,
			ParticipantIDs: []string{in.SenderID, in.RecipientID},
			ParticipantNames: map[string]string{
				in.SenderID:    in.SenderName,
				in.RecipientID: in.RecipientName,
			},
			LastMessageText: text,
			LastSenderID:    in.SenderID,
			LastMessageAt:   &msg.CreatedAt,
			ReadBy:          []string{in.SenderID},
		}

		if err := s.repo.UpsertThread(ctx, tx, thread); err != nil {
			return fmt.Errorf("%s: failed to upsert thread summary: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("message sent")

	s.broker.Publish(stream.ThreadTopic(threadID))
	s.broker.Publish(stream.UserTopic(in.SenderID))
	s.broker.Publish(stream.UserTopic(in.RecipientID))

	if newThread {
		n := &domain.Notification{
			ID:          uuid.NewString(),
			RecipientID: in.RecipientID,
			SenderID:    in.SenderID,
			SenderName:  in.SenderName,
			Type:        NotificationTypeNewChat,
		}
		if err := s.notifications.CreateNotification(ctx, n); err != nil {
			log.Error("failed to create notification", sl.Err(err))
		}
	}

	return msg, nil
}

func (s *ChatServiceImpl) Messages(ctx context.Context, threadID, userID string) ([]domain.Message, error) {
	const op = "internal.service.chat.Messages"

	if err := s.checkParticipant(ctx, threadID, userID, false); err != nil {
		return nil, err
	}

	msgs, err := s.repo.GetMessages(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get messages: %w", op, err)
	}

	return msgs, nil
}

func (s *ChatServiceImpl) Subscribe(ctx context.Context, threadID, userID string) (<-chan []domain.Message, func(), error) {
	const op = "internal.service.chat.Subscribe"

	// The thread may not exist yet: subscribing before the first send is
	// legal and delivers an empty list.
	if err := s.checkParticipant(ctx, threadID, userID, true); err != nil {
		return nil, nil, err
	}

	sig, cancelSig := s.broker.Subscribe(stream.ThreadTopic(threadID))
	subCtx, cancelCtx := context.WithCancel(ctx)

	cancel := func() {
		cancelCtx()
		cancelSig()
	}

	out := make(chan []domain.Message, 1)

	go func() {
		defer close(out)

		log := s.log.With(slog.String("op", op), slog.String("thread_id", threadID))

		for {
			msgs, err := s.repo.GetMessages(subCtx, threadID)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}

				// The stream stays open across transient read failures;
				// the next change signal retries.
				log.Error("failed to refresh message list", sl.Err(err))
			} else {
				select {
				case out <- msgs:
				case <-subCtx.Done():
					return
				}
			}

			select {
			case <-sig:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}

func (s *ChatServiceImpl) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	const op = "internal.service.chat.Conversations"

	threads, err := s.repo.GetThreadsByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get threads: %w", op, err)
	}

	summaries := make([]domain.ConversationSummary, 0, len(threads))
	for _, thread := range threads {
		if thread.LastMessageAt == nil || len(thread.ParticipantIDs) == 0 {
			// The repository filters these, but a partially written row
			// must never reach the caller.
			continue
		}

		summaries = append(summaries, summarizeThread(thread, userID))
	}

	return summaries, nil
}

func (s *ChatServiceImpl) SubscribeConversations(ctx context.Context, userID string) (<-chan []domain.ConversationSummary, func(), error) {
	const op = "internal.service.chat.SubscribeConversations"

	sig, cancelSig := s.broker.Subscribe(stream.UserTopic(userID))
	subCtx, cancelCtx := context.WithCancel(ctx)

	cancel := func() {
		cancelCtx()
		cancelSig()
	}

	out := make(chan []domain.ConversationSummary, 1)

	go func() {
		defer close(out)

		log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

		for {
			summaries, err := s.Conversations(subCtx, userID)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}

				log.Error("failed to refresh conversation list", sl.Err(err))
			} else {
				select {
				case out <- summaries:
				case <-subCtx.Done():
					return
				}
			}

			select {
			case <-sig:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, cancel, nil
}

func (s *ChatServiceImpl) MarkRead(ctx context.Context, threadID, userID string) error {
	const op = "internal.service.chat.MarkRead"

	if err := s.checkParticipant(ctx, threadID, userID, false); err != nil {
		return err
	}

	if err := s.repo.AddReadBy(ctx, threadID, userID); err != nil {
		return fmt.Errorf("%s: failed to mark thread read: %w", op, err)
	}

	// The viewer's own conversation list must drop its unread flag.
	s.broker.Publish(stream.UserTopic(userID))

	return nil
}

// checkParticipant verifies the user belongs to the thread. With
// allowMissing the check passes when no summary row exists yet.
func (s *ChatServiceImpl) checkParticipant(ctx context.Context, threadID, userID string, allowMissing bool) error {
	const op = "internal.service.chat.checkParticipant"

	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		if allowMissing && errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("%s: failed to get thread: %w", op, err)
	}

	if !slices.Contains(thread.ParticipantIDs, userID) {
		return apperrors.ErrNotParticipant
	}

	return nil
}

// summarizeThread computes the per-viewer derived fields. They are never
// persisted.
func summarizeThread(thread domain.ChatThread, userID string) domain.ConversationSummary {
	otherID := ""
	for _, id := range thread.ParticipantIDs {
		if id != userID {
			otherID = id
			break
		}
	}

	otherName := thread.ParticipantNames[otherID]
	if otherName == "" {
		otherName = fallbackDisplayName
	}

	unread := thread.LastSenderID != userID && !slices.Contains(thread.ReadBy, userID)

	return domain.ConversationSummary{
		ThreadID:        thread.ID,
		OtherID:         otherID,
		OtherName:       otherName,
		LastMessageText: thread.LastMessageText,
		LastSenderID:    thread.LastSenderID,
		LastMessageAt:   *thread.LastMessageAt,
		Unread:          unread,
	}
}
