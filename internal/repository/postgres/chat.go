package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/vecinoapp/favores-service/internal/apperrors"
	"github.com/vecinoapp/favores-service/internal/domain"
)

type ChatRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewChatRepository(db *sqlx.DB, log *slog.Logger) *ChatRepository {
	return &ChatRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// threadRow is the raw chats row; participant_names is a JSONB map of
// user id to display name.
type threadRow struct {
	ID               string         `db:"id"`
	ParticipantIDs   pq.StringArray `db:"participant_ids"`
	ParticipantNames []byte         `db:"participant_names"`
	LastMessageText  string         `db:"last_message_text"`
	LastSenderID     string         `db:"last_sender_id"`
	LastMessageAt    *time.Time     `db:"last_message_at"`
	ReadBy           pq.StringArray `db:"read_by"`
}

func (row *threadRow) toDomain() (*domain.ChatThread, error) {
	names := make(map[string]string)
	if len(row.ParticipantNames) > 0 {
		if err := json.Unmarshal(row.ParticipantNames, &names); err != nil {
			return nil, fmt.Errorf("failed to decode participant names: %w", err)
		}
	}

	return &domain.ChatThread{
		ID:               row.ID,
		ParticipantIDs:   []string(row.ParticipantIDs),
		ParticipantNames: names,
		LastMessageText:  row.LastMessageText,
		LastSenderID:     row.LastSenderID,
		LastMessageAt:    row.LastMessageAt,
		ReadBy:           []string(row.ReadBy),
	}, nil
}

const threadColumns = "id, participant_ids, participant_names, last_message_text, last_sender_id, last_message_at, read_by"

func (cr *ChatRepository) InsertMessage(ctx context.Context, tx *sqlx.Tx, msg *domain.Message) error {
	const op = "internal.repository.postgres.InsertMessage"

	query, args, err := cr.sq.Insert("messages").
		Columns("id", "thread_id", "sender_id", "sender_name", "text").
		Values(msg.ID, msg.ThreadID, msg.SenderID, msg.SenderName, msg.Text).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	// created_at comes from the database clock so ordering does not depend
	// on client clocks.
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&msg.CreatedAt); err != nil {
		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (cr *ChatRepository) UpsertThread(ctx context.Context, tx *sqlx.Tx, thread *domain.ChatThread) error {
	const op = "internal.repository.postgres.UpsertThread"

	names, err := json.Marshal(thread.ParticipantNames)
	if err != nil {
		return fmt.Errorf("%s: failed to encode participant names: %w", op, err)
	}

	query, args, err := cr.sq.Insert("chats").
		Columns(threadColumns).
		Values(
			thread.ID,
			pq.Array(thread.ParticipantIDs),
			names,
			thread.LastMessageText,
			thread.LastSenderID,
			thread.LastMessageAt,
			pq.Array(thread.ReadBy),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			participant_names = EXCLUDED.participant_names,
			last_message_text = EXCLUDED.last_message_text,
			last_sender_id = EXCLUDED.last_sender_id,
			last_message_at = EXCLUDED.last_message_at,
			read_by = EXCLUDED.read_by`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	return nil
}

func (cr *ChatRepository) GetThread(ctx context.Context, threadID string) (*domain.ChatThread, error) {
	const op = "internal.repository.postgres.GetThread"

	query, args, err := cr.sq.Select(threadColumns).
		From("chats").
		Where(sq.Eq{"id": threadID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row threadRow
	if err := cr.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: thread with id '%s'", op, apperrors.ErrNotFound, threadID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	thread, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return thread, nil
}

func (cr *ChatRepository) GetMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	const op = "internal.repository.postgres.GetMessages"

	query, args, err := cr.sq.Select("id", "thread_id", "sender_id", "sender_name", "text", "created_at").
		From("messages").
		Where(sq.Eq{"thread_id": threadID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var msgs []domain.Message
	if err := cr.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return msgs, nil
}

func (cr *ChatRepository) GetThreadsByParticipant(ctx context.Context, userID string) ([]domain.ChatThread, error) {
	const op = "internal.repository.postgres.GetThreadsByParticipant"

	// Partially written summaries (no timestamp yet, or an empty
	// participant set) are filtered out here so the conversation index
	// never sees them.
	query, args, err := cr.sq.Select(threadColumns).
		From("chats").
		Where(sq.Expr("participant_ids @> ARRAY[?]::text[]", userID)).
		Where("last_message_at IS NOT NULL").
		Where("cardinality(participant_ids) > 0").
		OrderBy("last_message_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows, err := cr.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}
	defer rows.Close()

	var threads []domain.ChatThread
	for rows.Next() {
		var row threadRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}

		thread, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		threads = append(threads, *thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	return threads, nil
}

func (cr *ChatRepository) AddReadBy(ctx context.Context, threadID, userID string) error {
	const op = "internal.repository.postgres.AddReadBy"

	// array_append only when absent keeps the operation idempotent.
	query, args, err := cr.sq.Update("chats").
		Set("read_by", sq.Expr("array_append(read_by, ?)", userID)).
		Where(sq.Eq{"id": threadID}).
		Where(sq.Expr("NOT (read_by @> ARRAY[?]::text[])", userID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := cr.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		// Either the thread is missing or the user already read it; only
		// the former is an error.
		var exists bool
		checkQuery, checkArgs, buildErr := cr.sq.Select("TRUE").
			From("chats").
			Where(sq.Eq{"id": threadID}).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%s: failed to build existence query: %w", op, buildErr)
		}

		if err := cr.db.GetContext(ctx, &exists, checkQuery, checkArgs...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%s: %w: thread with id '%s'", op, apperrors.ErrNotFound, threadID)
			}

			return fmt.Errorf("%s: failed to execute existence query: %w", op, err)
		}
	}

	return nil
}
