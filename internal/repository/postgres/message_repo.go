// internal/repository/postgres/message_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"khidma-service/internal/domain/message"
	xerrors "khidma-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// FindOrCreateConversation returns the conversation for a job between the
// two parties, creating it on first contact.
func (r *MessageRepository) FindOrCreateConversation(ctx context.Context, jobID, clientID, consultantID int64) (*message.Conversation, error) {
	query := `
		INSERT INTO conversations (job_id, client_id, consultant_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id, client_id, consultant_id) DO UPDATE SET job_id = EXCLUDED.job_id
		RETURNING id, job_id, client_id, consultant_id, created_at
	`

	var conv message.Conversation
	err := r.db.QueryRow(ctx, query, jobID, clientID, consultantID).Scan(
		&conv.ID, &conv.JobID, &conv.ClientID, &conv.ConsultantID, &conv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create conversation: %w", err)
	}

	return &conv, nil
}

// FindConversation retrieves a conversation by ID
func (r *MessageRepository) FindConversation(ctx context.Context, id int64) (*message.Conversation, error) {
	query := `
		SELECT id, job_id, client_id, consultant_id, created_at
		FROM conversations
		WHERE id = $1
	`

	var conv message.Conversation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&conv.ID, &conv.JobID, &conv.ClientID, &conv.ConsultantID, &conv.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	return &conv, nil
}

const messageColumns = `
	id, conversation_id, sender_id, body, moderation,
	flag_reason, flagged_by, moderated_by, moderated_at, created_at
`

func scanMessage(row pgx.Row) (*message.Message, error) {
	var m message.Message
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.Moderation,
		&m.FlagReason, &m.FlaggedBy, &m.ModeratedBy, &m.ModeratedAt, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}

// CreateMessage appends a message to a conversation
func (r *MessageRepository) CreateMessage(ctx context.Context, m *message.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, body, moderation)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		m.ConversationID, m.SenderID, m.Body, m.Moderation,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// FindMessage retrieves a single message
func (r *MessageRepository) FindMessage(ctx context.Context, id int64) (*message.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE id = $1`, messageColumns)
	return scanMessage(r.db.QueryRow(ctx, query, id))
}

// ListByConversation returns a conversation's messages, oldest first.
// Removed messages stay in the thread but are body-redacted by the service.
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID int64, limit int) ([]*message.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, messageColumns)

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var msgs []*message.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

// Flag marks a message for moderation review
func (r *MessageRepository) Flag(ctx context.Context, id, flaggedBy int64, reason string) error {
	query := `
		UPDATE messages
		SET moderation = 'flagged', flag_reason = $3, flagged_by = $2
		WHERE id = $1 AND moderation IN ('none', 'approved')
	`

	tag, err := r.db.Exec(ctx, query, id, flaggedBy, reason)
	if err != nil {
		return fmt.Errorf("failed to flag message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// Moderate resolves a flagged message (approved or removed)
func (r *MessageRepository) Moderate(ctx context.Context, id, moderatorID int64, status message.ModerationStatus) error {
	query := `
		UPDATE messages
		SET moderation = $3, moderated_by = $2, moderated_at = NOW()
		WHERE id = $1 AND moderation = 'flagged'
	`

	tag, err := r.db.Exec(ctx, query, id, moderatorID, status)
	if err != nil {
		return fmt.Errorf("failed to moderate message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrInvalidState
	}

	return nil
}

// ListFlagged returns the moderation queue, oldest flags first
func (r *MessageRepository) ListFlagged(ctx context.Context, filters *message.QueueFilters) ([]*message.Message, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE moderation = 'flagged'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count flagged messages: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(`
		SELECT %s FROM messages
		WHERE moderation = 'flagged'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, messageColumns)

	rows, err := r.db.Query(ctx, query, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flagged messages: %w", err)
	}
	defer rows.Close()

	var msgs []*message.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}

	return msgs, total, rows.Err()
}
