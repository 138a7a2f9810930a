package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"estatepilot_backend/platform/apperr"
)

// maxMessages caps thread length. Oldest rows beyond the cap are dropped on
// append so long-running chats stay bounded.
const maxMessages = 100

const conversationColumns = `id, builder_id, lead_id, context, created_at, updated_at`

const messageColumns = `id, conversation_id, role, content, intent, is_qualification, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanConversation(row pgx.Row) (Conversation, error) {
	var conv Conversation
	var rawContext []byte
	err := row.Scan(&conv.ID, &conv.BuilderID, &conv.LeadID, &rawContext, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return Conversation{}, err
	}
	if len(rawContext) > 0 {
		if err := json.Unmarshal(rawContext, &conv.Context); err != nil {
			return Conversation{}, fmt.Errorf("unmarshal conversation context: %w", err)
		}
	}
	return conv, nil
}

func scanMessage(row pgx.Row) (Message, error) {
	var msg Message
	err := row.Scan(
		&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content,
		&msg.Intent, &msg.IsQualification, &msg.CreatedAt,
	)
	return msg, err
}

// GetOrCreate returns the lead's conversation, creating it in the greeting
// stage on first contact. Safe under concurrent inserts for the same lead.
func (r *Repo) GetOrCreate(ctx context.Context, builderID, leadID uuid.UUID) (Conversation, error) {
	initial, err := json.Marshal(Context{Stage: StageGreeting})
	if err != nil {
		return Conversation{}, fmt.Errorf("marshal initial context: %w", err)
	}

	query := `
		INSERT INTO conversations (builder_id, lead_id, context)
		VALUES ($1, $2, $3)
		ON CONFLICT (lead_id) DO UPDATE SET updated_at = now()
		RETURNING ` + conversationColumns

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, builderID, leadID, initial))
	if err != nil {
		return Conversation{}, fmt.Errorf("get or create conversation: %w", err)
	}
	return conv, nil
}

// GetByLead returns the lead's conversation without creating one.
func (r *Repo) GetByLead(ctx context.Context, builderID, leadID uuid.UUID) (Conversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM conversations
		WHERE builder_id = $1 AND lead_id = $2`

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, builderID, leadID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, apperr.NotFound("conversation not found")
		}
		return Conversation{}, fmt.Errorf("get conversation by lead: %w", err)
	}
	return conv, nil
}

// UpdateContext replaces the conversation's flow state.
func (r *Repo) UpdateContext(ctx context.Context, id uuid.UUID, convCtx Context) error {
	raw, err := json.Marshal(convCtx)
	if err != nil {
		return fmt.Errorf("marshal conversation context: %w", err)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE conversations SET context = $2, updated_at = now() WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return fmt.Errorf("update conversation context: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("conversation not found")
	}
	return nil
}

// AppendMessage adds a turn and trims history beyond the message cap.
func (r *Repo) AppendMessage(ctx context.Context, conversationID uuid.UUID, params MessageParams) (Message, error) {
	query := `
		INSERT INTO conversation_messages (conversation_id, role, content, intent, is_qualification)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns

	msg, err := scanMessage(r.pool.QueryRow(ctx, query,
		conversationID, params.Role, params.Content, params.Intent, params.IsQualification,
	))
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		DELETE FROM conversation_messages
		WHERE conversation_id = $1 AND id NOT IN (
			SELECT id FROM conversation_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)`, conversationID, maxMessages)
	if err != nil {
		return Message{}, fmt.Errorf("trim messages: %w", err)
	}
	return msg, nil
}

// History returns the most recent messages in chronological order.
func (r *Repo) History(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error) {
	if limit <= 0 || limit > maxMessages {
		limit = maxMessages
	}
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `
			FROM conversation_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("conversation history: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("conversation history: %w", rows.Err())
	}
	return messages, nil
}

// MessageCount returns the number of stored turns.
func (r *Repo) MessageCount(ctx context.Context, conversationID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM conversation_messages WHERE conversation_id = $1`,
		conversationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("message count: %w", err)
	}
	return count, nil
}
