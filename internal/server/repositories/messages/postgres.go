package messages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/secretsanta/internal/dbx"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/oklog/ulid/v2"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (id, sender_id, receiver_id, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	id := ulid.Make().String()
	err := dbx.Conn(ctx, r.db).QueryRowContext(ctx, query,
		id, msg.SenderID, msg.ReceiverID, msg.Body).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	msg.ID = id
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func (r *PostgresRepository) Conversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	query :=
		`SELECT id, sender_id, receiver_id, body, created_at FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at, id
		 `

	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := dbx.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM messages`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
