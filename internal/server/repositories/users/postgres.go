package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secretsanta/internal/common"
	"github.com/dmitrijs2005/secretsanta/internal/dbx"
	"github.com/dmitrijs2005/secretsanta/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, name, secret_key_hash, assigned_to, seen_assignment, wishlist, questionnaire, created_at
		 FROM users`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	wishlist, questionnaire, err := encodeProfile(user.Wishlist, user.Questionnaire)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, name, secret_key_hash, wishlist, questionnaire)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	id := uuid.NewString()
	err = dbx.Conn(ctx, r.db).QueryRowContext(ctx, query,
		id, user.Name, user.SecretKeyHash, wishlist, questionnaire).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE name = $1`, name)
}

func (r *PostgresRepository) GetByAssignee(ctx context.Context, id string) (*models.User, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrorNotFound
	}
	return r.getOne(ctx, selectUser+` WHERE assigned_to = $1 LIMIT 1`, id)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := dbx.Conn(ctx, r.db).QueryContext(ctx, selectUser+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetSecretKeyHash(ctx context.Context, id string, hash string) error {
	return r.updateOne(ctx, `UPDATE users SET secret_key_hash = $2 WHERE id = $1`, id, hash)
}

func (r *PostgresRepository) SetAssignment(ctx context.Context, giverID, receiverID string) error {
	return r.updateOne(ctx, `UPDATE users SET assigned_to = $2 WHERE id = $1`, giverID, receiverID)
}

func (r *PostgresRepository) MarkAssignmentSeen(ctx context.Context, id string) error {
	return r.updateOne(ctx, `UPDATE users SET seen_assignment = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) UpdateWishlist(ctx context.Context, id string, wishlist []string) error {
	data, _, err := encodeProfile(wishlist, nil)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, `UPDATE users SET wishlist = $2 WHERE id = $1`, id, data)
}

func (r *PostgresRepository) UpdateQuestionnaire(ctx context.Context, id string, questionnaire map[string]any) error {
	_, data, err := encodeProfile(nil, questionnaire)
	if err != nil {
		return err
	}
	return r.updateOne(ctx, `UPDATE users SET questionnaire = $2 WHERE id = $1`, id, data)
}

func (r *PostgresRepository) ClearAssignments(ctx context.Context) error {
	if _, err := dbx.Conn(ctx, r.db).ExecContext(ctx, `UPDATE users SET assigned_to = NULL`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ResetSeenAssignments(ctx context.Context) error {
	if _, err := dbx.Conn(ctx, r.db).ExecContext(ctx, `UPDATE users SET seen_assignment = FALSE`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(dbx.Conn(ctx, r.db).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return u, err
}

// updateOne runs an UPDATE keyed by id ($1) and reports ErrorNotFound when
// no row matched.
func (r *PostgresRepository) updateOne(ctx context.Context, query string, id string, args ...any) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}

	res, err := dbx.Conn(ctx, r.db).ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u             models.User
		hash          sql.NullString
		assignedTo    sql.NullString
		wishlist      []byte
		questionnaire []byte
	)

	err := row.Scan(&u.ID, &u.Name, &hash, &assignedTo, &u.SeenAssignment, &wishlist, &questionnaire, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if hash.Valid {
		u.SecretKeyHash = &hash.String
	}
	if assignedTo.Valid {
		u.AssignedTo = &assignedTo.String
	}

	u.Wishlist = []string{}
	if len(wishlist) > 0 {
		if err := json.Unmarshal(wishlist, &u.Wishlist); err != nil {
			return nil, fmt.Errorf("decode wishlist: %w", err)
		}
	}
	u.Questionnaire = map[string]any{}
	if len(questionnaire) > 0 {
		if err := json.Unmarshal(questionnaire, &u.Questionnaire); err != nil {
			return nil, fmt.Errorf("decode questionnaire: %w", err)
		}
	}

	return &u, nil
}

// encodeProfile renders the JSONB columns as text. Nil values become the
// empty array and object.
func encodeProfile(wishlist []string, questionnaire map[string]any) (string, string, error) {
	if wishlist == nil {
		wishlist = []string{}
	}
	if questionnaire == nil {
		questionnaire = map[string]any{}
	}
	w, err := json.Marshal(wishlist)
	if err != nil {
		return "", "", fmt.Errorf("encode wishlist: %w", err)
	}
	q, err := json.Marshal(questionnaire)
	if err != nil {
		return "", "", fmt.Errorf("encode questionnaire: %w", err)
	}
	return string(w), string(q), nil
}
