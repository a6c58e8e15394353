package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
	"github.com/neokrishi/farmer-assistant/internal/repository"
	"github.com/rs/xid"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new account. Emails are stored lowercased; the UNIQUE
// constraint surfaces as an apperror.Conflict.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Avatar == "" {
		user.Avatar = model.DefaultAvatarURL
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, location, crops, experience, avatar, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Location,
		joinCrops(user.Crops),
		user.Experience,
		user.Avatar,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetByID loads an account by its internal ID, edge lists included.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, name, location, crops, experience, avatar, created_at, updated_at
		FROM users WHERE id = ?`, id)
}

// GetByEmail loads an account by lowercased email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, email, password_hash, name, location, crops, experience, avatar, created_at, updated_at
		FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	var crops string
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Location,
		&crops, &u.Experience, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading user %s: %w", arg, err)
	}
	u.Crops = splitCrops(crops)

	if u.Followers, err = db.Followers(ctx, u.ID); err != nil {
		return nil, err
	}
	if u.Following, err = db.Following(ctx, u.ID); err != nil {
		return nil, err
	}

	return &u, nil
}

// List returns every account except excludeID. Password hashes are not
// loaded; edge lists are.
func (db *DB) List(ctx context.Context, excludeID string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, email, name, location, crops, experience, avatar, created_at, updated_at
		 FROM users WHERE id != ? ORDER BY created_at`, excludeID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		var crops string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Location, &crops,
			&u.Experience, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		u.Crops = splitCrops(crops)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	for i := range users {
		if users[i].Followers, err = db.Followers(ctx, users[i].ID); err != nil {
			return nil, err
		}
		if users[i].Following, err = db.Following(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// Follow records follower→followed. INSERT OR IGNORE keeps the edge set
// duplicate-free, so the operation is idempotent.
func (db *DB) Follow(ctx context.Context, followerID, followedID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_edges (follower_id, followed_id) VALUES (?, ?)`,
		followerID, followedID)
	if err != nil {
		return fmt.Errorf("sqlite: inserting follow edge %s->%s: %w", followerID, followedID, err)
	}
	return nil
}

// Followers returns refs to the users following userID.
func (db *DB) Followers(ctx context.Context, userID string) ([]model.UserRef, error) {
	return db.edgeRefs(ctx,
		`SELECT u.id, u.name, u.location FROM user_edges e
		 JOIN users u ON u.id = e.follower_id
		 WHERE e.followed_id = ? ORDER BY e.created_at`, userID)
}

// Following returns refs to the users userID follows.
func (db *DB) Following(ctx context.Context, userID string) ([]model.UserRef, error) {
	return db.edgeRefs(ctx,
		`SELECT u.id, u.name, u.location FROM user_edges e
		 JOIN users u ON u.id = e.followed_id
		 WHERE e.follower_id = ? ORDER BY e.created_at`, userID)
}

func (db *DB) edgeRefs(ctx context.Context, query, userID string) ([]model.UserRef, error) {
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading edges for %s: %w", userID, err)
	}
	defer rows.Close()

	refs := []model.UserRef{}
	for rows.Next() {
		var r model.UserRef
		if err := rows.Scan(&r.ID, &r.Name, &r.Location); err != nil {
			return nil, fmt.Errorf("sqlite: scanning edge row: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// AppendMessage adds a message to toID's inbox. No dedup; sending the same
// text twice stores two rows.
func (db *DB) AppendMessage(ctx context.Context, toID, fromID, body string, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO inbox_messages (user_id, from_id, body, created_at) VALUES (?, ?, ?, ?)`,
		toID, fromID, body, at)
	if err != nil {
		return fmt.Errorf("sqlite: appending message to %s: %w", toID, err)
	}
	return nil
}

// Messages returns userID's inbox in arrival order with sender refs resolved.
func (db *DB) Messages(ctx context.Context, userID string) ([]model.Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.id, u.name, m.body, m.created_at
		 FROM inbox_messages m
		 JOIN users u ON u.id = m.from_id
		 WHERE m.user_id = ? ORDER BY m.created_at, m.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading inbox for %s: %w", userID, err)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.From.ID, &m.From.Name, &m.Message, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// UpdateAllAvatars sets every account's avatar URL.
func (db *DB) UpdateAllAvatars(ctx context.Context, avatarURL string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET avatar = ?, updated_at = ?`, avatarURL, time.Now())
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating avatars: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByEmailSuffix removes legacy accounts, e.g. the seeded "@farmer.com"
// mock users.
func (db *DB) DeleteByEmailSuffix(ctx context.Context, suffix string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE email LIKE ?`, "%"+suffix)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting users by email suffix %s: %w", suffix, err)
	}
	return res.RowsAffected()
}

func joinCrops(crops []string) string {
	return strings.Join(crops, ",")
}

func splitCrops(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
