package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryUsers is an in-memory UserRepository for service tests.
type memoryUsers struct {
	users    map[string]*model.User
	edges    map[[2]string]bool
	messages map[string][]model.Message
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		users:    map[string]*model.User{},
		edges:    map[[2]string]bool{},
		messages: map[string][]model.Message{},
	}
}

func (m *memoryUsers) Create(_ context.Context, user *model.User) error {
	email := strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == email {
			return apperror.Conflict("user", email)
		}
	}
	user.ID = xid.New().String()
	user.Email = email
	if user.Avatar == "" {
		user.Avatar = model.DefaultAvatarURL
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	out.Followers = m.refs(id, false)
	out.Following = m.refs(id, true)
	return &out, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *memoryUsers) List(_ context.Context, excludeID string) ([]model.User, error) {
	var out []model.User
	for id, u := range m.users {
		if id == excludeID {
			continue
		}
		cp := *u
		cp.PasswordHash = ""
		cp.Followers = m.refs(id, false)
		cp.Following = m.refs(id, true)
		out = append(out, cp)
	}
	return out, nil
}

func (m *memoryUsers) Follow(_ context.Context, followerID, followedID string) error {
	m.edges[[2]string{followerID, followedID}] = true
	return nil
}

func (m *memoryUsers) Followers(_ context.Context, userID string) ([]model.UserRef, error) {
	return m.refs(userID, false), nil
}

func (m *memoryUsers) Following(_ context.Context, userID string) ([]model.UserRef, error) {
	return m.refs(userID, true), nil
}

func (m *memoryUsers) refs(userID string, following bool) []model.UserRef {
	var out []model.UserRef
	for edge := range m.edges {
		var other string
		switch {
		case following && edge[0] == userID:
			other = edge[1]
		case !following && edge[1] == userID:
			other = edge[0]
		default:
			continue
		}
		if u, ok := m.users[other]; ok {
			out = append(out, model.UserRef{ID: u.ID, Name: u.Name, Location: u.Location})
		}
	}
	return out
}

func (m *memoryUsers) AppendMessage(_ context.Context, toID, fromID, body string, at time.Time) error {
	from := model.UserRef{ID: fromID}
	if u, ok := m.users[fromID]; ok {
		from.Name = u.Name
	}
	m.messages[toID] = append(m.messages[toID], model.Message{From: from, Message: body, Timestamp: at})
	return nil
}

func (m *memoryUsers) Messages(_ context.Context, userID string) ([]model.Message, error) {
	return m.messages[userID], nil
}

func (m *memoryUsers) UpdateAllAvatars(_ context.Context, avatarURL string) (int64, error) {
	for _, u := range m.users {
		u.Avatar = avatarURL
	}
	return int64(len(m.users)), nil
}

func (m *memoryUsers) DeleteByEmailSuffix(_ context.Context, suffix string) (int64, error) {
	var n int64
	for id, u := range m.users {
		if strings.HasSuffix(u.Email, suffix) {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}
