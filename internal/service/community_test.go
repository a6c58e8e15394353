package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neokrishi/farmer-assistant/internal/apperror"
	"github.com/neokrishi/farmer-assistant/internal/model"
)

func seedUser(t *testing.T, users *memoryUsers, name, email string) string {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func TestListExcludesCaller(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())

	asha := seedUser(t, users, "Asha", "asha@example.com")
	seedUser(t, users, "Ravi", "ravi@example.com")

	got, err := svc.List(context.Background(), asha)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ravi", got[0].Name)
	assert.Empty(t, got[0].PasswordHash)
}

func TestGetUnknownFarmer(t *testing.T) {
	svc := NewCommunityService(newMemoryUsers(), testLogger())
	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestFollowSelfRejected(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")

	err := svc.Follow(context.Background(), asha, asha)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestFollowUnknownTarget(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")

	err := svc.Follow(context.Background(), asha, "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestFollowIsIdempotent(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")
	ravi := seedUser(t, users, "Ravi", "ravi@example.com")

	for range 3 {
		require.NoError(t, svc.Follow(context.Background(), asha, ravi))
	}

	followers, err := users.Followers(context.Background(), ravi)
	require.NoError(t, err)
	assert.Len(t, followers, 1, "repeat follows collapse to one edge")

	following, err := users.Following(context.Background(), asha)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "Ravi", following[0].Name)
}

func TestMessageAppendsRepeatedly(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")
	ravi := seedUser(t, users, "Ravi", "ravi@example.com")

	require.NoError(t, svc.Message(context.Background(), asha, ravi, "rain is coming"))
	require.NoError(t, svc.Message(context.Background(), asha, ravi, "rain is coming"))

	msgs, err := users.Messages(context.Background(), ravi)
	require.NoError(t, err)
	assert.Len(t, msgs, 2, "identical messages are both delivered")
	assert.Equal(t, "Asha", msgs[0].From.Name)
	assert.WithinDuration(t, time.Now(), msgs[0].Timestamp, time.Minute)
}

func TestMessageValidation(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")
	ravi := seedUser(t, users, "Ravi", "ravi@example.com")

	err := svc.Message(context.Background(), asha, ravi, "")
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	err = svc.Message(context.Background(), asha, "missing", "hello")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestUpdateAvatars(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	asha := seedUser(t, users, "Asha", "asha@example.com")
	seedUser(t, users, "Ravi", "ravi@example.com")

	n, err := svc.UpdateAvatars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	u, err := users.GetByID(context.Background(), asha)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAvatarURL, u.Avatar)
}

func TestCleanupRemovesLegacyAccounts(t *testing.T) {
	users := newMemoryUsers()
	svc := NewCommunityService(users, testLogger())
	seedUser(t, users, "Demo", "demo1@farmer.com")
	seedUser(t, users, "Demo", "demo2@farmer.com")
	keep := seedUser(t, users, "Asha", "asha@example.com")

	n, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = users.GetByID(context.Background(), keep)
	assert.NoError(t, err, "real accounts survive cleanup")
}
