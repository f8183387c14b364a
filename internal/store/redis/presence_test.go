package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/corkboard/corkboard/internal/store/redis"
)

func newTestStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := redisstore.New(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestPresenceAddRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)

	boardID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, store.AddUserToBoard(ctx, boardID, alice))
	require.NoError(t, store.AddUserToBoard(ctx, boardID, bob))

	// Idempotent re-add.
	require.NoError(t, store.AddUserToBoard(ctx, boardID, alice))

	users, err := store.UsersInBoard(ctx, boardID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, users)

	require.NoError(t, store.RemoveUserFromBoard(ctx, boardID, alice))

	// Idempotent re-remove.
	require.NoError(t, store.RemoveUserFromBoard(ctx, boardID, alice))

	users, err = store.UsersInBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob}, users)
}

// TestPresenceConvergence replays a join/leave sequence across several
// simulated users and checks the final set is exactly those who joined and
// never left.
func TestPresenceConvergence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)
	boardID := uuid.New()

	users := make([]uuid.UUID, 6)
	for i := range users {
		users[i] = uuid.New()
	}

	for _, u := range users {
		require.NoError(t, store.AddUserToBoard(ctx, boardID, u))
	}
	// Users 0, 2, 4 leave (explicit leave or disconnect: same store op).
	for _, i := range []int{0, 2, 4} {
		require.NoError(t, store.RemoveUserFromBoard(ctx, boardID, users[i]))
	}

	got, err := store.UsersInBoard(ctx, boardID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{users[1], users[3], users[5]}, got)
}

func TestPresenceSkipsMalformedMembers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t)
	boardID := uuid.New()
	alice := uuid.New()

	require.NoError(t, store.AddUserToBoard(ctx, boardID, alice))
	_, err := mr.SetAdd(redisstore.BoardUsersKey(boardID), "not-a-uuid")
	require.NoError(t, err)

	users, lookupErr := store.UsersInBoard(ctx, boardID)
	require.NoError(t, lookupErr)
	assert.Equal(t, []uuid.UUID{alice}, users)
}

func TestBoardCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t)
	boardID := uuid.New()

	_, err := store.CachedBoard(ctx, boardID)
	assert.ErrorIs(t, err, redisstore.ErrCacheMiss)

	snapshot := []byte(`{"title":"Roadmap"}`)
	require.NoError(t, store.CacheBoard(ctx, boardID, snapshot))

	got, err := store.CachedBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)

	// Snapshot expires.
	mr.FastForward(6 * time.Minute)
	_, err = store.CachedBoard(ctx, boardID)
	assert.ErrorIs(t, err, redisstore.ErrCacheMiss)
}

func TestInvalidateBoard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)
	boardID := uuid.New()
	alice := uuid.New()

	require.NoError(t, store.CacheBoard(ctx, boardID, []byte("{}")))
	require.NoError(t, store.AddUserToBoard(ctx, boardID, alice))

	require.NoError(t, store.InvalidateBoard(ctx, boardID))

	_, err := store.CachedBoard(ctx, boardID)
	assert.ErrorIs(t, err, redisstore.ErrCacheMiss)

	// Presence must survive cache invalidation.
	users, err := store.UsersInBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alice}, users)
}

func TestCleanupBoard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)
	boardID := uuid.New()
	alice := uuid.New()

	require.NoError(t, store.AddUserToBoard(ctx, boardID, alice))
	require.NoError(t, store.CacheBoard(ctx, boardID, []byte("{}")))

	require.NoError(t, store.CleanupBoard(ctx, boardID))

	users, err := store.UsersInBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = store.CachedBoard(ctx, boardID)
	assert.ErrorIs(t, err, redisstore.ErrCacheMiss)
}

func TestChannelAndKeyNames(t *testing.T) {
	t.Parallel()

	boardID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.Equal(t, "board:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee:users", redisstore.BoardUsersKey(boardID))
	assert.Equal(t, "board:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", redisstore.BoardCacheKey(boardID))
	assert.Equal(t, "board:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee:events", redisstore.BoardEventsChannel(boardID))

	// The three namespaces must never collide.
	assert.NotEqual(t, redisstore.BoardUsersKey(boardID), redisstore.BoardCacheKey(boardID))
	assert.NotEqual(t, redisstore.BoardUsersKey(boardID), redisstore.BoardEventsChannel(boardID))
}
