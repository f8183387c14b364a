package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// boardCacheTTL bounds staleness of the cached board snapshot.
const boardCacheTTL = 5 * time.Minute

// ErrCacheMiss is returned by CachedBoard when no snapshot is stored.
var ErrCacheMiss = errors.New("redis: cache miss")

// BoardUsersKey returns the key of a board's presence set.
func BoardUsersKey(boardID uuid.UUID) string {
	return "board:" + boardID.String() + ":users"
}

// BoardCacheKey returns the key of a board's cached snapshot.
func BoardCacheKey(boardID uuid.UUID) string {
	return "board:" + boardID.String()
}

// AddUserToBoard records a user as present on a board. Idempotent: adding a
// user already in the set is not an error.
func (s *Store) AddUserToBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	if err := s.client.SAdd(ctx, BoardUsersKey(boardID), userID.String()).Err(); err != nil {
		return fmt.Errorf("redis.AddUserToBoard: %w", err)
	}
	return nil
}

// RemoveUserFromBoard removes a user from a board's presence set. Idempotent.
func (s *Store) RemoveUserFromBoard(ctx context.Context, boardID, userID uuid.UUID) error {
	if err := s.client.SRem(ctx, BoardUsersKey(boardID), userID.String()).Err(); err != nil {
		return fmt.Errorf("redis.RemoveUserFromBoard: %w", err)
	}
	return nil
}

// UsersInBoard returns the ids of users currently present on a board.
// Malformed set members are skipped rather than failing the whole read.
func (s *Store) UsersInBoard(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	members, err := s.client.SMembers(ctx, BoardUsersKey(boardID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.UsersInBoard: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, parseErr := uuid.Parse(m)
		if parseErr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CacheBoard stores a serialized board snapshot with a short TTL.
func (s *Store) CacheBoard(ctx context.Context, boardID uuid.UUID, data []byte) error {
	if err := s.client.Set(ctx, BoardCacheKey(boardID), data, boardCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis.CacheBoard: %w", err)
	}
	return nil
}

// CachedBoard returns the cached board snapshot, or ErrCacheMiss.
func (s *Store) CachedBoard(ctx context.Context, boardID uuid.UUID) ([]byte, error) {
	data, err := s.client.Get(ctx, BoardCacheKey(boardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis.CachedBoard: %w", ErrCacheMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("redis.CachedBoard: %w", err)
	}
	return data, nil
}

// InvalidateBoard drops only the cached snapshot, keeping presence intact.
// Called after any mutation that changes what a board GET would return.
func (s *Store) InvalidateBoard(ctx context.Context, boardID uuid.UUID) error {
	if err := s.client.Del(ctx, BoardCacheKey(boardID)).Err(); err != nil {
		return fmt.Errorf("redis.InvalidateBoard: %w", err)
	}
	return nil
}

// CleanupBoard purges every key associated with a board: the presence set and
// the cached snapshot. Invoked when a board is permanently deleted so stale
// state cannot leak into a recreated board id.
func (s *Store) CleanupBoard(ctx context.Context, boardID uuid.UUID) error {
	if err := s.client.Del(ctx, BoardCacheKey(boardID), BoardUsersKey(boardID)).Err(); err != nil {
		return fmt.Errorf("redis.CleanupBoard: %w", err)
	}
	return nil
}
