package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayush/rv-checklist/backend/internal/models"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// UserStore is the user persistence surface shared by the Postgres and
// memory stores.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// UserCache is a read-through Redis cache in front of GetUserByID, which is
// hit on every authenticated request. Cached entries never carry the
// password hash; lookups by email always go to the backing store.
type UserCache struct {
	next UserStore
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewUserCache(next UserStore, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *UserCache {
	return &UserCache{next: next, rdb: rdb, ttl: ttl, log: log}
}

func userKey(id string) string { return "user:" + id }

func (c *UserCache) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return c.next.CreateUser(ctx, u)
}

func (c *UserCache) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.next.GetUserByEmail(ctx, email)
}

// GetUserByID serves from Redis when possible. Redis failures fall through
// to the backing store.
func (c *UserCache) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	raw, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	switch {
	case err == nil:
		var u models.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			return &u, nil
		}
		c.log.Warn("dropping undecodable cached user", "user_id", id)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("user cache read failed", "user_id", id, "error", err)
	}

	u, err := c.next.GetUserByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	if data, jerr := json.Marshal(u); jerr == nil {
		if serr := c.rdb.Set(ctx, userKey(id), data, c.ttl).Err(); serr != nil {
			c.log.Warn("user cache write failed", "user_id", id, "error", serr)
		}
	}
	return u, nil
}

func (c *UserCache) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := c.next.UpdateLastLogin(ctx, id, at); err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, userKey(id)).Err(); err != nil {
		c.log.Warn("user cache invalidate failed", "user_id", id, "error", err)
	}
	return nil
}
