package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

const DefaultTTL = 5 * time.Minute

// CachedUserDirectory met en cache Redis les réponses positives du users-service.
// Les réponses négatives ne sont jamais cachées : un utilisateur créé juste après
// doit pouvoir tweeter immédiatement.
type CachedUserDirectory struct {
	client *redis.Client
	next   ports.UserDirectory
	ttl    time.Duration
}

func NewCachedUserDirectory(client *redis.Client, next ports.UserDirectory, ttl time.Duration) *CachedUserDirectory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedUserDirectory{client: client, next: next, ttl: ttl}
}

var _ ports.UserDirectory = (*CachedUserDirectory)(nil)

func key(userID string) string {
	return fmt.Sprintf("user:exists:%s", userID)
}

func (c *CachedUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	// 1. Cache hit
	_, err := c.client.Get(ctx, key(userID)).Result()
	switch {
	case err == nil:
		return true, nil
	case err != redis.Nil:
		// Redis indisponible : on dégrade vers l'appel direct
		slog.WarnContext(ctx, "user cache read failed", "user_id", userID, "error", err)
	}

	// 2. Source de vérité
	ok, err := c.next.Exists(ctx, userID)
	if err != nil || !ok {
		return ok, err
	}

	// 3. Remplissage
	if err := c.client.Set(ctx, key(userID), "1", c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "user cache write failed", "user_id", userID, "error", err)
	}
	return true, nil
}

// Evict retire l'entrée (désactivation, changement de statut).
func (c *CachedUserDirectory) Evict(ctx context.Context, userID string) error {
	return c.client.Del(ctx, key(userID)).Err()
}
