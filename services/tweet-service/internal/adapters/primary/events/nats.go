package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
)

const SubjectUserStatusChanged = "users.status_changed"

// Evicter retire un utilisateur du cache d'existence.
type Evicter interface {
	Evict(ctx context.Context, userID string) error
}

type userStatusChanged struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type EventHandler struct {
	cache Evicter
}

func NewEventHandler(cache Evicter) *EventHandler {
	return &EventHandler{cache: cache}
}

// Subscribe branche les handlers sur la connexion NATS.
func (h *EventHandler) Subscribe(nc *nats.Conn) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(SubjectUserStatusChanged,
		eventbus.Handler("tweet-service", "process_user_status_changed", h.HandleUserStatusChanged))
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", SubjectUserStatusChanged, err)
	}
	return sub, nil
}

func (h *EventHandler) HandleUserStatusChanged(ctx context.Context, env eventbus.Envelope) error {
	var event userStatusChanged
	if err := json.Unmarshal(env.Data, &event); err != nil {
		return fmt.Errorf("decode user event: %w", err)
	}
	if event.UserID == "" {
		return fmt.Errorf("user event without user_id")
	}

	slog.InfoContext(ctx, "📨 User status changed, evicting cache", "user_id", event.UserID, "status", event.Status)
	return h.cache.Evict(ctx, event.UserID)
}
