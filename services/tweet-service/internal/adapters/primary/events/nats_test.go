package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/tweetsuite/pkg/eventbus"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/adapters/primary/events"
)

type evictRecorder struct{ ids []string }

func (e *evictRecorder) Evict(_ context.Context, id string) error {
	e.ids = append(e.ids, id)
	return nil
}

func TestHandleUserStatusChanged(t *testing.T) {
	rec := &evictRecorder{}
	h := events.NewEventHandler(rec)

	data, err := json.Marshal(map[string]string{"user_id": "u-1", "status": "INACTIVE"})
	require.NoError(t, err)

	err = h.HandleUserStatusChanged(context.Background(), eventbus.Envelope{Subject: events.SubjectUserStatusChanged, Data: data})
	require.NoError(t, err)
	assert.Equal(t, []string{"u-1"}, rec.ids)
}

func TestHandleUserStatusChangedRejectsGarbage(t *testing.T) {
	rec := &evictRecorder{}
	h := events.NewEventHandler(rec)

	assert.Error(t, h.HandleUserStatusChanged(context.Background(), eventbus.Envelope{Data: []byte(`"nope"`)}))
	assert.Error(t, h.HandleUserStatusChanged(context.Background(), eventbus.Envelope{Data: []byte(`{}`)}))
	assert.Empty(t, rec.ids)
}
