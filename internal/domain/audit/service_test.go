package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	svc := New(NewMemoryStore(0), func() time.Time { return now })

	require.NoError(t, svc.Record(ctx, "ADMIN", ActionLeaveSubmit, EntityLeaveRequest, "REQ0001", "req-1", "10.0.0.1", nil, map[string]any{"status": "Pending"}))
	require.NoError(t, svc.Record(ctx, "ADMIN", ActionLeaveApprove, EntityLeaveRequest, "REQ0001", "req-2", "10.0.0.1", map[string]any{"status": "Pending"}, map[string]any{"status": "Approved"}))
	require.NoError(t, svc.Record(ctx, "HR", ActionPolicyAdd, EntityPolicy, "POL001", "req-3", "", nil, nil))

	events, err := svc.List(ctx, Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, ActionPolicyAdd, events[0].Action)
	assert.Equal(t, ActionLeaveSubmit, events[2].Action)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, now, events[0].CreatedAt)
	assert.Nil(t, events[0].Before)

	var after map[string]string
	require.NoError(t, json.Unmarshal(events[1].After, &after))
	assert.Equal(t, "Approved", after["status"])

	total, err := svc.Count(ctx, Filter{EntityType: EntityLeaveRequest})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	byActor, err := svc.List(ctx, Filter{ActorID: "HR"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, "POL001", byActor[0].EntityID)
}

func TestMemoryStorePagingAndCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)
	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Insert(ctx, Event{ID: fmt.Sprintf("E%d", i), Action: ActionLeaveSubmit}))
	}

	total, err := store.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	page, err := store.List(ctx, Filter{}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"E5", "E4"}, ids(page))

	page, err = store.List(ctx, Filter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"E3"}, ids(page))
}

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{Action: "a", ActorID: "u"})
	assert.Equal(t, "SELECT COUNT(1) FROM audit_events WHERE 1=1 AND action = $1 AND actor_id = $2", query)
	assert.Equal(t, []any{"a", "u"}, args)
}

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}
