package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroassess/internal/model"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newMapBackend()
	st := NewStore(backend, 0, nil)
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return now })

	snap := &model.SessionSnapshot{
		SessionID: "abc",
		Status:    model.SessionInProgress,
		StartTime: now.Add(-time.Hour),
		Responses: []model.Response{{QuestionID: "q0", Value: model.NumberValue(4)}},
	}
	require.NoError(t, st.Save(ctx, snap))
	assert.Contains(t, backend.data, "assessment:session:abc")

	got, err := st.Load(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.Responses, got.Responses)
	assert.True(t, snap.StartTime.Equal(got.StartTime))
}

func TestStoreRoundTripKeepsEmptyListAnswer(t *testing.T) {
	ctx := context.Background()
	q := model.Question{ID: "wc", Type: model.QuestionTypeWordChoice, Category: "Openness", MaxSelections: 3}
	s, clock, _ := newTestSession([]model.Question{q})
	st := NewStore(newMapBackend(), 0, nil)
	st.SetClock(clock.Now)
	s.SetStore(st, true)
	require.NoError(t, s.Start(ctx, model.TierCore, model.ModeQuick))

	_, err := s.RecordResponse(ctx, model.ListValue())
	require.NoError(t, err)

	snap, err := st.Load(ctx, s.ID())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Responses, 1)

	got := snap.Responses[0].Value
	assert.Equal(t, model.ValueList, got.Kind)
	assert.NotNil(t, got.List)
	assert.False(t, got.IsNull())
	assert.True(t, Validate(&q, got))
}

func TestStoreLoadAbsent(t *testing.T) {
	st := NewStore(newMapBackend(), 0, nil)
	got, err := st.Load(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreDiscardsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newMapBackend()
	st := NewStore(backend, 0, nil)
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return now })

	require.NoError(t, st.Save(ctx, &model.SessionSnapshot{SessionID: "old", StartTime: now.Add(-25 * time.Hour)}))

	got, err := st.Load(ctx, "old")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, backend.data)
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	assert.False(t, IsStale(&model.SessionSnapshot{StartTime: now.Add(-24 * time.Hour)}, now, DefaultSnapshotMaxAge))
	assert.True(t, IsStale(&model.SessionSnapshot{StartTime: now.Add(-24*time.Hour - time.Second)}, now, DefaultSnapshotMaxAge))
	assert.True(t, IsStale(&model.SessionSnapshot{}, now, DefaultSnapshotMaxAge))
	assert.True(t, IsStale(nil, now, DefaultSnapshotMaxAge))
}
