package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neuroassess/internal/assessment"
	"neuroassess/internal/cache"
	"neuroassess/internal/model"
	"neuroassess/internal/report"
)

type bankSource struct {
	n int
}

func (b bankSource) FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error) {
	cats := []string{"Extraversion", "Conscientiousness", "Agreeableness", "Openness", "EmotionalStability"}
	n := b.n
	if limit < n {
		n = limit
	}
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: fmt.Sprintf("q%d", i), Type: model.QuestionTypeLikert, Category: cats[i%len(cats)]}
	}
	return qs, nil
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	messages     map[string][]string
	disconnected []string
}

func (r *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages == nil {
		r.messages = map[string][]string{}
	}
	r.messages[sessionID] = append(r.messages[sessionID], msgType)
}

func (r *recordingBroadcaster) DisconnectSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = append(r.disconnected, sessionID)
}

type testEnv struct {
	svc   *AssessmentService
	auth  *AuthService
	store *cache.MemoryStore
	bc    *recordingBroadcaster
	clock *time.Time
}

func newTestEnv(t *testing.T, questions int) *testEnv {
	t.Helper()
	return newTestEnvWithAutosave(t, questions, true)
}

func newTestEnvWithAutosave(t *testing.T, questions int, autosave bool) *testEnv {
	t.Helper()
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	nowFn := func() time.Time { return *clock }

	gen, err := report.NewDefaultGenerator(7)
	require.NoError(t, err)
	gen.SetClock(nowFn)

	mem := cache.NewMemoryStore()
	store := assessment.NewStore(mem, 0, nil)
	store.SetClock(nowFn)

	auth := NewAuthService("test-secret", time.Hour)
	svc := NewAssessmentService(bankSource{n: questions}, gen, store, auth, AssessmentConfig{AssessmentType: "personality", Autosave: autosave}, nil)
	svc.SetClock(nowFn)
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	return &testEnv{svc: svc, auth: auth, store: mem, bc: bc, clock: clock}
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func TestStartIssuesScopedToken(t *testing.T) {
	e := newTestEnv(t, 5)
	v, err := e.svc.Start(context.Background(), model.TierCore, model.ModeQuick, model.DeviceInfo{Platform: "web"})
	require.NoError(t, err)

	assert.Equal(t, model.SessionInProgress, v.Status)
	require.NotNil(t, v.Question)
	assert.Equal(t, "q0", v.Question.ID)
	assert.Equal(t, 5, v.Progress.TotalQuestions)
	assert.NoError(t, e.auth.Authorize(v.Token, v.SessionID))
	assert.ErrorIs(t, e.auth.Authorize(v.Token, "other"), ErrTokenScope)
	assert.Equal(t, 1, e.store.Len())
}

func TestFullAssessmentFlow(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)
	id := v.SessionID

	for i := 0; i < 5; i++ {
		_, err := e.svc.RecordResponse(ctx, id, model.NumberValue(4))
		require.NoError(t, err)
		_, err = e.svc.Next(ctx, id)
		require.NoError(t, err)
	}

	res, err := e.svc.Complete(ctx, id, false, &model.BehavioralMetrics{AnxietyScore: 0.3, DurationMS: 1000})
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.NotNil(t, res.Report)
	assert.Equal(t, id, res.Report.Metadata.SessionID)

	rep, err := e.svc.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.Report, rep)

	kinds := e.bc.messages[id]
	assert.Equal(t, string(assessment.QuestionChanged), kinds[0])
	assert.Equal(t, string(assessment.SessionCompleted), kinds[len(kinds)-1])

	dist, err := e.svc.ArchetypeDistribution(ctx)
	require.NoError(t, err)
	assert.Empty(t, dist)
}

func TestCompleteReturnsWarning(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)

	res, err := e.svc.Complete(ctx, v.SessionID, false, nil)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	require.NotNil(t, res.Warning)
	assert.Equal(t, 0, res.Warning.Answered)

	_, err = e.svc.Report(ctx, v.SessionID)
	assert.ErrorIs(t, err, assessment.ErrSessionNotFound)
}

func TestUnknownSession(t *testing.T) {
	e := newTestEnv(t, 5)
	_, err := e.svc.Current(context.Background(), "nope")
	assert.ErrorIs(t, err, assessment.ErrSessionNotFound)
}

func TestEvictedSessionIsRestored(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)
	_, err = e.svc.RecordResponse(ctx, v.SessionID, model.NumberValue(2))
	require.NoError(t, err)
	_, err = e.svc.Next(ctx, v.SessionID)
	require.NoError(t, err)

	e.advance(time.Hour)
	assert.Equal(t, 1, e.svc.Sweep(30*time.Minute))

	cur, err := e.svc.Resume(ctx, v.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, cur.QuestionIndex)
	assert.Equal(t, 1, cur.Progress.Answered)
}

func TestStaleSessionIsNotRestored(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)

	e.advance(25 * time.Hour)
	e.svc.Sweep(time.Minute)

	_, err = e.svc.Resume(ctx, v.SessionID)
	assert.ErrorIs(t, err, assessment.ErrSessionNotFound)
}

func TestResetReplacesSession(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{Language: "de"})
	require.NoError(t, err)

	fresh, err := e.svc.Reset(ctx, v.SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, v.SessionID, fresh.SessionID)
	assert.Equal(t, model.SessionNotStarted, fresh.Status)
	assert.NoError(t, e.auth.Authorize(fresh.Token, fresh.SessionID))
	assert.Equal(t, []string{v.SessionID}, e.bc.disconnected)

	_, err = e.svc.Current(ctx, v.SessionID)
	assert.ErrorIs(t, err, assessment.ErrSessionNotFound)

	started, err := e.svc.StartReset(ctx, fresh.SessionID, model.TierFree, model.ModeQuick)
	require.NoError(t, err)
	assert.Equal(t, model.SessionInProgress, started.Status)
}

func TestConcurrentResponsesAreSerialized(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = e.svc.RecordResponse(ctx, v.SessionID, model.NumberValue(float64(i%5+1)))
		}(i)
	}
	wg.Wait()

	p, err := e.svc.Progress(ctx, v.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Answered)
}

func TestInvalidResponseIsRejected(t *testing.T) {
	e := newTestEnv(t, 5)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeQuick, model.DeviceInfo{})
	require.NoError(t, err)

	_, err = e.svc.RecordResponse(ctx, v.SessionID, model.TextValue(""))
	var ve *assessment.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSweepDuringRequestsLosesNoProgress(t *testing.T) {
	e := newTestEnvWithAutosave(t, 30, false)
	ctx := context.Background()
	v, err := e.svc.Start(ctx, model.TierCore, model.ModeStandard, model.DeviceInfo{})
	require.NoError(t, err)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				e.svc.Sweep(-time.Second)
			}
		}
	}()

	const moves = 20
	for i := 0; i < moves; i++ {
		_, err := e.svc.RecordResponse(ctx, v.SessionID, model.NumberValue(4))
		require.NoError(t, err)
		res, err := e.svc.Next(ctx, v.SessionID)
		require.NoError(t, err)
		require.True(t, res.Moved)
	}
	close(done)
	wg.Wait()

	cur, err := e.svc.Current(ctx, v.SessionID)
	require.NoError(t, err)
	assert.Equal(t, moves, cur.QuestionIndex)
	assert.Equal(t, moves, cur.Progress.Answered)
}
