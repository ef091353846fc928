package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"neuroassess/internal/model"
	"neuroassess/internal/report"
)

type fakeSource struct {
	questions []model.Question
	err       error
	gotTier   model.Tier
	gotLimit  int
}

func (f *fakeSource) FetchQuestions(ctx context.Context, assessmentType string, tier model.Tier, limit int) ([]model.Question, error) {
	f.gotTier = tier
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.questions) {
		return f.questions[:limit], nil
	}
	return f.questions, nil
}

func likertQuestions(n int) []model.Question {
	cats := []string{"Extraversion", "Conscientiousness", "Agreeableness", "Openness", "Neuroticism"}
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:         fmt.Sprintf("q%d", i),
			Type:       model.QuestionTypeLikert,
			Text:       "I see myself as someone who...",
			Category:   cats[i%len(cats)],
			Instrument: "BFI-2",
		}
	}
	return qs
}

type mapBackend struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMapBackend() *mapBackend {
	return &mapBackend{data: map[string]string{}}
}

func (m *mapBackend) Save(ctx context.Context, key, blob string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = blob
	return nil
}

func (m *mapBackend) Load(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.data[key]
	return blob, ok, nil
}

func (m *mapBackend) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingSubmitter struct {
	calls int
	err   error
}

func (r *recordingSubmitter) Submit(ctx context.Context, sessionID string, responses []model.Response, rep *model.Report) error {
	r.calls++
	return r.err
}

var errBackendDown = errors.New("backend down")

func newTestSession(qs []model.Question) (*Session, *fakeClock, *fakeSource) {
	clock := &fakeClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	src := &fakeSource{questions: qs}
	gen, err := report.NewDefaultGenerator(1)
	if err != nil {
		panic(err)
	}
	gen.SetClock(clock.Now)
	s := NewSession(src, gen, Config{AssessmentType: "personality"})
	s.SetClock(clock.Now)
	return s, clock, src
}
