package service

import (
	"context"
	"sync"
	"time"

	"neuroassess/internal/assessment"
	"neuroassess/internal/cache"
	"neuroassess/internal/metrics"
	"neuroassess/internal/model"
	"neuroassess/internal/platform/logger"
)

// ReportLookup finds reports of sessions that are no longer live
type ReportLookup interface {
	GetReport(ctx context.Context, sessionID string) (*model.Report, error)
}

// AssessmentConfig holds service-wide session settings
type AssessmentConfig struct {
	AssessmentType string
	Autosave       bool
}

// SessionView is the client-facing state of a session
type SessionView struct {
	SessionID     string              `json:"sessionId"`
	Token         string              `json:"token,omitempty"`
	Status        model.SessionStatus `json:"status"`
	Tier          model.Tier          `json:"tier,omitempty"`
	Mode          model.Mode          `json:"mode,omitempty"`
	QuestionIndex int                 `json:"questionIndex"`
	Question      *model.Question     `json:"question,omitempty"`
	Response      *model.Response     `json:"response,omitempty"`
	Progress      model.Progress      `json:"progress"`
}

// MoveResult reports whether a navigation call moved the cursor
type MoveResult struct {
	Moved bool `json:"moved"`
	SessionView
}

// CompleteResult is the outcome of a completion request
type CompleteResult struct {
	Completed   bool                             `json:"completed"`
	Report      *model.Report                    `json:"report,omitempty"`
	Warning     *assessment.LowCompletionWarning `json:"warning,omitempty"`
	SubmitError string                           `json:"submitError,omitempty"`
}

type liveSession struct {
	mu       sync.Mutex
	session  *assessment.Session
	lastUsed time.Time
}

// AssessmentService drives assessment sessions on behalf of remote clients.
// Calls for one session are serialized; different sessions run in parallel.
type AssessmentService struct {
	mu   sync.Mutex
	live map[string]*liveSession

	source    assessment.QuestionSource
	generator assessment.ReportGenerator
	store     *assessment.Store
	auth      *AuthService
	cfg       AssessmentConfig

	submitter     assessment.ResultSubmitter
	reports       ReportLookup
	reportCache   cache.ReportCache
	archetypes    cache.ArchetypeStats
	questionStats cache.QuestionStatsCache
	broadcaster   Broadcaster

	now func() time.Time
	log *logger.Logger
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(
	source assessment.QuestionSource,
	generator assessment.ReportGenerator,
	store *assessment.Store,
	auth *AuthService,
	cfg AssessmentConfig,
	log *logger.Logger,
) *AssessmentService {
	if log == nil {
		log = logger.Nop()
	}
	return &AssessmentService{
		live:      make(map[string]*liveSession),
		source:    source,
		generator: generator,
		store:     store,
		auth:      auth,
		cfg:       cfg,
		now:       time.Now,
		log:       log,
	}
}

// SetSubmitter sets the result submitter
func (s *AssessmentService) SetSubmitter(sub assessment.ResultSubmitter) {
	s.submitter = sub
}

// SetReportLookup sets where reports of evicted sessions are found
func (s *AssessmentService) SetReportLookup(r ReportLookup) {
	s.reports = r
}

// SetReportCache sets the report cache
func (s *AssessmentService) SetReportCache(c cache.ReportCache) {
	s.reportCache = c
}

// SetArchetypeStats sets the archetype counter
func (s *AssessmentService) SetArchetypeStats(a cache.ArchetypeStats) {
	s.archetypes = a
}

// SetQuestionStats sets the per-question counters
func (s *AssessmentService) SetQuestionStats(q cache.QuestionStatsCache) {
	s.questionStats = q
}

// SetBroadcaster sets the broadcaster for live notifications
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock overrides the time source of the service and its sessions
func (s *AssessmentService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AssessmentService) newSession() *assessment.Session {
	sess := assessment.NewSession(s.source, s.generator, assessment.Config{AssessmentType: s.cfg.AssessmentType})
	sess.SetClock(s.now)
	sess.SetLogger(s.log)
	if s.store != nil {
		sess.SetStore(s.store, s.cfg.Autosave)
	}
	if s.submitter != nil {
		sess.SetSubmitter(s.submitter)
	}
	sess.SetObserver(assessment.ObserverFunc(s.onNotify))
	return sess
}

func (s *AssessmentService) onNotify(n assessment.Notification) {
	if n.Kind == assessment.ResponseRecorded && n.Response != nil {
		r := *n.Response
		result := "answered"
		if r.TimedOut {
			result = "timed_out"
		} else if r.Skipped {
			result = "skipped"
		} else {
			metrics.ResponseTime.WithLabelValues(string(r.QuestionType)).Observe(float64(r.ResponseTimeMS) / 1000)
		}
		metrics.Responses.WithLabelValues(string(r.QuestionType), result).Inc()

		if s.questionStats != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := s.questionStats.Record(ctx, r); err != nil {
				s.log.Warn("question stats update failed", "questionId", r.QuestionID, "error", err)
			}
			cancel()
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(n.SessionID, string(n.Kind), n)
	}
}

func (s *AssessmentService) track(sess *assessment.Session) *liveSession {
	ls := &liveSession{session: sess, lastUsed: s.now()}
	s.mu.Lock()
	s.live[sess.ID()] = ls
	metrics.LiveSessions.Set(float64(len(s.live)))
	s.mu.Unlock()
	return ls
}

// acquire returns the locked live session for id, restoring it from the
// store when this process does not hold it. Callers must unlock.
func (s *AssessmentService) acquire(ctx context.Context, sessionID string) (*liveSession, error) {
	for {
		ls, err := s.lookup(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		ls.mu.Lock()
		s.mu.Lock()
		current := s.live[sessionID] == ls
		s.mu.Unlock()
		if !current {
			// evicted or reset between lookup and lock
			ls.mu.Unlock()
			continue
		}
		ls.lastUsed = s.now()
		return ls, nil
	}
}

// lookup returns the live entry for id, restoring it from the store if needed
func (s *AssessmentService) lookup(ctx context.Context, sessionID string) (*liveSession, error) {
	s.mu.Lock()
	ls, ok := s.live[sessionID]
	s.mu.Unlock()
	if ok {
		return ls, nil
	}

	sess := s.newSession()
	found, err := sess.ResumeExisting(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, assessment.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.live[sessionID]; ok {
		return existing, nil
	}
	ls = &liveSession{session: sess, lastUsed: s.now()}
	s.live[sessionID] = ls
	metrics.LiveSessions.Set(float64(len(s.live)))
	return ls, nil
}

func (s *AssessmentService) with(ctx context.Context, sessionID string, fn func(sess *assessment.Session) error) error {
	ls, err := s.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer ls.mu.Unlock()
	return fn(ls.session)
}

func view(sess *assessment.Session) SessionView {
	v := SessionView{
		SessionID:     sess.ID(),
		Status:        sess.Status(),
		Tier:          sess.Tier(),
		Mode:          sess.Mode(),
		QuestionIndex: sess.CurrentIndex(),
		Question:      sess.CurrentQuestion(),
		Progress:      sess.Progress(),
	}
	if v.Question != nil {
		if r, ok := sess.ResponseFor(v.Question.ID); ok {
			v.Response = &r
		}
	}
	return v
}

// Start creates and starts a new session and issues its participant token
func (s *AssessmentService) Start(ctx context.Context, tier model.Tier, mode model.Mode, device model.DeviceInfo) (*SessionView, error) {
	sess := s.newSession()
	sess.SetDevice(device)
	if err := sess.Start(ctx, tier, mode); err != nil {
		return nil, err
	}
	token, err := s.auth.IssueParticipantToken(sess.ID())
	if err != nil {
		return nil, err
	}
	s.track(sess)
	metrics.SessionsStarted.WithLabelValues(string(sess.Tier()), string(sess.Mode())).Inc()

	v := view(sess)
	v.Token = token
	return &v, nil
}

// Resume loads a stored session into memory and returns its state
func (s *AssessmentService) Resume(ctx context.Context, sessionID string) (*SessionView, error) {
	var v SessionView
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		v = view(sess)
		return nil
	})
	if err != nil {
		metrics.SessionsResumed.WithLabelValues("not_found").Inc()
		return nil, err
	}
	metrics.SessionsResumed.WithLabelValues("ok").Inc()
	return &v, nil
}

// Current returns the session state at its current question
func (s *AssessmentService) Current(ctx context.Context, sessionID string) (*SessionView, error) {
	var v SessionView
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		v = view(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RecordResponse answers the current question
func (s *AssessmentService) RecordResponse(ctx context.Context, sessionID string, value model.Value) (*model.Response, error) {
	var resp *model.Response
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		r, err := sess.RecordResponse(ctx, value)
		if err != nil {
			if q := sess.CurrentQuestion(); q != nil {
				metrics.Responses.WithLabelValues(string(q.Type), "invalid").Inc()
			}
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

func (s *AssessmentService) move(ctx context.Context, sessionID string, fn func(sess *assessment.Session) (bool, error)) (*MoveResult, error) {
	var res MoveResult
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		moved, err := fn(sess)
		if err != nil {
			return err
		}
		res = MoveResult{Moved: moved, SessionView: view(sess)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Next advances to the next question
func (s *AssessmentService) Next(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.move(ctx, sessionID, func(sess *assessment.Session) (bool, error) {
		return sess.Advance(ctx)
	})
}

// Prev moves back one question
func (s *AssessmentService) Prev(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.move(ctx, sessionID, func(sess *assessment.Session) (bool, error) {
		return sess.Retreat(ctx)
	})
}

// Skip skips the current question
func (s *AssessmentService) Skip(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.move(ctx, sessionID, func(sess *assessment.Session) (bool, error) {
		return sess.Skip(ctx)
	})
}

// Timeout reports that the current question's time limit ran out. Moved is
// false when the question had already been answered.
func (s *AssessmentService) Timeout(ctx context.Context, sessionID string) (*MoveResult, error) {
	return s.move(ctx, sessionID, func(sess *assessment.Session) (bool, error) {
		return sess.OnTimeExpired(ctx)
	})
}

// GoTo jumps to a question index
func (s *AssessmentService) GoTo(ctx context.Context, sessionID string, index int) (*MoveResult, error) {
	return s.move(ctx, sessionID, func(sess *assessment.Session) (bool, error) {
		if err := sess.GoTo(ctx, index); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Progress returns the progress view
func (s *AssessmentService) Progress(ctx context.Context, sessionID string) (*model.Progress, error) {
	var p model.Progress
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		p = sess.Progress()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Complete finishes the session. Behavioral metrics are optional.
func (s *AssessmentService) Complete(ctx context.Context, sessionID string, force bool, behavioral *model.BehavioralMetrics) (*CompleteResult, error) {
	var res *assessment.CompletionResult
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		if behavioral != nil {
			sess.SetBehavioralSource(assessment.StaticMetrics{Metrics: behavioral})
		}
		r, err := sess.Complete(ctx, force)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &CompleteResult{Completed: res.Completed, Report: res.Report, Warning: res.Warning}
	if !res.Completed {
		metrics.CompletionWarnings.Inc()
		return out, nil
	}
	if res.SubmitErr != nil {
		metrics.SubmitFailures.Inc()
		out.SubmitError = res.SubmitErr.Error()
	}
	metrics.SessionsCompleted.WithLabelValues(res.Report.Archetype.Name).Inc()

	if s.reportCache != nil {
		if err := s.reportCache.Set(ctx, sessionID, res.Report); err != nil {
			s.log.Warn("report cache write failed", "sessionId", sessionID, "error", err)
		}
	}
	if s.archetypes != nil {
		if err := s.archetypes.Increment(ctx, res.Report.Archetype.Name); err != nil {
			s.log.Warn("archetype stats update failed", "sessionId", sessionID, "error", err)
		}
	}
	return out, nil
}

// Reset discards a session and returns its NotStarted replacement with a
// fresh id and token
func (s *AssessmentService) Reset(ctx context.Context, sessionID string) (*SessionView, error) {
	ls, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer ls.mu.Unlock()

	if err := ls.session.Reset(ctx); err != nil {
		return nil, err
	}
	newID := ls.session.ID()
	token, err := s.auth.IssueParticipantToken(newID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.live, sessionID)
	s.live[newID] = ls
	s.mu.Unlock()
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(sessionID)
	}

	v := view(ls.session)
	v.Token = token
	return &v, nil
}

// StartReset begins a reset session (NotStarted) with a new question set
func (s *AssessmentService) StartReset(ctx context.Context, sessionID string, tier model.Tier, mode model.Mode) (*SessionView, error) {
	var v SessionView
	err := s.with(ctx, sessionID, func(sess *assessment.Session) error {
		if err := sess.Start(ctx, tier, mode); err != nil {
			return err
		}
		v = view(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.SessionsStarted.WithLabelValues(string(v.Tier), string(v.Mode)).Inc()
	return &v, nil
}

// Report returns a completed session's report from memory, cache or the
// result store, in that order
func (s *AssessmentService) Report(ctx context.Context, sessionID string) (*model.Report, error) {
	s.mu.Lock()
	ls, ok := s.live[sessionID]
	s.mu.Unlock()
	if ok {
		ls.mu.Lock()
		rep := ls.session.Report()
		ls.mu.Unlock()
		if rep != nil {
			return rep, nil
		}
	}

	if s.reportCache != nil {
		rep, err := s.reportCache.Get(ctx, sessionID)
		if err != nil {
			s.log.Warn("report cache read failed", "sessionId", sessionID, "error", err)
		} else if rep != nil {
			return rep, nil
		}
	}
	if s.reports != nil {
		rep, err := s.reports.GetReport(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if rep != nil {
			return rep, nil
		}
	}
	return nil, assessment.ErrSessionNotFound
}

// ArchetypeDistribution returns how often each archetype was assigned
func (s *AssessmentService) ArchetypeDistribution(ctx context.Context) ([]model.ArchetypeCount, error) {
	if s.archetypes == nil {
		return []model.ArchetypeCount{}, nil
	}
	return s.archetypes.Distribution(ctx)
}

// QuestionStats returns the response counters of one question
func (s *AssessmentService) QuestionStats(ctx context.Context, questionID string) (*model.QuestionStats, error) {
	if s.questionStats == nil {
		return nil, nil
	}
	return s.questionStats.Get(ctx, questionID)
}

// Sweep drops sessions idle longer than maxIdle from memory. Their
// snapshots stay in the store and are restored on next use.
func (s *AssessmentService) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, ls := range s.live {
		if !ls.mu.TryLock() {
			continue
		}
		if ls.lastUsed.Before(cutoff) {
			if ls.session.Status() != model.SessionNotStarted {
				if err := ls.session.Save(context.Background()); err != nil {
					s.log.Warn("snapshot before eviction failed", "sessionId", id, "error", err)
				}
			}
			delete(s.live, id)
			removed++
		}
		ls.mu.Unlock()
	}
	metrics.LiveSessions.Set(float64(len(s.live)))
	if removed > 0 {
		s.log.Debug("evicted idle sessions", "count", removed)
	}
	return removed
}

// Run sweeps idle sessions until ctx is done
func (s *AssessmentService) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(maxIdle)
		}
	}
}
