package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"neuroassess/internal/model"
	"neuroassess/internal/platform/logger"
	"neuroassess/internal/report"
	"neuroassess/internal/scoring"
)

const (
	// DefaultCompletionThreshold is the answered ratio below which Complete warns
	DefaultCompletionThreshold = 0.8
	// FallbackQuestionMS estimates time per question before any response exists
	FallbackQuestionMS = 30000
)

// ReportGenerator builds the final report from aggregated scores
type ReportGenerator interface {
	Generate(in report.Input) *model.Report
}

// Config holds per-session settings
type Config struct {
	AssessmentType      string
	CompletionThreshold float64
}

// CompletionResult is the outcome of Complete. When Completed is false the
// session is unchanged and Warning says why.
type CompletionResult struct {
	Completed bool
	Report    *model.Report
	Warning   *LowCompletionWarning
	SubmitErr error
}

// Session is the assessment state machine. It is not safe for concurrent
// use; callers serialize access.
type Session struct {
	id             string
	assessmentType string
	status         model.SessionStatus
	tier           model.Tier
	mode           model.Mode
	questions      []model.Question
	current        int
	responses      []model.Response
	byQuestion     map[string]int
	startTime      time.Time
	endTime        *time.Time
	entryTime      time.Time
	device         model.DeviceInfo
	report         *model.Report

	threshold  float64
	source     QuestionSource
	generator  ReportGenerator
	store      *Store
	autosave   bool
	submitter  ResultSubmitter
	behavioral BehavioralMetricsSource
	observer   Observer
	now        func() time.Time
	newID      func() string
	log        *logger.Logger
}

// NewSession creates a NotStarted session with a fresh id
func NewSession(source QuestionSource, generator ReportGenerator, cfg Config) *Session {
	if cfg.CompletionThreshold <= 0 {
		cfg.CompletionThreshold = DefaultCompletionThreshold
	}
	s := &Session{
		assessmentType: cfg.AssessmentType,
		status:         model.SessionNotStarted,
		byQuestion:     map[string]int{},
		threshold:      cfg.CompletionThreshold,
		source:         source,
		generator:      generator,
		now:            time.Now,
		newID:          uuid.NewString,
		log:            logger.Nop(),
	}
	s.id = s.newID()
	return s
}

// SetStore enables snapshot persistence; autosave saves after every mutation
func (s *Session) SetStore(store *Store, autosave bool) {
	s.store = store
	s.autosave = autosave
}

// SetSubmitter sets the optional result submitter
func (s *Session) SetSubmitter(sub ResultSubmitter) {
	s.submitter = sub
}

// SetBehavioralSource sets the optional behavioral metrics source
func (s *Session) SetBehavioralSource(src BehavioralMetricsSource) {
	s.behavioral = src
}

// SetObserver sets the notification observer
func (s *Session) SetObserver(o Observer) {
	s.observer = o
}

// SetClock overrides the time source
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// SetIDGenerator overrides session id generation. The current id is replaced.
func (s *Session) SetIDGenerator(newID func() string) {
	s.newID = newID
	s.id = newID()
}

// SetLogger sets the session logger
func (s *Session) SetLogger(log *logger.Logger) {
	s.log = log
}

// SetDevice records client metadata
func (s *Session) SetDevice(d model.DeviceInfo) {
	s.device = d
}

func (s *Session) ID() string                  { return s.id }
func (s *Session) Status() model.SessionStatus { return s.status }
func (s *Session) Tier() model.Tier            { return s.tier }
func (s *Session) Mode() model.Mode            { return s.mode }
func (s *Session) CurrentIndex() int           { return s.current }
func (s *Session) StartTime() time.Time        { return s.startTime }
func (s *Session) EndTime() *time.Time         { return s.endTime }
func (s *Session) Device() model.DeviceInfo    { return s.device }
func (s *Session) Report() *model.Report       { return s.report }

// Questions returns a copy of the question list
func (s *Session) Questions() []model.Question {
	return append([]model.Question(nil), s.questions...)
}

// Responses returns a copy of the response log in first-answer order
func (s *Session) Responses() []model.Response {
	return append([]model.Response(nil), s.responses...)
}

// CurrentQuestion returns the question at the current index, or nil before start
func (s *Session) CurrentQuestion() *model.Question {
	if len(s.questions) == 0 {
		return nil
	}
	q := s.questions[s.current]
	return &q
}

// ResponseFor returns the stored response for a question id
func (s *Session) ResponseFor(questionID string) (model.Response, bool) {
	i, ok := s.byQuestion[questionID]
	if !ok {
		return model.Response{}, false
	}
	return s.responses[i], true
}

// Start fetches the question set and begins the session. Only a NotStarted
// session can start; resuming a saved one goes through ResumeExisting.
func (s *Session) Start(ctx context.Context, tier model.Tier, mode model.Mode) error {
	if s.status != model.SessionNotStarted {
		return &InvalidStateError{Op: "start", Status: s.status}
	}
	if mode == "" {
		mode = model.ModeStandard
	}

	questions, err := s.source.FetchQuestions(ctx, s.assessmentType, tier, mode.QuestionCount())
	if err != nil {
		return fmt.Errorf("fetch questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	now := s.now().UTC()
	s.tier = tier
	s.mode = mode
	s.questions = questions
	s.current = 0
	s.responses = nil
	s.byQuestion = map[string]int{}
	s.startTime = now
	s.entryTime = now
	s.endTime = nil
	s.report = nil
	s.status = model.SessionInProgress

	s.log.Info("assessment started", "sessionId", s.id, "tier", tier, "mode", mode, "questions", len(questions))
	s.persist(ctx)
	s.notifyQuestion()
	return nil
}

// ResumeExisting restores the stored snapshot for sessionID. It returns
// false when there is nothing to resume, including stale snapshots.
func (s *Session) ResumeExisting(ctx context.Context, sessionID string) (bool, error) {
	if s.status != model.SessionNotStarted {
		return false, &InvalidStateError{Op: "resume", Status: s.status}
	}
	if s.store == nil {
		return false, nil
	}
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	if err := s.Restore(snap); err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			s.log.Warn("discarding corrupt session snapshot", "sessionId", sessionID)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Restore replaces the session state with a snapshot taken within the
// restore window. A stale snapshot leaves the session untouched.
func (s *Session) Restore(snap *model.SessionSnapshot) error {
	if s.status != model.SessionNotStarted {
		return &InvalidStateError{Op: "restore", Status: s.status}
	}
	maxAge := DefaultSnapshotMaxAge
	if s.store != nil {
		maxAge = s.store.MaxAge()
	}
	if IsStale(snap, s.now(), maxAge) {
		return ErrStaleSnapshot
	}
	if snap.Status != model.SessionNotStarted && len(snap.Questions) == 0 {
		return ErrCorruptSnapshot
	}

	s.id = snap.SessionID
	s.assessmentType = snap.AssessmentType
	s.status = snap.Status
	s.tier = snap.Tier
	s.mode = snap.Mode
	s.questions = append([]model.Question(nil), snap.Questions...)
	s.responses = append([]model.Response(nil), snap.Responses...)
	s.byQuestion = make(map[string]int, len(s.responses))
	for i, r := range s.responses {
		s.byQuestion[r.QuestionID] = i
	}
	s.current = clampIndex(snap.CurrentIndex, len(s.questions))
	s.startTime = snap.StartTime
	s.endTime = snap.EndTime
	s.entryTime = snap.QuestionEntry
	if s.entryTime.IsZero() {
		s.entryTime = s.now().UTC()
	}
	s.device = snap.Device
	s.report = snap.Report

	s.log.Info("assessment restored", "sessionId", s.id, "status", s.status, "index", s.current)
	return nil
}

// Serialize captures the session state
func (s *Session) Serialize() *model.SessionSnapshot {
	return &model.SessionSnapshot{
		SessionID:      s.id,
		AssessmentType: s.assessmentType,
		Status:         s.status,
		Tier:           s.tier,
		Mode:           s.mode,
		Questions:      s.Questions(),
		CurrentIndex:   s.current,
		Responses:      s.Responses(),
		StartTime:      s.startTime,
		EndTime:        s.endTime,
		QuestionEntry:  s.entryTime,
		Device:         s.device,
		Report:         s.report,
		SavedAt:        s.now().UTC(),
	}
}

// RecordResponse validates v against the current question and upserts it.
// An invalid value returns a *ValidationError and changes nothing.
func (s *Session) RecordResponse(ctx context.Context, v model.Value) (*model.Response, error) {
	if s.status != model.SessionInProgress {
		return nil, &InvalidStateError{Op: "record response", Status: s.status}
	}
	q := &s.questions[s.current]
	if !Validate(q, v) {
		return nil, &ValidationError{QuestionID: q.ID, Type: q.Type}
	}

	resp := s.upsert(q, v, false, false)
	s.persist(ctx)
	s.notify(Notification{
		Kind:          ResponseRecorded,
		QuestionIndex: resp.QuestionIndex,
		QuestionID:    resp.QuestionID,
		Response:      &resp,
	})
	return &resp, nil
}

func (s *Session) upsert(q *model.Question, v model.Value, skipped, timedOut bool) model.Response {
	now := s.now().UTC()
	resp := model.Response{
		QuestionID:     q.ID,
		QuestionIndex:  s.current,
		QuestionType:   q.Type,
		Value:          v,
		ResponseTimeMS: now.Sub(s.entryTime).Milliseconds(),
		Timestamp:      now,
		Category:       q.Category,
		Facet:          q.Facet,
		Instrument:     q.Instrument,
		ReverseScored:  q.ReverseScored,
		Skipped:        skipped,
		TimedOut:       timedOut,
	}
	if i, ok := s.byQuestion[q.ID]; ok {
		s.responses[i] = resp
	} else {
		s.byQuestion[q.ID] = len(s.responses)
		s.responses = append(s.responses, resp)
	}
	return resp
}

// Advance moves to the next question. It returns false at the last question,
// which callers treat as a request to complete.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	if s.status != model.SessionInProgress {
		return false, &InvalidStateError{Op: "advance", Status: s.status}
	}
	if s.current >= len(s.questions)-1 {
		return false, nil
	}
	s.moveTo(ctx, s.current+1)
	return true, nil
}

// Retreat moves to the previous question. It returns false at the first.
func (s *Session) Retreat(ctx context.Context) (bool, error) {
	if s.status != model.SessionInProgress {
		return false, &InvalidStateError{Op: "retreat", Status: s.status}
	}
	if s.current == 0 {
		return false, nil
	}
	s.moveTo(ctx, s.current-1)
	return true, nil
}

// GoTo jumps to a question index
func (s *Session) GoTo(ctx context.Context, index int) error {
	if s.status != model.SessionInProgress {
		return &InvalidStateError{Op: "goto", Status: s.status}
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.questions))
	}
	s.moveTo(ctx, index)
	return nil
}

func (s *Session) moveTo(ctx context.Context, index int) {
	s.current = index
	s.entryTime = s.now().UTC()
	s.persist(ctx)
	s.notifyQuestion()
}

// Skip marks the current question as skipped and advances. An existing
// answer is kept.
func (s *Session) Skip(ctx context.Context) (bool, error) {
	if s.status != model.SessionInProgress {
		return false, &InvalidStateError{Op: "skip", Status: s.status}
	}
	q := &s.questions[s.current]
	if _, ok := s.byQuestion[q.ID]; !ok {
		resp := s.upsert(q, model.Value{}, true, false)
		s.notify(Notification{
			Kind:          ResponseRecorded,
			QuestionIndex: resp.QuestionIndex,
			QuestionID:    resp.QuestionID,
			Response:      &resp,
		})
	}
	advanced, err := s.Advance(ctx)
	if err == nil && !advanced {
		s.persist(ctx)
	}
	return advanced, err
}

// OnTimeExpired is invoked once the current question's time limit runs out.
// It records a timed-out skip and advances; when the question already has a
// response it does nothing and returns false.
func (s *Session) OnTimeExpired(ctx context.Context) (bool, error) {
	if s.status != model.SessionInProgress {
		return false, &InvalidStateError{Op: "time expired", Status: s.status}
	}
	q := &s.questions[s.current]
	if !q.HasTimeLimit() {
		return false, nil
	}
	if _, ok := s.byQuestion[q.ID]; ok {
		return false, nil
	}
	resp := s.upsert(q, model.Value{}, true, true)
	s.log.Debug("question timed out", "sessionId", s.id, "questionId", q.ID)
	s.notify(Notification{
		Kind:          ResponseRecorded,
		QuestionIndex: resp.QuestionIndex,
		QuestionID:    resp.QuestionID,
		Response:      &resp,
	})
	if advanced, err := s.Advance(ctx); err == nil && !advanced {
		s.persist(ctx)
	}
	return true, nil
}

// Answered counts responses that are not skips
func (s *Session) Answered() int {
	n := 0
	for i := range s.responses {
		if s.responses[i].IsAnswered() {
			n++
		}
	}
	return n
}

// Complete closes the session and builds the report. When fewer than the
// threshold share of questions were answered and force is false, it returns
// a warning and leaves the session in progress.
func (s *Session) Complete(ctx context.Context, force bool) (*CompletionResult, error) {
	if s.status != model.SessionInProgress {
		return nil, &InvalidStateError{Op: "complete", Status: s.status}
	}

	result := &CompletionResult{}
	answered, total := s.Answered(), len(s.questions)
	if float64(answered) < s.threshold*float64(total) {
		result.Warning = &LowCompletionWarning{
			Answered:  answered,
			Total:     total,
			Ratio:     float64(answered) / float64(total),
			Threshold: s.threshold,
		}
		if !force {
			s.log.Info("completion deferred", "sessionId", s.id, "warning", result.Warning.String())
			return result, nil
		}
	}

	var behavioral *model.BehavioralMetrics
	if s.behavioral != nil {
		m, err := s.behavioral.BehavioralMetrics(ctx, s.id)
		if err != nil {
			s.log.Warn("behavioral metrics unavailable", "sessionId", s.id, "error", err)
		} else {
			behavioral = m
		}
	}

	end := s.now().UTC()
	if end.Before(s.startTime) {
		end = s.startTime
	}

	tasks := scoring.ScoreTasks(s.responses)
	agg := scoring.AggregateTraits(scoring.AggregateInput{
		Responses:      s.responses,
		TotalQuestions: total,
		Tasks:          tasks,
		Behavioral:     behavioral,
	})
	rep := s.generator.Generate(report.Input{
		SessionID:     s.id,
		Tier:          s.tier,
		Mode:          s.mode,
		StartTime:     s.startTime,
		EndTime:       end,
		QuestionCount: total,
		AnsweredCount: answered,
		Confidence:    agg.Confidence,
		Traits:        agg.Traits,
		Tasks:         tasks,
		Behavioral:    behavioral,
	})

	s.status = model.SessionCompleted
	s.endTime = &end
	s.report = rep
	result.Completed = true
	result.Report = rep

	s.log.Info("assessment completed", "sessionId", s.id, "answered", answered, "total", total, "archetype", rep.Archetype.Name)
	s.persist(ctx)

	if s.submitter != nil {
		if err := s.submitter.Submit(ctx, s.id, s.Responses(), rep); err != nil {
			s.log.Warn("result submission failed", "sessionId", s.id, "error", err)
			result.SubmitErr = err
		}
	}

	s.notify(Notification{Kind: SessionCompleted, QuestionIndex: s.current, Report: rep})
	return result, nil
}

// Progress is a read-only summary of where the session stands
func (s *Session) Progress() model.Progress {
	total := len(s.questions)
	answered := s.Answered()
	p := model.Progress{TotalQuestions: total, Answered: answered}
	if total == 0 {
		return p
	}
	p.CurrentQuestion = s.current + 1
	p.PercentComplete = int(math.Round(float64(answered) / float64(total) * 100))

	if !s.startTime.IsZero() {
		end := s.now()
		if s.endTime != nil {
			end = *s.endTime
		}
		p.ElapsedMS = end.Sub(s.startTime).Milliseconds()
	}

	remaining := int64(total - answered)
	if remaining < 0 {
		remaining = 0
	}
	var sum int64
	for i := range s.responses {
		if s.responses[i].IsAnswered() {
			sum += s.responses[i].ResponseTimeMS
		}
	}
	if answered > 0 {
		p.EstimatedRemainingMS = sum / int64(answered) * remaining
	} else {
		p.EstimatedRemainingMS = FallbackQuestionMS * remaining
	}
	return p
}

// Reset discards the session and starts over as NotStarted under a new id.
// Only device metadata survives.
func (s *Session) Reset(ctx context.Context) error {
	old := s.id
	if s.store != nil {
		if err := s.store.Remove(ctx, old); err != nil {
			s.log.Warn("failed to remove snapshot on reset", "sessionId", old, "error", err)
		}
	}

	s.id = s.newID()
	s.status = model.SessionNotStarted
	s.tier = ""
	s.mode = ""
	s.questions = nil
	s.current = 0
	s.responses = nil
	s.byQuestion = map[string]int{}
	s.startTime = time.Time{}
	s.endTime = nil
	s.entryTime = time.Time{}
	s.report = nil

	s.log.Info("assessment reset", "previousSessionId", old, "sessionId", s.id)
	return nil
}

// Save writes the current snapshot to the store regardless of autosave
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.Serialize())
}

func (s *Session) persist(ctx context.Context) {
	if s.store == nil || !s.autosave {
		return
	}
	if err := s.store.Save(ctx, s.Serialize()); err != nil {
		s.log.Warn("autosave failed", "sessionId", s.id, "error", err)
	}
}

func (s *Session) notifyQuestion() {
	q := s.questions[s.current]
	p := s.Progress()
	s.notify(Notification{
		Kind:          QuestionChanged,
		QuestionIndex: s.current,
		QuestionID:    q.ID,
		Progress:      &p,
	})
}

func (s *Session) notify(n Notification) {
	if s.observer == nil {
		return
	}
	n.SessionID = s.id
	n.At = s.now().UTC()
	s.observer.Notify(n)
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
