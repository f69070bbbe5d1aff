// Package accuracy tracks how well extraction performed on real documents.
// A session follows one document through parse and human review and yields
// exactly one accuracy sample on finalize; the aggregator rolls samples up
// into trends and diagnostics for the learning loop.
package accuracy

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cutplan/constants"
	"cutplan/internal/common"
	"cutplan/internal/entity"
	"cutplan/internal/match"
)

// SessionMeta describes the extraction context a session measures.
type SessionMeta struct {
	Provider           string
	Difficulty         constants.Difficulty
	FewShotExamples    int
	PatternsApplied    int
	ClientTemplateUsed bool
}

// Session is the bounded lifecycle of one document's parse-then-correct
// journey: started → original recorded → (optional) corrected recorded →
// finalized | discarded. A session is owned by exactly one caller and must
// not be shared across goroutines.
type Session struct {
	id        uuid.UUID
	meta      SessionMeta
	status    constants.SessionStatus
	original  []entity.CutPart
	corrected []entity.CutPart
	startedAt time.Time
	matcher   *match.Matcher
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() constants.SessionStatus { return s.status }

// RecordOriginal stores the parts as extracted, before any human touched
// them. It may be called exactly once.
func (s *Session) RecordOriginal(parts []entity.CutPart) error {
	if s.closed() {
		return common.NewAppError("SESSION_CLOSED", "cannot record parts", common.ErrSessionClosed)
	}
	if s.status != constants.SessionStarted {
		return common.NewAppError("SESSION_PROTOCOL", "original parts already recorded", common.ErrInvalidInput)
	}
	s.original = clonePartList(parts)
	s.status = constants.SessionOriginal
	return nil
}

// RecordCorrected stores the parts after human review. It may be called
// exactly once, after RecordOriginal.
func (s *Session) RecordCorrected(parts []entity.CutPart) error {
	if s.closed() {
		return common.NewAppError("SESSION_CLOSED", "cannot record parts", common.ErrSessionClosed)
	}
	if s.status != constants.SessionOriginal {
		return common.NewAppError("SESSION_PROTOCOL", "corrected parts require recorded originals", common.ErrSessionIncomplete)
	}
	s.corrected = clonePartList(parts)
	s.status = constants.SessionCorrected
	return nil
}

// Finalize scores the original extraction against the corrected parts
// (corrections are the ground truth) and produces the session's single
// accuracy sample. A session with no corrections recorded treats the
// original as accepted verbatim. Finalizing twice, or before originals were
// recorded, is a caller error.
func (s *Session) Finalize() (*entity.AccuracySample, error) {
	if s.closed() {
		return nil, common.NewAppError("SESSION_CLOSED", "cannot finalize", common.ErrSessionClosed)
	}
	if s.status == constants.SessionStarted {
		return nil, common.NewAppError("SESSION_PROTOCOL", "finalize requires recorded original parts", common.ErrSessionIncomplete)
	}

	truth := s.corrected
	if s.status == constants.SessionOriginal {
		truth = s.original
	}

	result := s.matcher.Match(s.original, truth)
	metrics := match.ComputeMetrics(result, len(truth))
	s.status = constants.SessionFinalized

	sample := &entity.AccuracySample{
		ID:                  uuid.New(),
		TotalParts:          metrics.TotalParts,
		CorrectParts:        metrics.CorrectParts,
		Accuracy:            metrics.Accuracy,
		DimensionAccuracy:   metrics.Fields[constants.FieldDimensions].Value(),
		MaterialAccuracy:    metrics.Fields[constants.FieldMaterial].Value(),
		EdgingAccuracy:      metrics.Fields[constants.FieldEdging].Value(),
		GroovingAccuracy:    metrics.Fields[constants.FieldGrooving].Value(),
		QuantityAccuracy:    metrics.Fields[constants.FieldQuantity].Value(),
		LabelAccuracy:       metrics.Fields[constants.FieldLabel].Value(),
		FewShotExamplesUsed: s.meta.FewShotExamples,
		PatternsApplied:     s.meta.PatternsApplied,
		ClientTemplateUsed:  s.meta.ClientTemplateUsed,
		Provider:            s.meta.Provider,
		DocumentDifficulty:  s.meta.Difficulty,
		CreatedAt:           time.Now().UTC(),
	}
	return sample, nil
}

// Discard abandons the session without producing a sample. Corrections on a
// session the user walked away from must not pollute accuracy statistics.
func (s *Session) Discard() error {
	if s.closed() {
		return common.NewAppError("SESSION_CLOSED", "cannot discard", common.ErrSessionClosed)
	}
	s.status = constants.SessionDiscarded
	return nil
}

func (s *Session) closed() bool {
	return s.status == constants.SessionFinalized || s.status == constants.SessionDiscarded
}

// Tracker owns the live sessions of one orchestrating component. It is the
// only stateful piece of the engine; everything else is pure.
type Tracker struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	matcher  *match.Matcher
	logger   *slog.Logger
}

// NewTracker creates a tracker that scores sessions with the given matcher.
func NewTracker(matcher *match.Matcher, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if matcher == nil {
		matcher = match.New(match.DefaultConfig())
	}
	return &Tracker{
		sessions: make(map[uuid.UUID]*Session),
		matcher:  matcher,
		logger:   logger,
	}
}

// Start opens a new session and returns it.
func (t *Tracker) Start(meta SessionMeta) *Session {
	s := &Session{
		id:        uuid.New(),
		meta:      meta,
		status:    constants.SessionStarted,
		startedAt: time.Now().UTC(),
		matcher:   t.matcher,
	}
	t.mu.Lock()
	t.sessions[s.id] = s
	t.mu.Unlock()

	t.logger.Debug("accuracy.session.started", "session_id", s.id, "provider", meta.Provider)
	return s
}

// Get looks up a live session by id.
func (t *Tracker) Get(id uuid.UUID) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return nil, common.NewAppError("SESSION_NOT_FOUND", id.String(), common.ErrSessionNotFound)
	}
	return s, nil
}

// Finalize finalizes the session and removes it from the tracker.
func (t *Tracker) Finalize(id uuid.UUID) (*entity.AccuracySample, error) {
	s, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	sample, err := s.Finalize()
	if err != nil {
		return nil, err
	}
	t.remove(id)
	t.logger.Info("accuracy.session.finalized",
		"session_id", id,
		"accuracy", sample.Accuracy,
		"total_parts", sample.TotalParts,
		"provider", sample.Provider,
	)
	return sample, nil
}

// Discard abandons the session and removes it from the tracker.
func (t *Tracker) Discard(id uuid.UUID) error {
	s, err := t.Get(id)
	if err != nil {
		return err
	}
	if err := s.Discard(); err != nil {
		return err
	}
	t.remove(id)
	t.logger.Debug("accuracy.session.discarded", "session_id", id)
	return nil
}

func (t *Tracker) remove(id uuid.UUID) {
	t.mu.Lock()
	delete(t.sessions, id)
	t.mu.Unlock()
}

// clonePartList deep-copies the snapshot. Ops is a pointer; reviewers correct
// parts in place, and a shared Ops block would let the correction rewrite the
// recorded original.
func clonePartList(parts []entity.CutPart) []entity.CutPart {
	out := make([]entity.CutPart, len(parts))
	for i := range parts {
		out[i] = parts[i]
		out[i].Ops = cloneOps(parts[i].Ops)
	}
	return out
}

func cloneOps(ops *entity.PartOps) *entity.PartOps {
	if ops == nil {
		return nil
	}
	clone := &entity.PartOps{
		Grooves:      append([]entity.Groove(nil), ops.Grooves...),
		Holes:        append([]entity.HolePattern(nil), ops.Holes...),
		CustomCNCOps: append([]entity.CNCOp(nil), ops.CustomCNCOps...),
	}
	if ops.Edging != nil {
		clone.Edging = make(map[constants.EdgeID]entity.EdgeBanding, len(ops.Edging))
		for edge, banding := range ops.Edging {
			clone.Edging[edge] = banding
		}
	}
	return clone
}
