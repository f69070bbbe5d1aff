// Package core coordinates the parse pipeline: shorthand first, AI fallback,
// confidence scoring, and the review session that closes the learning loop.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cutplan/constants"
	"cutplan/internal/accuracy"
	"cutplan/internal/async"
	"cutplan/internal/common"
	"cutplan/internal/confidence"
	"cutplan/internal/entity"
	"cutplan/internal/llm"
	"cutplan/internal/shorthand"
)

// DocumentRequest is one cutlist document to parse, plus the extraction
// context the session will be measured under.
type DocumentRequest struct {
	Text         string
	FilenameHint string
	FolderHint   string

	Provider        string
	Difficulty      constants.Difficulty
	FewShotExamples []llm.FewShotExample
	PatternsApplied int
	Client          llm.ClientContext
}

// PartResult pairs a parsed part with its confidence report.
type PartResult struct {
	Part       entity.CutPart          `json:"part"`
	Confidence entity.ConfidenceReport `json:"confidence"`
}

// ParseOutcome is what one document parse produces: the parts, their trust
// estimates, and an open review session the caller must finalize or discard.
type ParseOutcome struct {
	SessionID   uuid.UUID    `json:"session_id"`
	Parts       []PartResult `json:"parts"`
	NeedsReview bool         `json:"needs_review"`
}

// Processor runs documents through shorthand parse with AI fallback and owns
// the review sessions that turn corrections into accuracy samples.
type Processor struct {
	logger        *slog.Logger
	parserCfg     shorthand.Config
	estimator     *confidence.Estimator
	extractor     llm.PartExtractor
	tracker       *accuracy.Tracker
	queue         async.Queue
	schema        map[string]any
	minConfidence float64
}

func NewProcessor(
	logger *slog.Logger,
	cfg common.ParserConfig,
	extractor llm.PartExtractor,
	tracker *accuracy.Tracker,
	queue async.Queue,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = accuracy.NewTracker(nil, logger)
	}
	return &Processor{
		logger: logger,
		parserCfg: shorthand.Config{
			MaterialID:  cfg.MaterialID,
			ThicknessMM: cfg.ThicknessMM,
			EdgebandID:  cfg.EdgebandID,
			Capabilities: shorthand.Capabilities{
				Edging:   cfg.Edging,
				Grooving: cfg.Grooving,
				Holes:    cfg.Holes,
				CNC:      cfg.CNC,
			},
		},
		estimator:     confidence.NewEstimator(cfg.MaterialID),
		extractor:     extractor,
		tracker:       tracker,
		queue:         queue,
		schema:        llm.BuildCutlistJSONSchema(),
		minConfidence: constants.ReviewConfidenceThreshold,
	}
}

// ParseDocument parses each line as shorthand and hands the lines that do not
// satisfy the grammar to the AI extractor in one batch. Every part gets a
// confidence report; a session is opened so the caller's corrections can be
// scored later.
func (p *Processor) ParseDocument(ctx context.Context, req DocumentRequest) (*ParseOutcome, error) {
	var (
		results  []PartResult
		unparsed []string
	)

	for _, line := range strings.Split(req.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		part := shorthand.Parse(line, p.parserCfg)
		if part == nil {
			unparsed = append(unparsed, line)
			continue
		}
		results = append(results, PartResult{
			Part:       *part,
			Confidence: p.estimator.Estimate(part, line),
		})
	}

	if len(unparsed) > 0 && p.extractor != nil {
		aiResults, err := p.runExtractor(ctx, req, unparsed)
		if err != nil {
			p.logger.Error("processor.extract.failed", "lines", len(unparsed), "err", err)
			if len(results) == 0 {
				return nil, err
			}
		}
		results = append(results, aiResults...)
	}

	if len(results) == 0 {
		return nil, common.NewAppError("PARSE_EMPTY", "no parts could be parsed from document", common.ErrInvalidInput)
	}

	session := p.tracker.Start(accuracy.SessionMeta{
		Provider:           req.Provider,
		Difficulty:         req.Difficulty,
		FewShotExamples:    len(req.FewShotExamples),
		PatternsApplied:    req.PatternsApplied,
		ClientTemplateUsed: req.Client.TemplateID != "",
	})

	parts := make([]entity.CutPart, len(results))
	for i := range results {
		parts[i] = results[i].Part
	}
	if err := session.RecordOriginal(parts); err != nil {
		return nil, err
	}

	outcome := &ParseOutcome{
		SessionID: session.ID(),
		Parts:     results,
	}
	for i := range results {
		if results[i].Confidence.Overall() < p.minConfidence {
			outcome.NeedsReview = true
			break
		}
	}

	p.logger.Info("processor.parse.ok",
		"session_id", outcome.SessionID,
		"parts", len(results),
		"shorthand_lines", len(results)-countAISourced(results),
		"ai_lines", len(unparsed),
		"needs_review", outcome.NeedsReview,
	)
	return outcome, nil
}

// runExtractor sends the unparsed lines to the AI provider and scores what
// comes back. The raw JSON is re-validated against the schema; a provider
// that bypassed validation gets its output flagged, not trusted.
func (p *Processor) runExtractor(ctx context.Context, req DocumentRequest, lines []string) ([]PartResult, error) {
	text := strings.Join(lines, "\n")
	parts, raw, err := p.extractor.ExtractParts(ctx, llm.ExtractRequest{
		RawText:         text,
		FilenameHint:    req.FilenameHint,
		FolderHint:      req.FolderHint,
		DefaultMaterial: p.parserCfg.MaterialID,
		DefaultThickMM:  p.parserCfg.ThicknessMM,
		Provider:        req.Provider,
		FewShotExamples: req.FewShotExamples,
		PatternsApplied: req.PatternsApplied,
		Client:          req.Client,
		Difficulty:      req.Difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("extract parts: %w", err)
	}

	if len(raw) > 0 {
		if verr := llm.ValidateJSONAgainstSchema(p.schema, raw); verr != nil {
			p.logger.Warn("extractor output failed schema validation", "err", verr)
		}
	}

	results := make([]PartResult, 0, len(parts))
	for i := range parts {
		results = append(results, PartResult{
			Part:       parts[i],
			Confidence: p.estimator.Estimate(&parts[i], text),
		})
	}
	return results, nil
}

// CompleteReview records the human-corrected parts (nil means "original
// accepted as-is"), finalizes the session, and queues the resulting sample
// for persistence. The sample is returned either way; persistence failures
// never fail the review.
func (p *Processor) CompleteReview(ctx context.Context, sessionID uuid.UUID, corrected []entity.CutPart) (*entity.AccuracySample, error) {
	if corrected != nil {
		if err := validateParts(corrected); err != nil {
			return nil, err
		}
		session, err := p.tracker.Get(sessionID)
		if err != nil {
			return nil, err
		}
		if err := session.RecordCorrected(corrected); err != nil {
			return nil, err
		}
	}

	sample, err := p.tracker.Finalize(sessionID)
	if err != nil {
		return nil, err
	}

	if p.queue != nil {
		_ = p.queue.Enqueue(ctx, async.Job{SessionID: sessionID, Sample: sample, SubmittedAt: time.Now().UTC()})
	}
	return sample, nil
}

// DiscardReview abandons a session without producing a sample.
func (p *Processor) DiscardReview(sessionID uuid.UUID) error {
	return p.tracker.Discard(sessionID)
}

// validateParts rejects corrections no saw or CNC station could execute.
// Corrections become ground truth for accuracy scoring, so a broken part here
// would poison every sample derived from it.
func validateParts(parts []entity.CutPart) error {
	v := common.NewValidator()
	for i := range parts {
		p := &parts[i]
		prefix := fmt.Sprintf("parts[%d].", i)
		v.Field(prefix+"part_id", p.PartID, common.Required, common.UUID)
		v.Field(prefix+"size.l", p.Size.L, common.PositiveMM)
		v.Field(prefix+"size.w", p.Size.W, common.PositiveMM)
		v.Field(prefix+"thickness_mm", p.ThicknessMM, common.PositiveMM)
		v.Field(prefix+"qty", p.Qty, common.MinQuantity)
		v.Field(prefix+"material_id", p.MaterialID, common.Required)
		v.Field(prefix+"grain", p.Grain, common.GrainEnum)
	}
	return v.Error()
}

func countAISourced(results []PartResult) int {
	n := 0
	for i := range results {
		if results[i].Part.Audit.SourceMethod == constants.SourceAI {
			n++
		}
	}
	return n
}
