package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"socialimpact/internal/logger"
	"socialimpact/internal/model"
)

var (
	ErrUnknownEnrichment = errors.New("unknown enrichment kind")
	ErrNoScore           = errors.New("no wellness score for this session yet")
	ErrSessionChanged    = errors.New("session was re-scored while the panel was generated")
)

// EnrichmentResult collects the outcome of GenerateAll
type EnrichmentResult struct {
	Panels   []*model.EnrichmentPanel  `json:"panels"`
	Failures []model.EnrichmentFailure `json:"failures"`
}

// EnrichmentService produces the generated-text panels shown next to a score
type EnrichmentService struct {
	sessions    *SessionService
	generator   TextGenerator
	broadcaster Broadcaster
	log         *logger.Logger
}

func NewEnrichmentService(sessions *SessionService, generator TextGenerator, log *logger.Logger) *EnrichmentService {
	if log == nil {
		log = logger.Nop()
	}
	return &EnrichmentService{
		sessions:    sessions,
		generator:   generator,
		broadcaster: nopBroadcaster{},
		log:         log.With("component", "enrichment"),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *EnrichmentService) SetBroadcaster(b Broadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

// Generate produces one panel for the session's current score and stores it
func (s *EnrichmentService) Generate(ctx context.Context, sessionID string, kind model.EnrichmentKind) (*model.EnrichmentPanel, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnrichment, kind)
	}
	session, err := s.scoredSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, session.ID, session.Revision, *session.Summary, kind)
}

// GenerateAll produces every panel concurrently. One panel failing does not
// stop the others; failures are reported per kind.
func (s *EnrichmentService) GenerateAll(ctx context.Context, sessionID string) (*EnrichmentResult, error) {
	session, err := s.scoredSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	panels := make([]*model.EnrichmentPanel, len(model.EnrichmentKinds))
	errs := make([]error, len(model.EnrichmentKinds))

	var g errgroup.Group
	for i, kind := range model.EnrichmentKinds {
		i, kind := i, kind
		g.Go(func() error {
			panels[i], errs[i] = s.generate(ctx, session.ID, session.Revision, *session.Summary, kind)
			return nil
		})
	}
	_ = g.Wait()

	result := &EnrichmentResult{
		Panels:   []*model.EnrichmentPanel{},
		Failures: []model.EnrichmentFailure{},
	}
	for i, kind := range model.EnrichmentKinds {
		if errs[i] != nil {
			result.Failures = append(result.Failures, failureFor(kind, errs[i]))
			continue
		}
		result.Panels = append(result.Panels, panels[i])
	}
	return result, nil
}

func (s *EnrichmentService) scoredSession(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Score == nil || session.Summary == nil {
		return nil, ErrNoScore
	}
	return session, nil
}

func (s *EnrichmentService) generate(ctx context.Context, sessionID string, revision int, summary model.ProfileSummary, kind model.EnrichmentKind) (*model.EnrichmentPanel, error) {
	req, err := BuildEnrichmentRequest(kind, summary)
	if err != nil {
		return nil, err
	}

	var panel *model.EnrichmentPanel
	req.Validate = func(text string) error {
		p, perr := ParseEnrichment(kind, text)
		if perr != nil {
			return perr
		}
		panel = p
		return nil
	}

	text, err := s.generator.Generate(ctx, req)
	if err == nil && panel == nil {
		panel, err = ParseEnrichment(kind, text)
	}
	if err != nil {
		s.log.Warn("enrichment failed", "session_id", sessionID, "kind", kind, "error", err)
		s.broadcaster.BroadcastToSession(sessionID, MsgEnrichmentFailed, failureFor(kind, err))
		return nil, err
	}
	panel.ID = uuid.New().String()
	panel.GeneratedAt = time.Now()

	_, err = s.sessions.Update(ctx, sessionID, false, func(sess *model.Session) error {
		if !sess.SetPanel(revision, panel) {
			return ErrSessionChanged
		}
		return nil
	})
	if err != nil {
		s.log.Info("discarding panel", "session_id", sessionID, "kind", kind, "error", err)
		return nil, err
	}

	s.broadcaster.BroadcastToSession(sessionID, MsgEnrichmentReady, panel)
	return panel, nil
}

func failureFor(kind model.EnrichmentKind, err error) model.EnrichmentFailure {
	msg := kind.Title() + " could not be generated"
	switch {
	case errors.Is(err, ErrEnrichmentUnavailable):
		msg = kind.Title() + " is unavailable right now, try again later"
	case errors.Is(err, ErrSessionChanged):
		msg = kind.Title() + " was discarded because the score changed"
	}
	return model.EnrichmentFailure{Kind: kind, Message: msg}
}

// BuildEnrichmentRequest returns the prompt for kind, filled with summary
func BuildEnrichmentRequest(kind model.EnrichmentKind, summary model.ProfileSummary) (GenerateRequest, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return GenerateRequest{}, err
	}

	switch kind {
	case model.EnrichmentAnalysis:
		return GenerateRequest{
			Prompt: fmt.Sprintf(`Analyze: %s. Return JSON: {"persona": "archetype", "analysis": "2 sentences", "tips": ["tip1", "tip2"]}`, data),
			JSON:   true,
		}, nil
	case model.EnrichmentFuture:
		return GenerateRequest{
			Prompt: fmt.Sprintf("Letter from 2029 future self based on: %s. Max 100 words.", data),
		}, nil
	case model.EnrichmentDetox:
		return GenerateRequest{
			Prompt: fmt.Sprintf(`3-day detox plan for %s user. Return JSON: {"days": [{"day": "1", "theme": "...", "tasks": []}]}`, summary.Platform),
			JSON:   true,
		}, nil
	}
	return GenerateRequest{}, fmt.Errorf("%w: %q", ErrUnknownEnrichment, kind)
}

// ParseEnrichment turns generated text into a panel, rejecting payloads that
// do not match the prompt's shape
func ParseEnrichment(kind model.EnrichmentKind, text string) (*model.EnrichmentPanel, error) {
	panel := &model.EnrichmentPanel{Kind: kind, Title: kind.Title()}

	switch kind {
	case model.EnrichmentAnalysis:
		var a model.PersonaAnalysis
		if err := json.Unmarshal([]byte(StripCodeFence(text)), &a); err != nil {
			return nil, fmt.Errorf("analysis payload: %w", err)
		}
		if a.Persona == "" && a.Analysis == "" {
			return nil, errors.New("analysis payload: no persona or analysis")
		}
		panel.Analysis = &a

	case model.EnrichmentFuture:
		letter := strings.TrimSpace(text)
		if letter == "" {
			return nil, errors.New("future letter is empty")
		}
		panel.Letter = letter

	case model.EnrichmentDetox:
		plan, err := parseDetox(StripCodeFence(text))
		if err != nil {
			return nil, err
		}
		panel.Detox = plan

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnrichment, kind)
	}
	return panel, nil
}

// parseDetox accepts the day label as a string or a number
func parseDetox(text string) (*model.DetoxPlan, error) {
	var raw struct {
		Days []struct {
			Day   json.RawMessage `json:"day"`
			Theme string          `json:"theme"`
			Tasks []string        `json:"tasks"`
		} `json:"days"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("detox payload: %w", err)
	}
	if len(raw.Days) == 0 {
		return nil, errors.New("detox payload: no days")
	}

	plan := &model.DetoxPlan{Days: make([]model.DetoxDay, 0, len(raw.Days))}
	for i, d := range raw.Days {
		label := strings.Trim(strings.TrimSpace(string(d.Day)), `"`)
		if label == "" || label == "null" {
			label = fmt.Sprintf("%d", i+1)
		}
		tasks := d.Tasks
		if tasks == nil {
			tasks = []string{}
		}
		plan.Days = append(plan.Days, model.DetoxDay{Day: label, Theme: d.Theme, Tasks: tasks})
	}
	return plan, nil
}
