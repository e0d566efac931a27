package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"socialimpact/internal/logger"
	"socialimpact/internal/model"
	"socialimpact/internal/repository"
	"socialimpact/internal/scoring"
)

// AssessmentService runs one encode→predict round per submission and keeps
// the session in step with the outcome
type AssessmentService struct {
	predictor   *scoring.Predictor
	sessions    *SessionService
	archive     repository.AssessmentRepo
	broadcaster Broadcaster
	modelPath   string
	log         *logger.Logger
}

func NewAssessmentService(
	predictor *scoring.Predictor,
	sessions *SessionService,
	archive repository.AssessmentRepo,
	modelPath string,
	log *logger.Logger,
) *AssessmentService {
	if archive == nil {
		archive = repository.NewNopAssessmentRepo()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AssessmentService{
		predictor:   predictor,
		sessions:    sessions,
		archive:     archive,
		broadcaster: nopBroadcaster{},
		modelPath:   modelPath,
		log:         log.With("component", "assessment"),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	if b != nil {
		s.broadcaster = b
	}
}

// Submit scores profile for the session. A model that cannot be loaded
// leaves the session untouched; a failed inference clears its score.
func (s *AssessmentService) Submit(ctx context.Context, sessionID string, profile model.UserProfile) (*model.Assessment, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	score, vec, err := s.predictor.Score(profile)

	var loadErr *scoring.ModelLoadError
	if errors.As(err, &loadErr) {
		s.log.Error("scoring disabled", "session_id", sessionID, "error", err)
		return nil, err
	}

	var infErr *scoring.InferenceError
	if errors.As(err, &infErr) {
		s.log.Error("inference failed", "session_id", sessionID, "error", err)
		_, uerr := s.sessions.Update(ctx, sessionID, false, func(sess *model.Session) error {
			sess.ClearScore()
			return nil
		})
		switch {
		case errors.Is(uerr, ErrSessionNotFound):
			// nothing stored yet, nothing to clear
		case uerr != nil:
			s.log.Warn("failed to clear session score", "session_id", sessionID, "error", uerr)
		default:
			s.broadcaster.BroadcastToSession(sessionID, MsgScoreCleared, map[string]interface{}{
				"sessionId": sessionID,
				"error":     err.Error(),
			})
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Update(ctx, sessionID, true, func(sess *model.Session) error {
		sess.RecordScore(profile, score)
		return nil
	})
	if err != nil {
		return nil, err
	}

	assessment := &model.Assessment{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Score:     score,
		Display:   model.DisplayScore(score),
		Band:      model.Band(score),
		Summary:   *session.Summary,
		Features:  vec.Map(),
		ModelPath: s.modelPath,
		CreatedAt: time.Now(),
	}

	if err := s.archive.Create(ctx, assessment); err != nil {
		s.log.Warn("failed to archive assessment", "assessment_id", assessment.ID, "error", err)
	}

	s.log.Info("profile scored",
		"session_id", sessionID,
		"score", score,
		"band", assessment.Band,
		"revision", session.Revision,
	)
	s.broadcaster.BroadcastToSession(sessionID, MsgScoreUpdated, session.View())

	return assessment, nil
}
