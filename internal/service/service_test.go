package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"socialimpact/internal/cache"
	"socialimpact/internal/model"
	"socialimpact/internal/scoring"
)

func validProfile() model.UserProfile {
	return model.UserProfile{
		Age:                20,
		Gender:             model.GenderFemale,
		AcademicLevel:      model.AcademicUndergraduate,
		AvgDailyUsageHours: 4,
		MainPlatform:       model.PlatformInstagram,
		AddictionScore:     5,
		SleepHours:         7,
		AffectsAcademics:   false,
		ConflictCount:      1,
		RelationshipStatus: model.RelationshipSingle,
	}
}

type fixedRegressor struct {
	out []float64
	err error
}

func (r *fixedRegressor) Features() []string { return scoring.DefaultSchema() }

func (r *fixedRegressor) Predict([]float64) ([]float64, error) { return r.out, r.err }

type broadcastEvent struct {
	sessionID string
	msgType   string
	payload   interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastToSession(sessionID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{sessionID, msgType, payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.msgType)
	}
	return out
}

type recordingArchive struct {
	mu    sync.Mutex
	saved []*model.Assessment
	err   error
}

func (r *recordingArchive) Create(_ context.Context, a *model.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, a)
	return nil
}

func (r *recordingArchive) GetByID(context.Context, string) (*model.Assessment, error) {
	return nil, nil
}

func (r *recordingArchive) CountByBand(context.Context, string) (int64, error) { return 0, nil }

// stubGenerator answers by prompt prefix
type stubGenerator struct {
	mu      sync.Mutex
	answers map[string]string
	fail    map[string]error
	hook    func(prompt string)
	calls   int
}

func (g *stubGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.hook != nil {
		g.hook(req.Prompt)
	}
	for prefix, err := range g.fail {
		if strings.HasPrefix(req.Prompt, prefix) {
			return "", err
		}
	}
	for prefix, text := range g.answers {
		if strings.HasPrefix(req.Prompt, prefix) {
			if req.Validate != nil {
				if err := req.Validate(text); err != nil {
					return "", errors.Join(ErrEnrichmentUnavailable, err)
				}
			}
			return text, nil
		}
	}
	return "", ErrEnrichmentUnavailable
}

func defaultAnswers() map[string]string {
	return map[string]string{
		"Analyze:":    "```json\n{\"persona\":\"Night Scroller\",\"analysis\":\"You scroll late. It shows.\",\"tips\":[\"Charge phone outside bedroom\",\"Mute reels\"]}\n```",
		"Letter from": "Dear 2026 me, put the phone down sometimes.",
		"3-day detox": `{"days":[{"day":1,"theme":"Notice","tasks":["Track usage"]},{"day":"2","theme":"Cut","tasks":["Delete app"]},{"day":"3","theme":"Replace","tasks":[]}]}`,
	}
}

func newSessions() *SessionService {
	return NewSessionService(cache.NewMemorySessionCache(time.Hour))
}
