package model

import (
	"fmt"
	"time"
)

// ScoreBandThreshold splits the at-risk band from the healthy band
const ScoreBandThreshold = 5.0

const (
	BandAtRisk  = "at_risk"
	BandHealthy = "healthy"
)

// Band classifies a wellness score for display
func Band(score float64) string {
	if score < ScoreBandThreshold {
		return BandAtRisk
	}
	return BandHealthy
}

// DisplayScore renders a score the way the result card shows it
func DisplayScore(score float64) string {
	return fmt.Sprintf("%.2f / 10", score)
}

// Session is the per-browser state between submissions
type Session struct {
	ID          string                              `json:"id"`
	Revision    int                                 `json:"revision"` // bumped on every submission
	Profile     *UserProfile                        `json:"profile,omitempty"`
	Summary     *ProfileSummary                     `json:"summary,omitempty"`
	Score       *float64                            `json:"score,omitempty"`
	Enrichments map[EnrichmentKind]*EnrichmentPanel `json:"enrichments,omitempty"`
	CreatedAt   time.Time                           `json:"createdAt"`
	UpdatedAt   time.Time                           `json:"updatedAt"`
}

// NewSession creates an empty session
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		Enrichments: make(map[EnrichmentKind]*EnrichmentPanel),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordScore replaces profile, summary and score wholesale and drops panels of the previous round
func (s *Session) RecordScore(profile UserProfile, score float64) {
	summary := profile.Summary(score)
	s.Revision++
	s.Profile = &profile
	s.Summary = &summary
	s.Score = &score
	s.Enrichments = make(map[EnrichmentKind]*EnrichmentPanel)
}

// ClearScore removes a score that can no longer be trusted
func (s *Session) ClearScore() {
	s.Revision++
	s.Profile = nil
	s.Summary = nil
	s.Score = nil
	s.Enrichments = make(map[EnrichmentKind]*EnrichmentPanel)
}

// SetPanel attaches a panel unless the session moved on to another submission
func (s *Session) SetPanel(revision int, panel *EnrichmentPanel) bool {
	if revision != s.Revision || s.Score == nil {
		return false
	}
	if s.Enrichments == nil {
		s.Enrichments = make(map[EnrichmentKind]*EnrichmentPanel)
	}
	s.Enrichments[panel.Kind] = panel
	return true
}

// SessionView is what the form surface reads back
type SessionView struct {
	SessionID   string                              `json:"sessionId"`
	Score       *float64                            `json:"score"`
	Display     string                              `json:"display,omitempty"`
	Band        string                              `json:"band,omitempty"`
	Summary     *ProfileSummary                     `json:"summary,omitempty"`
	Enrichments map[EnrichmentKind]*EnrichmentPanel `json:"enrichments"`
}

// View builds the read model of a session
func (s *Session) View() SessionView {
	v := SessionView{
		SessionID:   s.ID,
		Score:       s.Score,
		Summary:     s.Summary,
		Enrichments: s.Enrichments,
	}
	if v.Enrichments == nil {
		v.Enrichments = map[EnrichmentKind]*EnrichmentPanel{}
	}
	if s.Score != nil {
		v.Display = DisplayScore(*s.Score)
		v.Band = Band(*s.Score)
	}
	return v
}
