package model

import "time"

// EnrichmentKind names one generated-text panel
type EnrichmentKind string

const (
	EnrichmentAnalysis EnrichmentKind = "analysis"
	EnrichmentFuture   EnrichmentKind = "future"
	EnrichmentDetox    EnrichmentKind = "detox"
)

// EnrichmentKinds in display order
var EnrichmentKinds = []EnrichmentKind{EnrichmentAnalysis, EnrichmentFuture, EnrichmentDetox}

// Valid reports whether k is a known panel
func (k EnrichmentKind) Valid() bool {
	return contains(EnrichmentKinds, k)
}

// Title is the panel heading
func (k EnrichmentKind) Title() string {
	switch k {
	case EnrichmentAnalysis:
		return "Analysis"
	case EnrichmentFuture:
		return "Time Travel"
	case EnrichmentDetox:
		return "Detox"
	}
	return string(k)
}

// PersonaAnalysis is the "analysis" panel payload
type PersonaAnalysis struct {
	Persona  string   `json:"persona"`
	Analysis string   `json:"analysis"`
	Tips     []string `json:"tips"`
}

// DetoxDay is one day of a detox plan
type DetoxDay struct {
	Day   string   `json:"day"`
	Theme string   `json:"theme"`
	Tasks []string `json:"tasks"`
}

// DetoxPlan is the "detox" panel payload
type DetoxPlan struct {
	Days []DetoxDay `json:"days"`
}

// EnrichmentPanel holds exactly one of Analysis, Letter or Detox depending on Kind
type EnrichmentPanel struct {
	ID          string           `json:"id"`
	Kind        EnrichmentKind   `json:"kind"`
	Title       string           `json:"title"`
	Analysis    *PersonaAnalysis `json:"analysis,omitempty"`
	Letter      string           `json:"letter,omitempty"`
	Detox       *DetoxPlan       `json:"detox,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// EnrichmentFailure is reported per panel when generation gives up
type EnrichmentFailure struct {
	Kind    EnrichmentKind `json:"kind"`
	Message string         `json:"message"`
}
