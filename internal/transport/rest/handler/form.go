package handler

import (
	"net/http"

	"socialimpact/internal/model"
	"socialimpact/internal/scoring"
)

// Option is one choice of a select field
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one input of the assessment form
type Field struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Section string      `json:"section"`
	Type    string      `json:"type"` // number, slider, select, bool
	Min     *float64    `json:"min,omitempty"`
	Max     *float64    `json:"max,omitempty"`
	Step    float64     `json:"step,omitempty"`
	Default interface{} `json:"default"`
	Options []Option    `json:"options,omitempty"`
}

// FormResponse is what the form surface renders from
type FormResponse struct {
	Fields         []Field                `json:"fields"`
	Schema         []string               `json:"schema"`
	Enrichments    []EnrichmentDescriptor `json:"enrichments"`
	ScoreThreshold float64                `json:"scoreThreshold"`
}

// EnrichmentDescriptor names one AI panel button
type EnrichmentDescriptor struct {
	Kind  model.EnrichmentKind `json:"kind"`
	Title string               `json:"title"`
}

// FormHandler serves the form definition
type FormHandler struct {
	form FormResponse
}

// NewFormHandler builds the form once; it never changes at runtime
func NewFormHandler() *FormHandler {
	return &FormHandler{form: buildForm()}
}

// Get handles GET /v1/form
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.form)
}

func buildForm() FormResponse {
	platforms := make([]Option, 0, len(model.Platforms))
	for _, p := range model.Platforms {
		platforms = append(platforms, Option{Value: string(p), Label: string(p)})
	}

	enrichments := make([]EnrichmentDescriptor, 0, len(model.EnrichmentKinds))
	for _, k := range model.EnrichmentKinds {
		enrichments = append(enrichments, EnrichmentDescriptor{Kind: k, Title: k.Title()})
	}

	return FormResponse{
		Fields: []Field{
			{Name: "age", Label: "Age", Section: "profile", Type: "number",
				Min: bound(model.MinAge), Max: bound(model.MaxAge), Step: 1, Default: 20},
			{Name: "gender", Label: "Gender", Section: "profile", Type: "select", Default: model.GenderMale,
				Options: []Option{{"Male", "Male"}, {"Female", "Female"}}},
			{Name: "academicLevel", Label: "Academic Level", Section: "profile", Type: "select", Default: model.AcademicHighSchool,
				Options: []Option{{"HighSchool", "High School"}, {"Undergraduate", "Undergraduate"}, {"Graduate", "Graduate"}}},
			{Name: "avgDailyUsageHours", Label: "Daily Hours", Section: "usage", Type: "number",
				Min: bound(model.MinHours), Max: bound(model.MaxHours), Step: 0.5, Default: 4.0},
			{Name: "mainPlatform", Label: "Main Platform", Section: "usage", Type: "select", Default: model.PlatformTikTok,
				Options: platforms},
			{Name: "addictionScore", Label: "Addiction Score", Section: "usage", Type: "slider",
				Min: bound(model.MinAddictionScore), Max: bound(model.MaxAddictionScore), Step: 1, Default: 5},
			{Name: "sleepHours", Label: "Sleep Hours", Section: "health", Type: "number",
				Min: bound(model.MinHours), Max: bound(model.MaxHours), Step: 0.5, Default: 7.0},
			{Name: "affectsAcademics", Label: "Impacts Academics?", Section: "health", Type: "bool", Default: false},
			{Name: "conflictCount", Label: "Social Media Conflicts", Section: "health", Type: "number",
				Min: bound(model.MinConflicts), Max: bound(model.MaxConflicts), Step: 1, Default: 0},
			{Name: "relationshipStatus", Label: "Status", Section: "health", Type: "select", Default: model.RelationshipSingle,
				Options: []Option{
					{"Single", "Single"},
					{"InRelationship", "In a relationship"},
					{"Married", "Married"},
					{"Divorced", "Divorced"},
					{"Complicated", "Complicated"},
				}},
		},
		Schema:         scoring.DefaultSchema(),
		Enrichments:    enrichments,
		ScoreThreshold: model.ScoreBandThreshold,
	}
}

func bound[T int | float64](v T) *float64 {
	f := float64(v)
	return &f
}
