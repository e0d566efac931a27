package model

import "time"

// Assessment is the outcome of one encode→predict round
type Assessment struct {
	ID        string             `json:"id" bson:"_id"`
	SessionID string             `json:"sessionId" bson:"-"` // never archived
	Score     float64            `json:"score" bson:"score"`
	Display   string             `json:"display" bson:"-"`
	Band      string             `json:"band" bson:"band"`
	Summary   ProfileSummary     `json:"summary" bson:"summary"`
	Features  map[string]float64 `json:"-" bson:"features"`
	ModelPath string             `json:"-" bson:"modelPath"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
