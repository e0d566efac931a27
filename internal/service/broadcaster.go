package service

// Message types pushed to session subscribers
const (
	MsgScoreUpdated     = "score_updated"
	MsgScoreCleared     = "score_cleared"
	MsgEnrichmentReady  = "enrichment_ready"
	MsgEnrichmentFailed = "enrichment_failed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToSession(string, string, interface{}) {}
