package models

import "time"

// Call sentiment classifications stored in the calls table.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// TranscriptTurn is one speaker/utterance pair of a structured transcript.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Call is one completed voice-AI phone call. Rows are written exclusively by
// webhook ingestion and are immutable except through re-delivery of the same
// ExternalCallID, which overwrites (upsert, last write wins).
type Call struct {
	ID             string           `json:"id"`
	TenantID       string           `json:"tenantId"`
	ExternalCallID string           `json:"externalCallId"`
	CustomerNumber string           `json:"customerNumber"`
	Status         string           `json:"status"`
	Duration       int              `json:"duration"`
	Summary        string           `json:"summary"`
	Sentiment      string           `json:"sentiment"`
	Transcript     string           `json:"transcript,omitempty"`
	TranscriptJSON []TranscriptTurn `json:"transcriptJson,omitempty"`
	RecordingURL   string           `json:"recordingUrl,omitempty"`
	CustomData     map[string]any   `json:"customData,omitempty"`

	// CreatedAt is the call's real start instant, not ingestion time.
	CreatedAt time.Time `json:"createdAt"`
}

// MapSentiment maps a vendor sentiment label (e.g. "Positive") to the
// lowercase enum stored in the calls table.
func MapSentiment(sentiment string) string {
	switch {
	case sentiment == "":
		return SentimentNeutral
	case containsFold(sentiment, "positive"):
		return SentimentPositive
	case containsFold(sentiment, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
