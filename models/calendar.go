package models

import "time"

// EnrichedEvent is a read-through projection of a Google Calendar event,
// annotated with the AI-booking classification and best-effort call metadata.
// Never persisted; recomputed on every fetch.
//
// The call association is a display convenience computed by substring
// matching (phone digits or attendee email in the call summary). It carries
// no uniqueness guarantee: only the first matching call is attached.
type EnrichedEvent struct {
	ID            string    `json:"id"`
	GoogleEventID string    `json:"googleEventId"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AttendeeName  string    `json:"attendeeName"`
	AttendeeEmail string    `json:"attendeeEmail,omitempty"`
	AttendeePhone string    `json:"attendeePhone,omitempty"`
	Description   string    `json:"description,omitempty"`
	IsAIBooking   bool      `json:"isAiBooking"`

	CallID             *string          `json:"call_id,omitempty"`
	CallSummary        string           `json:"call_summary,omitempty"`
	CallSentiment      string           `json:"call_sentiment,omitempty"`
	CallRecordingURL   string           `json:"call_recording_url,omitempty"`
	CallDuration       int              `json:"call_duration,omitempty"`
	CallTranscript     string           `json:"call_transcript,omitempty"`
	CallTranscriptJSON []TranscriptTurn `json:"call_transcript_json,omitempty"`
}

// EventInput is the dashboard payload for creating or updating an event.
type EventInput struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}
