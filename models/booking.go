package models

// BookingRequest is the normalized view of a voice-AI tool-call payload,
// produced after envelope unwrapping and alias extraction. Transient; never
// persisted as its own entity.
type BookingRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Note  string `json:"note,omitempty"`
}
