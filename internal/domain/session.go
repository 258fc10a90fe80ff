package domain

import "time"

// Speaker labels for transcript lines.
const (
	SpeakerGuest     = "guest"
	SpeakerAssistant = "assistant"
)

type ChatLine struct {
	Timestamp time.Time `json:"timestamp"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
}

// Session is the per-conversation state shared by every frontend.
type Session struct {
	ID         string          `json:"id"`
	Pending    *PendingBooking `json:"pending,omitempty"`
	Transcript []ChatLine      `json:"transcript,omitempty"`
}

func (s *Session) Append(speaker, text string) {
	s.Transcript = append(s.Transcript, ChatLine{Timestamp: time.Now().UTC(), Speaker: speaker, Text: text})
}
