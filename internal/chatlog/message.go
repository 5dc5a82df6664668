package chatlog

import "time"

// Message is one reconstructed log line.
type Message struct {
	Text    string
	Time    time.Time
	HasTime bool
}

// NewMessage wraps text and attaches its timestamp when the line carries one.
func NewMessage(text string) Message {
	msg := Message{Text: text}
	if ts, err := ParseTimestamp(text); err == nil {
		msg.Time = ts
		msg.HasTime = true
	}
	return msg
}
