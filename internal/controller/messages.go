package controller

import "time"

// messageDuration is how long a notification stays on screen.
const messageDuration = 5 * time.Second

// Message is one user-visible notification.
type Message struct {
	Text string
	At   time.Time
}

// MessageStack is the ordered log of user-visible notifications. Insertion
// order is significant; the view renders the most recent entries.
type MessageStack struct {
	messages []Message
	now      func() time.Time
}

// Push appends a notification.
func (s *MessageStack) Push(text string) {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	s.messages = append(s.messages, Message{Text: text, At: now()})
}

// Visible returns the texts of messages younger than the display duration,
// oldest first, and drops the expired ones.
func (s *MessageStack) Visible() []string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}

	cutoff := now().Add(-messageDuration)
	expired := 0
	for expired < len(s.messages) && s.messages[expired].At.Before(cutoff) {
		expired++
	}
	s.messages = s.messages[expired:]

	texts := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		texts = append(texts, m.Text)
	}
	return texts
}

// All returns every retained message, oldest first.
func (s *MessageStack) All() []Message {
	dup := make([]Message, len(s.messages))
	copy(dup, s.messages)
	return dup
}
