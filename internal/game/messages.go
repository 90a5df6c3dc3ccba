/*
Package game
File: messages.go
Description:
    The player-facing narrative log. Actions and encounter resolutions
    append lines here; the presentation layer reads them back.
*/

package game

// MsgPriority tells the presentation layer how to style a line.
type MsgPriority string

const (
	MsgInfo      MsgPriority = "info"
	MsgWarning   MsgPriority = "warning"
	MsgCritical  MsgPriority = "critical"
	MsgDiscovery MsgPriority = "discovery"
)

// Message is a single entry in the log.
type Message struct {
	Day      int         `json:"day"`
	Text     string      `json:"text"`
	Priority MsgPriority `json:"priority"`
}

// MessageLog is a bounded FIFO of messages.
type MessageLog struct {
	Messages []Message `json:"messages"`
	maxSize  int
	day      int
}

// NewMessageLog creates a log that keeps the most recent maxSize messages.
func NewMessageLog(maxSize int) *MessageLog {
	return &MessageLog{
		Messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// SetDay stamps subsequent messages with the simulation day.
func (l *MessageLog) SetDay(day int) {
	l.day = day
}

// Add appends a message, evicting the oldest if full.
func (l *MessageLog) Add(text string, priority MsgPriority) {
	msg := Message{Day: l.day, Text: text, Priority: priority}
	if len(l.Messages) >= l.maxSize {
		copy(l.Messages, l.Messages[1:])
		l.Messages[len(l.Messages)-1] = msg
		return
	}
	l.Messages = append(l.Messages, msg)
}

// Recent returns the last n messages (or fewer if the log is shorter).
func (l *MessageLog) Recent(n int) []Message {
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	return l.Messages[len(l.Messages)-n:]
}
