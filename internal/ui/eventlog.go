package ui

import (
	"fmt"
	"time"
)

// DefaultLogLines is the event log capacity when none is configured.
const DefaultLogLines = 50

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one line of the event log. Repeat counts collapsed duplicates.
type Entry struct {
	At     time.Time
	Level  Level
	Text   string
	Repeat int
}

func (e Entry) String() string {
	s := e.At.Format("15:04:05") + " " + e.Text
	if e.Repeat > 1 {
		s += fmt.Sprintf(" (x%d)", e.Repeat)
	}
	return s
}

// EventLog keeps the most recent entries, oldest first. Consecutive identical
// entries are collapsed into one with a repeat counter.
type EventLog struct {
	capacity int
	entries  []Entry

	Now func() time.Time
}

func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultLogLines
	}
	return &EventLog{capacity: capacity, Now: time.Now}
}

func (l *EventLog) Add(level Level, text string) {
	now := l.Now()

	if n := len(l.entries); n > 0 {
		last := &l.entries[n-1]
		if last.Text == text && last.Level == level {
			last.Repeat++
			last.At = now
			return
		}
	}

	l.entries = append(l.entries, Entry{At: now, Level: level, Text: text, Repeat: 1})
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

func (l *EventLog) Info(format string, args ...any)  { l.Add(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *EventLog) Warn(format string, args ...any)  { l.Add(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *EventLog) Error(format string, args ...any) { l.Add(LevelError, fmt.Sprintf(format, args...)) }

func (l *EventLog) Len() int { return len(l.entries) }

// Last returns up to n most recent entries, oldest first.
func (l *EventLog) Last(n int) []Entry {
	if n > len(l.entries) || n < 0 {
		n = len(l.entries)
	}
	return append([]Entry(nil), l.entries[len(l.entries)-n:]...)
}

// Entries returns every entry, oldest first.
func (l *EventLog) Entries() []Entry {
	return l.Last(-1)
}
