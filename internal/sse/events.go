// Package sse implements Server-Sent Events for pushing shelf changes to
// connected clients.
package sse

import (
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventLogCreated represents a reading log creation event.
	EventLogCreated EventType = "log.created"
	// EventLogDeleted represents a reading log deletion event.
	EventLogDeleted EventType = "log.deleted"

	// EventSettingsUpdated represents a settings change event.
	EventSettingsUpdated EventType = "settings.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BookEventData is the data payload for book create and update events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
// LogsRemoved counts the reading logs removed by the cascade so clients
// can invalidate their history views without refetching everything.
type BookDeletedEventData struct {
	DeletedAt   time.Time `json:"deleted_at"`
	BookID      string    `json:"book_id"`
	LogsRemoved int       `json:"logs_removed"`
}

// LogEventData is the data payload for log created events.
type LogEventData struct {
	Log *domain.ReadingLog `json:"log"`
}

// LogDeletedEventData is the data payload for log delete events.
type LogDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	LogID     string    `json:"log_id"`
	BookID    string    `json:"book_id"`
}

// SettingsEventData is the data payload for settings events.
type SettingsEventData struct {
	Settings *domain.Settings `json:"settings"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book.created event.
func NewBookCreatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookUpdatedEvent creates a book.updated event.
func NewBookUpdatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookDeletedEvent creates a book.deleted event.
func NewBookDeletedEvent(bookID string, logsRemoved int) Event {
	return Event{
		Type: EventBookDeleted,
		Data: BookDeletedEventData{
			BookID:      bookID,
			LogsRemoved: logsRemoved,
			DeletedAt:   time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewLogCreatedEvent creates a log.created event.
func NewLogCreatedEvent(log *domain.ReadingLog) Event {
	return Event{
		Type:      EventLogCreated,
		Data:      LogEventData{Log: log},
		Timestamp: time.Now(),
	}
}

// NewLogDeletedEvent creates a log.deleted event.
func NewLogDeletedEvent(logID, bookID string) Event {
	return Event{
		Type: EventLogDeleted,
		Data: LogDeletedEventData{
			LogID:     logID,
			BookID:    bookID,
			DeletedAt: time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewSettingsUpdatedEvent creates a settings.updated event.
func NewSettingsUpdatedEvent(settings *domain.Settings) Event {
	return Event{
		Type:      EventSettingsUpdated,
		Data:      SettingsEventData{Settings: settings},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
