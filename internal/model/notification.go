package model

import "time"

// Notification is one delivered alert. Data is an opaque payload; when it
// carries an "eventId" key the notification links to an event page, but the
// core never interprets it beyond passing it through.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	Priority  string         `json:"priority,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
