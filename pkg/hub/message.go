// Package hub fans site activity out to websocket clients using the
// channel-based register/unregister/broadcast pattern.
package hub

import (
	"encoding/json"
	"time"
)

// Message is one encoded frame queued for clients.
type Message struct {
	Data []byte
}

// EventType names what happened.
type EventType string

const (
	EventSubmission     EventType = "submission"
	EventCatalogUpdated EventType = "catalog-updated"
)

// Event is an activity notice. It never carries personal data: no names,
// emails or message bodies.
type Event struct {
	Type       EventType `json:"type"`
	Kind       string    `json:"kind,omitempty"`
	Collection string    `json:"collection,omitempty"`
	AppID      string    `json:"appId,omitempty"`
	Projects   int       `json:"projects,omitempty"`
	At         time.Time `json:"at"`
}

// Encode marshals the event into a Message.
func (e Event) Encode() (Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return Message{}, err
	}
	return Message{Data: data}, nil
}
