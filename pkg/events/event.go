package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeWorkspaceChanged = "workspace.changed"
	TypeNoteCreated      = "note.created"
	TypeNoteDeleted      = "note.deleted"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the routing code, also used as the NATS subject suffix.
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// WorkspaceChanged announces one committed tree mutation.
func WorkspaceChanged(version uint64, op, kind, itemId, parentId string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeWorkspaceChanged,
		Data: map[string]interface{}{
			"version":        version,
			"op":             op,
			"type":           kind,
			"itemId":         itemId,
			"parentFolderId": parentId,
		},
		OccurredAt: at,
	}
}

func NoteCreated(noteId, title string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeNoteCreated,
		Data:       map[string]interface{}{"noteId": noteId, "title": title},
		OccurredAt: at,
	}
}

func NoteDeleted(noteId string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       TypeNoteDeleted,
		Data:       map[string]interface{}{"noteId": noteId},
		OccurredAt: at,
	}
}

// Envelope is the wire form shared by the in-process bus and websocket clients.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func Marshal(e Event) ([]byte, error) {
	data, err := json.Marshal(Envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.EventType(), err)
	}
	return data, nil
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("unmarshal event: missing type")
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
