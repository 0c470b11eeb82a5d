package domain

import "time"

// Entity is the embedded base for every persisted aggregate. It carries the
// surrogate key, audit timestamps, and the buffer of domain events raised by
// mutations. The buffer is owned exclusively by the entity until a command
// handler snapshots it (Events) and clears it (ClearEvents) after dispatch.
type Entity struct {
	// ID is the surrogate key, assigned by the store on insert.
	ID int64 `json:"id"`

	// CreatedAt is set when the entity is constructed.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is nil until the first mutation after creation.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	events []Event
}

// NewEntity returns an Entity stamped with the current UTC time.
func NewEntity() Entity {
	return Entity{CreatedAt: time.Now().UTC()}
}

// Touch records a mutation timestamp.
func (e *Entity) Touch() {
	now := time.Now().UTC()
	e.UpdatedAt = &now
}

// Raise appends a domain event to the entity's buffer.
func (e *Entity) Raise(event Event) {
	e.events = append(e.events, event)
}

// Events returns a snapshot of the pending events in emission order.
// Callers must snapshot before deleting the entity from the store.
func (e *Entity) Events() []Event {
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// ClearEvents empties the event buffer. Called after dispatch.
func (e *Entity) ClearEvents() {
	e.events = nil
}
