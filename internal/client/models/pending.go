package models

import (
	"encoding/json"
	"time"
)

// OperationKind classifies a queued write.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
)

// PendingOperation is a write that succeeded locally but could not be
// confirmed by the backend. It is replayed in creation order when
// connectivity returns and removed once the replay is confirmed.
type PendingOperation struct {
	// ID is a uuid; replay is deduplicated on it.
	ID string

	// Entity names the record type ("product", "sale", "staff").
	Entity string

	EntityID string
	Kind     OperationKind

	// Payload is the JSON-encoded record as it was at enqueue time.
	// Empty for deletes. Creates ignore it and replay the current local
	// row instead, so later offline edits fold into one remote create.
	Payload json.RawMessage

	// Revision is the record's local revision captured at enqueue time.
	// An update replay is skipped (and the op dropped) if the record has
	// advanced since, because the queued payload is stale.
	Revision int64

	CreatedAt time.Time
}
