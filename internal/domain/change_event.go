package domain

import (
	"strconv"
	"strings"
	"time"
)

// ChangeOperation describes an activity operation for a card.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationCreate ChangeOperation = "create"
	ChangeOperationUpdate ChangeOperation = "update"
	ChangeOperationLift   ChangeOperation = "lift"
	ChangeOperationPlace  ChangeOperation = "place"
	ChangeOperationMove   ChangeOperation = "move"
)

// ChangeEvent represents a single activity-log entry for a card.
type ChangeEvent struct {
	ID         int64
	CardID     string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}

// NormalizeChangeOperation canonicalizes stored operation values.
func NormalizeChangeOperation(raw string) ChangeOperation {
	switch op := ChangeOperation(strings.TrimSpace(strings.ToLower(raw))); op {
	case ChangeOperationCreate, ChangeOperationUpdate, ChangeOperationLift, ChangeOperationPlace, ChangeOperationMove:
		return op
	default:
		return ChangeOperationUpdate
	}
}

// CreatedEvent builds the ledger entry for a newly registered card.
func CreatedEvent(c Card) ChangeEvent {
	return ChangeEvent{
		CardID:    c.ID,
		Operation: ChangeOperationCreate,
		Metadata: map[string]string{
			"owner": string(c.Owner),
			"text":  c.Text,
		},
		OccurredAt: c.CreatedAt,
	}
}

// ClassifyCardChange derives the ledger entry for a card update.
func ClassifyCardChange(prev, next Card) ChangeEvent {
	event := ChangeEvent{CardID: next.ID, OccurredAt: next.UpdatedAt}
	switch {
	case prev.Owner != NoOwner && next.Owner == NoOwner:
		event.Operation = ChangeOperationLift
		event.Metadata = map[string]string{"from_owner": string(prev.Owner)}
	case prev.Owner == NoOwner && next.Owner != NoOwner:
		event.Operation = ChangeOperationPlace
		event.Metadata = map[string]string{"to_owner": string(next.Owner)}
	case prev.Owner != next.Owner:
		event.Operation = ChangeOperationMove
		event.Metadata = map[string]string{
			"from_owner": string(prev.Owner),
			"to_owner":   string(next.Owner),
		}
	default:
		event.Operation = ChangeOperationUpdate
		event.Metadata = map[string]string{}
	}
	if next.Owner != NoOwner && (prev.Position != next.Position || event.Operation == ChangeOperationPlace) {
		event.Metadata["x"] = strconv.Itoa(next.Position.X)
		event.Metadata["y"] = strconv.Itoa(next.Position.Y)
	}
	if prev.Text != next.Text {
		event.Metadata["from_text"] = prev.Text
		event.Metadata["to_text"] = next.Text
	}
	return event
}
