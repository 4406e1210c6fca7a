package models

import "time"

// Fact keys with fixed semantics. Any other key is a free-form attribute
// name extracted from "my <attribute> is <value>" (e.g. "birthday").
const (
	FactKeyReminder = "reminder"
	FactKeyProblem  = "problem"
	FactKeyNote     = "note"
	FactKeyName     = "name"
)

// Fact is a durable piece of personal information extracted from
// conversation. Reminders additionally carry a trigger time; problems carry
// the resolved/reminded flags so the assistant can follow up later.
type Fact struct {
	ID        int64      `json:"id"`
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	CreatedAt time.Time  `json:"ts"`
	RemindAt  *time.Time `json:"remindAt,omitempty"`
	Resolved  bool       `json:"resolved"`
	Reminded  bool       `json:"reminded"`
}

// CreateFactRequest is the request body for POST /facts
type CreateFactRequest struct {
	Key      string     `json:"key"`
	Value    string     `json:"value"`
	RemindAt *time.Time `json:"remindAt,omitempty"`
	Resolved *bool      `json:"resolved,omitempty"`
	Reminded *bool      `json:"reminded,omitempty"`
}

// FactPatch is a partial update for PATCH /facts/:id. Nil fields are left
// unchanged.
type FactPatch struct {
	Value    *string    `json:"value,omitempty"`
	RemindAt *time.Time `json:"remindAt,omitempty"`
	Resolved *bool      `json:"resolved,omitempty"`
	Reminded *bool      `json:"reminded,omitempty"`
}
