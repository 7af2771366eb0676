package domain

import "time"

// Snapshot is the cross-turn persisted subset of a session: conversation
// memory and last-known slots, as plain JSON-serializable mappings. Stores
// round-trip it without interpreting the contents.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	Memory    map[string]any `json:"memory,omitempty"`
	Slots     map[string]any `json:"slots,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Clone deep-copies the snapshot so stores can hand out isolated values.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		SessionID: s.SessionID,
		Memory:    CloneDocument(s.Memory),
		Slots:     CloneDocument(s.Slots),
		UpdatedAt: s.UpdatedAt,
	}
}
