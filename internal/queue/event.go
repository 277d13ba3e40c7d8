// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into audit-log lines.
package queue

// AttendanceSavedEvent is published after a monthly attendance grid commits.
// It carries enough for downstream consumers to audit or notify without
// querying the primary database.
type AttendanceSavedEvent struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Employees int    `json:"employees"`
	Entries   int    `json:"entries"`
	SavedBy   uint64 `json:"saved_by"`
	SavedAt   string `json:"saved_at"`
}
