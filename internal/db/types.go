package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents an optimization run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Total       *float64   `json:"total,omitempty"`
	Grade       *string    `json:"grade,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Finished reports whether the run reached a terminal status
func (r *Run) Finished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
