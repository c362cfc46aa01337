package history

import (
	"time"

	"github.com/google/uuid"
)

// Record is one completed prediction, successful or not.
type Record struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SessionID   uuid.UUID `json:"session_id" db:"session_id"`
	Symptoms    []string  `json:"symptoms" db:"symptoms"`
	Disease     string    `json:"disease" db:"disease"`
	Description string    `json:"description" db:"description"`
	Precautions []string  `json:"precautions" db:"precautions"`
	// Error is the message the user saw when the prediction failed.
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Failed reports whether the record describes a failed prediction.
func (r Record) Failed() bool {
	return r.Error != ""
}
