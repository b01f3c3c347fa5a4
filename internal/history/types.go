package history

import (
	"context"
	"time"
)

// Record is one processed utterance and the assistant's response.
type Record struct {
	ID        string    `json:"id"`
	Utterance string    `json:"utterance"`
	Intent    string    `json:"intent"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	Handled   bool      `json:"handled"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the command audit trail. This is an audit log only;
// conversational state (context ring, workflow session) never leaves
// the process.
type Store interface {
	SaveCommand(ctx context.Context, record Record) error
	RecentCommands(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
