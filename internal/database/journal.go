package database

import (
	"context"
	"time"

	"github.com/edgard/autoreply/internal/mail"
)

// Journal records terminal messages into a Store.
type Journal struct {
	store Store
	now   func() time.Time
}

// NewJournal wraps store.
func NewJournal(store Store) *Journal {
	return &Journal{store: store, now: time.Now}
}

// Record saves m as a decision made now.
func (j *Journal) Record(ctx context.Context, m mail.Message) error {
	return j.store.SaveDecision(ctx, NewDecision(m, j.now()))
}
