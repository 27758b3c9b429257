package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgard/autoreply/internal/database"
	"github.com/edgard/autoreply/internal/mail"
	"github.com/edgard/autoreply/internal/responder"
)

type fakeSubmitter struct {
	mu        sync.Mutex
	running   bool
	err       error
	submitted []mail.Message
}

func (f *fakeSubmitter) Running() bool { return f.running }

func (f *fakeSubmitter) Submit(_ context.Context, m mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, m)
	return nil
}

type counterSource struct{ n int }

func (s *counterSource) Next() mail.Message {
	s.n++
	return mail.NewMessage(string(rune('a'+s.n-1)), "user1@gmail.com", "Project Inquiry", "hi", time.Now())
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	withoutStore := RegisterAllTasks(TaskDeps{Logger: quiet(), Responder: &fakeSubmitter{}, Source: &counterSource{}})
	require.Contains(t, withoutStore, SyntheticMail)
	require.NotContains(t, withoutStore, JournalMaintenance)

	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	withStore := RegisterAllTasks(TaskDeps{
		Logger:    quiet(),
		Responder: &fakeSubmitter{},
		Source:    &counterSource{},
		Store:     database.NewStore(db, quiet()),
	})
	require.Contains(t, withStore, JournalMaintenance)
}

func TestSyntheticMailTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sub       *fakeSubmitter
		wantErr   bool
		submitted int
	}{
		{name: "running", sub: &fakeSubmitter{running: true}, submitted: 1},
		{name: "paused", sub: &fakeSubmitter{running: false}},
		{name: "stopped", sub: &fakeSubmitter{running: true, err: responder.ErrStopped}},
		{name: "other error", sub: &fakeSubmitter{running: true, err: errors.New("boom")}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := &counterSource{}
			task := newSyntheticMailTask(TaskDeps{Logger: quiet(), Responder: tc.sub, Source: src})

			err := task(context.Background())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, tc.sub.submitted, tc.submitted)
		})
	}
}

func TestJournalMaintenanceTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, quiet())

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for id, age := range map[string]time.Duration{"old": 30 * time.Hour, "fresh": time.Hour} {
		m, err := mail.NewMessage(id, "a@b.c", "s", "b", now.Add(-age)).Reply("ok")
		require.NoError(t, err)
		require.NoError(t, store.SaveDecision(ctx, database.NewDecision(m, now.Add(-age))))
	}

	task := newJournalMaintenanceTask(TaskDeps{
		Logger:    quiet(),
		Store:     store,
		Retention: 24 * time.Hour,
		Now:       func() time.Time { return now },
	})
	require.NoError(t, task(ctx))

	left, err := store.GetRecentDecisions(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "fresh", left[0].MessageID)
}
