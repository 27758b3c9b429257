package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgard/autoreply/internal/mail"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { CloseDB(db) })
	return NewStore(db, nil)
}

func decision(id string, status mail.Status, decidedAt time.Time) *Decision {
	m := mail.NewMessage(id, id+"@example.com", "subject "+id, "body", decidedAt.Add(-time.Minute))
	m.Status = status
	switch status {
	case mail.StatusReplied:
		m.ReplyText = "reply"
	default:
		m.Reason = "reason"
	}
	return NewDecision(m, decidedAt)
}

func TestSaveAndGetRecentDecisions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Ping(ctx))

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	statuses := []mail.Status{mail.StatusReplied, mail.StatusIgnored, mail.StatusFailed, mail.StatusIgnored}
	for i, st := range statuses {
		d := decision(fmt.Sprintf("m%d", i), st, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveDecision(ctx, d))
		require.NotZero(t, d.ID)
	}

	all, err := store.GetRecentDecisions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "m3", all[0].MessageID)
	require.Equal(t, "m0", all[3].MessageID)
	require.True(t, all[0].DecidedAt.Equal(base.Add(3*time.Minute)))

	ignored, err := store.GetRecentDecisions(ctx, mail.StatusIgnored, 1)
	require.NoError(t, err)
	require.Len(t, ignored, 1)
	require.Equal(t, "m3", ignored[0].MessageID)
	require.Equal(t, mail.StatusIgnored, ignored[0].Status)

	msg := all[3].Message()
	require.Equal(t, "m0", msg.ID)
	require.Equal(t, mail.StatusReplied, msg.Status)
	require.Equal(t, "reply", msg.ReplyText)

	_, err = store.GetRecentDecisions(ctx, "archived", 10)
	require.Error(t, err)

	counts, err := store.CountDecisionsByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, map[mail.Status]int{
		mail.StatusReplied: 1,
		mail.StatusIgnored: 2,
		mail.StatusFailed:  1,
	}, counts)
}

func TestGetRecentDecisionsClampsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	base := time.Now().UTC()
	for i := range MaxDecisionLimit + 5 {
		require.NoError(t, store.SaveDecision(ctx, decision(fmt.Sprintf("m%d", i), mail.StatusReplied, base)))
	}

	got, err := store.GetRecentDecisions(ctx, "", 1000)
	require.NoError(t, err)
	require.Len(t, got, MaxDecisionLimit)

	got, err = store.GetRecentDecisions(ctx, "", -1)
	require.NoError(t, err)
	require.Len(t, got, DefaultDecisionLimit)
}

func TestSaveDecisionValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	now := time.Now()

	require.Error(t, store.SaveDecision(ctx, nil))
	require.Error(t, store.SaveDecision(ctx, decision("", mail.StatusReplied, now)))
	require.ErrorIs(t, store.SaveDecision(ctx, decision("p", mail.StatusPending, now)), mail.ErrNotTerminal)
	require.Error(t, store.SaveDecision(ctx, decision("z", mail.StatusReplied, time.Time{})))
}

func TestDeleteDecisionsBeforeAndMaintenance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDecision(ctx, decision("old", mail.StatusIgnored, now.Add(-48*time.Hour))))
	require.NoError(t, store.SaveDecision(ctx, decision("new", mail.StatusReplied, now.Add(-time.Hour))))

	n, err := store.DeleteDecisionsBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	left, err := store.GetRecentDecisions(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "new", left[0].MessageID)

	require.NoError(t, store.RunSQLMaintenance(ctx))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, store.RunSQLMaintenance(cancelled), context.Canceled)
}

func TestJournalRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)
	j := NewJournal(store)
	fixed := time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	m, err := mail.NewMessage("j1", "a@b.c", "s", "b", fixed.Add(-time.Minute)).Ignore("nope")
	require.NoError(t, err)
	require.NoError(t, j.Record(ctx, m))

	got, err := store.GetRecentDecisions(ctx, mail.StatusIgnored, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "nope", got[0].Reason)
	require.True(t, got[0].DecidedAt.Equal(fixed))
}
