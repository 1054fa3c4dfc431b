package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DoyleJ11/clan-vaults-backend/internal/journal"
	"github.com/DoyleJ11/clan-vaults-backend/internal/model"
	"github.com/DoyleJ11/clan-vaults-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// helper: receive one update with a timeout so tests never hang
func recvUpdate(t *testing.T, ch <-chan Update, within time.Duration) Update {
	t.Helper()
	select {
	case u, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return u
	case <-time.After(within):
		t.Fatalf("timed out waiting for update")
		return Update{} // unreachable
	}
}

func recvSnapshot(t *testing.T, ch <-chan Update, within time.Duration) Snapshot {
	t.Helper()
	u := recvUpdate(t, ch, within)
	require.NotNil(t, u.Snapshot, "expected a snapshot, got %+v", u)
	return *u.Snapshot
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

type memorySink struct {
	mu      sync.Mutex
	entries []journal.Entry
	err     error
}

func (m *memorySink) Write(_ context.Context, e journal.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

func (m *memorySink) Close() error { return nil }

func (m *memorySink) all() []journal.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.Entry(nil), m.entries...)
}

func TestSession_Dispatch_BroadcastsSnapshotAndVersionIncrements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &memorySink{}
	s := New(ctx, "s1", sink, zap.NewNop())

	out := make(chan Update, 2)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}

	first := recvSnapshot(t, out, 100*time.Millisecond)
	assert.Equal(t, 0, first.Version)
	assert.Nil(t, first.State.User.User)

	err := s.Dispatch(ctx, store.SetUser{User: model.UserProfile{ID: "user-1", Username: "tester"}})
	require.NoError(t, err)

	next := recvSnapshot(t, out, 100*time.Millisecond)
	assert.Equal(t, 1, next.Version)
	require.NotNil(t, next.State.User.User)
	assert.Equal(t, "tester", next.State.User.User.Username)

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "s1", entries[0].SessionID)
	assert.Equal(t, 1, entries[0].Seq)
	assert.Equal(t, "user", entries[0].Store)
	assert.Equal(t, "setUser", entries[0].Action)

	s.Inbox() <- Shutdown{}
}

func TestSession_RejectedActionKeepsVersion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", nil, zap.NewNop())
	err := s.Dispatch(ctx, store.UpdateUser{Patch: model.UserPatch{XP: model.Ptr(5)}})
	assert.ErrorIs(t, err, store.ErrNoUser)

	v, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Version)
	assert.Empty(t, v.Log)
}

func TestSession_JournalFailureDoesNotRejectAction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", &memorySink{err: errors.New("db down")}, zap.NewNop())
	require.NoError(t, s.Dispatch(ctx, store.SetFeedConnected{Connected: true}))

	v, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)
	assert.True(t, v.State.LiveFeed.Connected)
}

func TestSession_DropSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", nil, zap.NewNop())

	out := make(chan Update, 1)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out} // join snapshot fills the buffer

	s.Inbox() <- Dispatch{Action: store.SetFeedConnected{Connected: true}}

	reply := make(chan View, 1)
	s.Inbox() <- GetState{Reply: reply}
	view := recvView(t, reply, 100*time.Millisecond)
	assert.Equal(t, 0, view.NumClients, "expected slow client to be dropped")
}

func TestSession_ToastIsBroadcastNotStored(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", nil, zap.NewNop())
	out := make(chan Update, 4)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	require.NoError(t, s.Notify(ctx, ToastSuccess, "Welcome, tester!"))
	u := recvUpdate(t, out, 100*time.Millisecond)
	require.NotNil(t, u.Toast)
	assert.Equal(t, ToastSuccess, u.Toast.Kind)
	assert.Equal(t, "Welcome, tester!", u.Toast.Message)

	v, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Version)
}

func TestSession_LogIsBounded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", nil, zap.NewNop())
	for i := range LogSize + 10 {
		require.NoError(t, s.Dispatch(ctx, store.SetFeedConnected{Connected: i%2 == 0}))
	}
	v, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, LogSize+10, v.Version)
	assert.Len(t, v.Log, LogSize)
}

func TestSession_Shutdown_ClosesOutboxes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, "s1", nil, zap.NewNop())
	out := make(chan Update, 2)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	s.Inbox() <- Shutdown{}
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("outbox not closed on shutdown")
	}
	<-s.Done()
	assert.ErrorIs(t, s.Dispatch(context.Background(), store.ClearEvents{}), ErrClosed)
}

func TestSession_IdleShutdownAfterLastClientLeaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reaped := make(chan string, 1)
	s := New(ctx, "s1", nil, zap.NewNop(), IdleAfter(40*time.Millisecond, func(s *Session) {
		reaped <- s.ID()
	}))

	out := make(chan Update, 4)
	s.Inbox() <- Join{ClientID: "c1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	// A connected client keeps the session alive past the idle window.
	time.Sleep(80 * time.Millisecond)
	v, err := s.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v.NumClients)

	s.Inbox() <- Leave{ClientID: "c1"}
	select {
	case id := <-reaped:
		assert.Equal(t, "s1", id)
	case <-time.After(time.Second):
		t.Fatal("idle session was not reaped")
	}
	<-s.Done()
}
