package service

import (
	"testing"
	"time"

	"homestyling/internal/model"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	sess := store.Create()
	if sess.ID == "" {
		t.Fatal("session id is empty")
	}
	if sess.Step != 1 {
		t.Errorf("Step = %d, want 1", sess.Step)
	}
	if sess.Answers.Pyung != model.PyungDefault {
		t.Errorf("Pyung = %d, want %d", sess.Answers.Pyung, model.PyungDefault)
	}

	if got := store.Get(sess.ID); got != sess {
		t.Error("Get returned a different session")
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestSessionStoreEvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(30*time.Millisecond, 10*time.Millisecond)
	defer store.Close()

	sess := store.Create()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.RLock()
		_, alive := store.sessions[sess.ID]
		store.mu.RUnlock()
		if !alive {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("idle session was never evicted")
}
