package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

func TestQuestionStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore()
	base := time.Now()

	questions := []domain.Question{
		{ID: "q3", Order: 2, CreatedAt: base.Add(2 * time.Second)},
		{ID: "q1", Order: 1, CreatedAt: base},
		{ID: "q2", Order: 2, CreatedAt: base.Add(time.Second)},
	}
	for _, q := range questions {
		if err := store.Create(ctx, q); err != nil {
			t.Fatalf("create %s: %v", q.ID, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"q1", "q2", "q3"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestQuestionStoreMissing(t *testing.T) {
	ctx := context.Background()
	store := NewQuestionStore()

	if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("get missing: %v", err)
	}
	if err := store.Update(ctx, domain.Question{ID: "nope"}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("update missing: %v", err)
	}
	if err := store.Delete(ctx, "nope"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.Create(ctx, domain.User{ID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, domain.User{ID: "u2", Username: "alice"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("duplicate: %v", err)
	}
}

func TestUserStoreAddScoreAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_ = store.Create(ctx, domain.User{ID: "u1", Username: "alice"})

	total, err := store.AddScore(ctx, "u1", 12)
	if err != nil || total != 12 {
		t.Fatalf("add: total=%d err=%v", total, err)
	}
	total, err = store.AddScore(ctx, "u1", 5)
	if err != nil || total != 17 {
		t.Fatalf("second add: total=%d err=%v", total, err)
	}
	if _, err := store.AddScore(ctx, "missing", 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("add to missing: %v", err)
	}

	if err := store.ResetScores(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	u, _ := store.GetByID(ctx, "u1")
	if u.Score != 0 {
		t.Fatalf("reset left %d", u.Score)
	}
}

func TestUserStoreListDeterministic(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	base := time.Now()
	_ = store.Create(ctx, domain.User{ID: "b", Username: "bob", CreatedAt: base})
	_ = store.Create(ctx, domain.User{ID: "a", Username: "alice", CreatedAt: base})
	_ = store.Create(ctx, domain.User{ID: "c", Username: "carol", CreatedAt: base.Add(-time.Second)})

	first, _ := store.List(ctx)
	for i := 0; i < 5; i++ {
		again, _ := store.List(ctx)
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("list order changed at %d", j)
			}
		}
	}
	if first[0].ID != "c" || first[1].ID != "a" || first[2].ID != "b" {
		t.Fatalf("expected createdAt then ID order, got %s %s %s", first[0].ID, first[1].ID, first[2].ID)
	}
}

func TestSubmissionStoreOverwriteAndSettle(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore()

	_ = store.Put(ctx, domain.Submission{UserID: "u1", QuestionID: "q1", Answer: "5", SecondsLeft: 28})
	_ = store.Put(ctx, domain.Submission{UserID: "u1", QuestionID: "q1", Answer: "4", SecondsLeft: 20})

	sub, ok, err := store.Get(ctx, "q1", "u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if sub.Answer != "4" || sub.SecondsLeft != 20 {
		t.Fatalf("latest submission must win, got %+v", sub)
	}

	subs, err := store.List(ctx, "q1")
	if err != nil || len(subs) != 1 {
		t.Fatalf("list: %d err=%v", len(subs), err)
	}

	first, err := store.MarkSettled(ctx, "q1", "u1")
	if err != nil || !first {
		t.Fatalf("first settle: first=%v err=%v", first, err)
	}
	first, err = store.MarkSettled(ctx, "q1", "u1")
	if err != nil || first {
		t.Fatalf("second settle must report already done: first=%v err=%v", first, err)
	}
}

func TestLiveStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewLiveStore()

	live, err := store.Get(ctx)
	if err != nil || live.IsStarted {
		t.Fatalf("fresh store must be idle: %+v err=%v", live, err)
	}

	want := domain.LiveState{IsStarted: true, ActiveQuestionID: "q1"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := store.Get(ctx)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
