package redis

import (
	"context"
	"testing"
	"time"

	"github.com/kunalroy0223/liveiq/internal/app"
	"github.com/kunalroy0223/liveiq/internal/domain"
	"github.com/kunalroy0223/liveiq/internal/infra/memory"
)

type countingSource struct {
	app.QuestionRepository
	listCalls int
}

func (s *countingSource) List(ctx context.Context) ([]domain.Question, error) {
	s.listCalls++
	return s.QuestionRepository.List(ctx)
}

func seedSource(t *testing.T) *countingSource {
	t.Helper()
	store := memory.NewQuestionStore()
	questions := []domain.Question{
		{ID: "q1", QuestionText: "What is 2 + 2?", Answer: "4", Order: 1, CreatedAt: time.Now()},
		{ID: "q2", QuestionText: "Capital of France?", Answer: "Paris", Order: 2, CreatedAt: time.Now()},
	}
	for _, q := range questions {
		if err := store.Create(context.Background(), q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return &countingSource{QuestionRepository: store}
}

func TestQuestionCacheListCaches(t *testing.T) {
	ctx := context.Background()
	source := seedSource(t)
	cache := NewQuestionCache(newTestClient(t), source, time.Minute)

	list, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "q1" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected one source load, got %d", source.listCalls)
	}

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("list 2: %v", err)
	}
	if source.listCalls != 1 {
		t.Fatalf("expected cache hit, source loads %d", source.listCalls)
	}
}

func TestQuestionCacheWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	source := seedSource(t)
	cache := NewQuestionCache(newTestClient(t), source, time.Minute)

	if _, err := cache.List(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}

	created := domain.Question{ID: "q3", QuestionText: "Largest planet?", Answer: "Jupiter", Order: 3, CreatedAt: time.Now()}
	if err := cache.Create(ctx, created); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := cache.List(ctx)
	if err != nil {
		t.Fatalf("list after create: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("cache served stale list after write, got %d questions", len(list))
	}

	if err := cache.Delete(ctx, "q3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err = cache.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("cache served stale list after delete, got %d questions", len(list))
	}
}

func TestQuestionCacheGetByIDPassesThrough(t *testing.T) {
	ctx := context.Background()
	source := seedSource(t)
	cache := NewQuestionCache(newTestClient(t), source, time.Minute)

	q, err := cache.GetByID(ctx, "q2")
	if err != nil || q.Answer != "Paris" {
		t.Fatalf("get: %+v err=%v", q, err)
	}
}
