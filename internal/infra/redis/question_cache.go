package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/kunalroy0223/liveiq/internal/app"
	"github.com/kunalroy0223/liveiq/internal/domain"
)

const questionsKey = "quiz:questions"

// QuestionCache is a read-through cache over a question repository. The
// ordered question list is the hot path (every snapshot and navigation op
// reads it), so it is cached as one JSON blob with a jittered TTL and
// singleflight to stop load stampedes after invalidation. Writes go to the
// source and invalidate the cache.
type QuestionCache struct {
	client *redis.Client
	source app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, source app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) List(ctx context.Context) ([]domain.Question, error) {
	raw, err := c.client.Get(ctx, questionsKey).Result()
	if err == nil {
		var questions []domain.Question
		if err := json.Unmarshal([]byte(raw), &questions); err == nil {
			return questions, nil
		}
		// Unreadable cache entry; fall through to reload.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read question cache: %w", err)
	}

	result, err, _ := c.sf.Do(questionsKey, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		raw, err := c.client.Get(ctx, questionsKey).Result()
		if err == nil {
			var questions []domain.Question
			if err := json.Unmarshal([]byte(raw), &questions); err == nil {
				return questions, nil
			}
		}

		questions, err := c.source.List(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, questionsKey, data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) GetByID(ctx context.Context, id string) (domain.Question, error) {
	return c.source.GetByID(ctx, id)
}

func (c *QuestionCache) Create(ctx context.Context, q domain.Question) error {
	if err := c.source.Create(ctx, q); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *QuestionCache) Update(ctx context.Context, q domain.Question) error {
	if err := c.source.Update(ctx, q); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *QuestionCache) Delete(ctx context.Context, id string) error {
	if err := c.source.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *QuestionCache) invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, questionsKey).Err()
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
