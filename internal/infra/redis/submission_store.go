package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kunalroy0223/liveiq/internal/domain"
)

// SubmissionStore keeps answer submissions in Redis, one hash per question:
//
//	HSET quiz:submissions:{questionID} {userID} {submission JSON}
//
// Settle marks are SETNX keys, so reveal settlement stays at-most-once per
// (question, user) even across process restarts.
type SubmissionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSubmissionStore(client *redis.Client, ttl time.Duration) *SubmissionStore {
	return &SubmissionStore{client: client, ttl: ttl}
}

func (s *SubmissionStore) Put(ctx context.Context, sub domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	key := s.submissionsKey(sub.QuestionID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, sub.UserID, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) Get(ctx context.Context, questionID, userID string) (domain.Submission, bool, error) {
	raw, err := s.client.HGet(ctx, s.submissionsKey(questionID), userID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Submission{}, false, nil
	}
	if err != nil {
		return domain.Submission{}, false, fmt.Errorf("load submission: %w", err)
	}
	var sub domain.Submission
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return domain.Submission{}, false, fmt.Errorf("unmarshal submission: %w", err)
	}
	return sub, true, nil
}

func (s *SubmissionStore) List(ctx context.Context, questionID string) (map[string]domain.Submission, error) {
	raw, err := s.client.HGetAll(ctx, s.submissionsKey(questionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := make(map[string]domain.Submission, len(raw))
	for userID, data := range raw {
		var sub domain.Submission
		if err := json.Unmarshal([]byte(data), &sub); err != nil {
			return nil, fmt.Errorf("unmarshal submission for %s: %w", userID, err)
		}
		out[userID] = sub
	}
	return out, nil
}

func (s *SubmissionStore) MarkSettled(ctx context.Context, questionID, userID string) (bool, error) {
	first, err := s.client.SetNX(ctx, s.settledKey(questionID, userID), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("settle mark: %w", err)
	}
	return first, nil
}

func (s *SubmissionStore) submissionsKey(questionID string) string {
	return "quiz:submissions:" + questionID
}

func (s *SubmissionStore) settledKey(questionID, userID string) string {
	return "quiz:settled:" + questionID + ":" + userID
}
