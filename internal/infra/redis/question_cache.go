package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizpulse-service/internal/domain"
)

// QuestionLoader fetches a question from the system of record.
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, id string) (domain.Question, error)
}

// QuestionCache keeps the scoring view of a question in a Redis hash and falls
// back to the loader on a miss.
//
//	HSET question:{id} text .. type .. category .. correct .. has_correct 0|1 points .. options [json]
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	key := questionKey(id)
	if fields, err := c.client.HGetAll(ctx, key).Result(); err == nil && len(fields) > 0 {
		if q, err := fromHash(id, fields); err == nil {
			return q, nil
		}
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if fields, err := c.client.HGetAll(ctx, key).Result(); err == nil && len(fields) > 0 {
			if q, err := fromHash(id, fields); err == nil {
				return q, nil
			}
		}

		q, err := c.loader.LoadQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}
		fields, err := toHash(q)
		if err != nil {
			return q, nil
		}
		ttl := c.ttlWithJitter()
		pipe := c.client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// a failed write only costs a reload on the next read
		_, _ = pipe.Exec(ctx)
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate removes the cached copy so the next read reloads it.
func (c *QuestionCache) Invalidate(ctx context.Context, id string) error {
	c.sf.Forget(id)
	if err := c.client.Del(ctx, questionKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate question %s: %w", id, err)
	}
	return nil
}

func questionKey(id string) string {
	return "question:" + id
}

func toHash(q domain.Question) (map[string]interface{}, error) {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return nil, err
	}
	correct, hasCorrect := "", "0"
	if q.CorrectAnswer != nil {
		correct, hasCorrect = *q.CorrectAnswer, "1"
	}
	return map[string]interface{}{
		"text":        q.Text,
		"type":        string(q.Type),
		"category":    q.Category,
		"correct":     correct,
		"has_correct": hasCorrect,
		"points":      q.Points,
		"options":     string(options),
	}, nil
}

func fromHash(id string, fields map[string]string) (domain.Question, error) {
	points, err := strconv.Atoi(fields["points"])
	if err != nil {
		return domain.Question{}, fmt.Errorf("points: %w", err)
	}
	q := domain.Question{
		ID:       id,
		Text:     fields["text"],
		Type:     domain.QuestionType(fields["type"]),
		Category: fields["category"],
		Points:   points,
	}
	if raw := fields["options"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &q.Options); err != nil {
			return domain.Question{}, fmt.Errorf("options: %w", err)
		}
	}
	if fields["has_correct"] == "1" {
		correct := fields["correct"]
		q.CorrectAnswer = &correct
	}
	return q, nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
