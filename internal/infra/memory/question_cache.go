package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizpulse-service/internal/domain"
)

// QuestionLoader fetches a question from the backing store.
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, id string) (domain.Question, error)
}

// QuestionCache caches questions with TTL so scoring avoids repeated DB hits.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestion),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	if q, ok := c.lookup(id); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if q, ok := c.lookup(id); ok {
			return q, nil
		}
		q, err := c.loader.LoadQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}
		c.mu.Lock()
		c.cache[id] = cachedQuestion{question: q, expiresAt: c.clock().Add(c.ttlWithJitterLocked())}
		c.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// Invalidate drops a cached question after an edit or delete.
func (c *QuestionCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
	c.sf.Forget(id)
	return nil
}

func (c *QuestionCache) lookup(id string) (domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[id]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Question{}, false
	}
	return entry.question, true
}

func (c *QuestionCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
