package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quizpulse-service/internal/domain"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{questions: map[string]domain.Question{"q1": sampleQuestion()}}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	q, err := cache.GetQuestion(context.Background(), "q1")
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("question:q1") {
		t.Fatalf("expected question hash to be written")
	}
	if ttl := mr.TTL("question:q1"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	// second call should hit redis
	cached, err := cache.GetQuestion(context.Background(), "q1")
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.CorrectAnswer == nil || *cached.CorrectAnswer != *q.CorrectAnswer {
		t.Fatalf("correct answer lost in cache: %+v", cached)
	}
	if len(cached.Options) != 2 || cached.Points != 10 || cached.Type != domain.QuestionMCQ {
		t.Fatalf("unexpected cached question %+v", cached)
	}
}

func TestQuestionCacheKeepsUngradedQuestionsUngraded(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	poll := domain.Question{ID: "poll", Text: "Favourite colour?", Type: domain.QuestionPoll, Points: 10}
	loader := &countingLoader{questions: map[string]domain.Question{"poll": poll}}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	_, _ = cache.GetQuestion(context.Background(), "poll")
	cached, err := cache.GetQuestion(context.Background(), "poll")
	if err != nil {
		t.Fatalf("get cached: %v", err)
	}
	if cached.CorrectAnswer != nil {
		t.Fatalf("expected no correct answer, got %q", *cached.CorrectAnswer)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{questions: map[string]domain.Question{"q1": sampleQuestion()}}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = cache.GetQuestion(ctx, "q1")
	if err := cache.Invalidate(ctx, "q1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("question:q1") {
		t.Fatalf("expected key removed")
	}
	_, _ = cache.GetQuestion(ctx, "q1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d calls", loader.calls)
	}

	if _, err := cache.GetQuestion(ctx, "missing"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	questions map[string]domain.Question
	calls     int
}

func (l *countingLoader) LoadQuestion(_ context.Context, id string) (domain.Question, error) {
	l.calls++
	q, ok := l.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func sampleQuestion() domain.Question {
	correct := "4"
	return domain.Question{
		ID:            "q1",
		Text:          "What is 2 + 2?",
		Type:          domain.QuestionMCQ,
		Category:      "General",
		Options:       []string{"3", "4"},
		CorrectAnswer: &correct,
		Points:        10,
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
