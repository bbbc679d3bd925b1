package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	session, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("get empty session: %v", err)
	}
	if session.ActiveQuestionID != "" || session.ClearAllTriggered {
		t.Fatalf("expected zero session, got %+v", session)
	}

	if err := store.SetActiveQuestion(ctx, "q1", at); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if got := mr.HGet(sessionKey, "active_question"); got != "q1" {
		t.Fatalf("expected q1 in redis, got %q", got)
	}
	session, _ = store.GetSession(ctx)
	if session.QuestionStartedAt == nil || !session.QuestionStartedAt.Equal(at) {
		t.Fatalf("unexpected start time %+v", session.QuestionStartedAt)
	}

	if err := store.SetClearAll(ctx, true, at); err != nil {
		t.Fatalf("raise clear-all: %v", err)
	}
	session, _ = store.GetSession(ctx)
	if !session.ClearAllTriggered || session.ActiveQuestionID != "q1" {
		t.Fatalf("expected flag raised with question kept, got %+v", session)
	}

	_ = store.SetActiveQuestion(ctx, "", at.Add(time.Minute))
	_ = store.SetClearAll(ctx, false, at.Add(time.Minute))
	session, _ = store.GetSession(ctx)
	if session.ActiveQuestionID != "" || session.QuestionStartedAt != nil || session.ClearAllTriggered {
		t.Fatalf("expected reset session, got %+v", session)
	}
}
