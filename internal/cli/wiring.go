package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/config"
	"quizpulse-service/internal/events"
	"quizpulse-service/internal/infra/memory"
	"quizpulse-service/internal/infra/postgres"
	infraredis "quizpulse-service/internal/infra/redis"
	"quizpulse-service/internal/logging"
)

// stores bundles one backend's implementations of the service ports.
type stores interface {
	app.QuestionStore
	app.ParticipantStore
	app.AnswerStore
	app.BadgeStore
	app.LabelStore
}

// runtime is everything a command needs, plus the teardown for it.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	service  *app.QuizService
	consumer *events.Consumer
	closers  []func(context.Context) error
}

func loadRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	rt := &runtime{cfg: cfg, logger: logger}
	if err := rt.build(ctx); err != nil {
		_ = rt.Close(context.Background())
		return nil, err
	}
	return rt, nil
}

func (rt *runtime) onClose(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

func (rt *runtime) build(ctx context.Context) error {
	cfg := rt.cfg

	var (
		st      stores
		loader  memory.QuestionLoader
		session app.SessionStore
	)
	if cfg.Postgres.URL != "" {
		db := postgres.Open(cfg.Postgres.URL)
		rt.onClose(func(context.Context) error { return db.Close() })
		if _, err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres pool: %w", err)
		}
		rt.onClose(func(context.Context) error { pool.Close(); return nil })
		st = postgres.NewStore(db)
		loader = postgres.NewQuestionLoader(pool)
		session = postgres.NewSessionStore(db)
	} else {
		mem := memory.NewStore()
		st = mem
		loader = mem
		session = memory.NewSessionStore()
		rt.logger.Warn("postgres url not configured, using in-memory storage")
	}

	questionTTL := config.TTLDuration(cfg.Question.TTL, 10*time.Minute)
	var view app.QuestionReader = memory.NewQuestionCache(loader, questionTTL)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.onClose(func(context.Context) error { return client.Close() })
		view = infraredis.NewQuestionCache(client, loader, questionTTL)
		session = infraredis.NewSessionStore(client)
	}

	evaluator := app.NewBadgeEvaluator(st, st, time.Now, rt.logger)
	dispatcher, err := rt.dispatcher(evaluator)
	if err != nil {
		return err
	}

	rt.service = app.NewQuizService(app.Deps{
		Questions:    st,
		QuestionView: view,
		Participants: st,
		Answers:      st,
		Badges:       st,
		Session:      session,
		Labels:       st,
		Dispatcher:   dispatcher,
		Logger:       rt.logger,
		Scoring: app.ScoringPolicy{
			SpeedThresholdMs: cfg.Scoring.SpeedThresholdMs,
			SpeedBonus:       cfg.Scoring.SpeedBonus,
		},
		DefaultPoints: cfg.Scoring.DefaultPoints,
		ClearAllHold:  config.TTLDuration(cfg.Session.ClearAllHold, 3*time.Second),
	})
	return nil
}

// dispatcher selects how badge jobs leave the request path.
func (rt *runtime) dispatcher(evaluator *app.BadgeEvaluator) (app.BadgeDispatcher, error) {
	cfg := rt.cfg.Events
	var (
		publisher  message.Publisher
		subscriber message.Subscriber
	)
	switch cfg.Publisher {
	case "goroutine":
		d := app.NewAsyncDispatcher(evaluator, rt.logger, 0)
		rt.onClose(d.Shutdown)
		return d, nil
	case "gochannel":
		ps := events.NewGoChannel(rt.logger)
		publisher, subscriber = ps, ps
	case "kafka":
		if len(cfg.Brokers) == 0 {
			return nil, errors.New("events.brokers must be set for the kafka publisher")
		}
		kcfg := events.KafkaConfig{Brokers: cfg.Brokers, ConsumerGroup: cfg.ConsumerGroup, Logger: rt.logger}
		var err error
		if publisher, err = events.NewKafkaPublisher(kcfg); err != nil {
			return nil, err
		}
		if subscriber, err = events.NewKafkaSubscriber(kcfg); err != nil {
			_ = publisher.Close()
			return nil, err
		}
		rt.onClose(func(context.Context) error { return subscriber.Close() })
	default:
		return nil, fmt.Errorf("unknown events publisher %q", cfg.Publisher)
	}

	d := events.NewDispatcher(publisher, cfg.Topic, rt.logger)
	rt.onClose(func(ctx context.Context) error {
		waitErr := d.Shutdown(ctx)
		return errors.Join(waitErr, d.Close())
	})
	rt.consumer = events.NewConsumer(subscriber, evaluator, cfg.Topic, rt.logger)
	return d, nil
}

// Close tears down in reverse order of construction.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
