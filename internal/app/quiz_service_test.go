package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/domain"
	"quizpulse-service/internal/infra/memory"
	"quizpulse-service/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubmitAnswerEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "The sky is blue", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("True"), Points: 1})
	p := env.login(t, "E1", "Alice", "Dana")

	res, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: " true ", LatencyMs: ms(3000)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Answer.IsCorrect == nil || !*res.Answer.IsCorrect || res.Answer.PointsEarned != 6 {
		t.Fatalf("expected correct answer worth 6, got %+v", res.Answer)
	}
	if res.Participant.Points != 6 || res.Participant.QuestionsAnswered != 1 || res.Participant.CorrectAnswers != 1 || res.Participant.Accuracy != 100 {
		t.Fatalf("unexpected participant stats %+v", res.Participant)
	}

	badges, err := env.service.ParticipantBadges(ctx, p.ID)
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	if !hasBadgeNamed(badges, "Rising Star") || !hasBadgeNamed(badges, "Speed Demon") {
		t.Fatalf("expected first-answer and speed badges, got %+v", badges)
	}
}

func TestSubmitAnswerIncorrectScoresZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "2 + 2?", Type: domain.QuestionMCQ, Options: []string{"3", "4"}, CorrectAnswer: ptr("4")})
	p := env.login(t, "E1", "Alice", "Dana")

	res, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "3", LatencyMs: ms(1000)})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Answer.PointsEarned != 0 || *res.Answer.IsCorrect {
		t.Fatalf("expected zero-point incorrect answer, got %+v", res.Answer)
	}
	if res.Participant.QuestionsAnswered != 1 || res.Participant.Accuracy != 0 {
		t.Fatalf("unexpected stats %+v", res.Participant)
	}
}

func TestSubmitAnswerPollIsStoredButNotScored(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "Favourite team?", Type: domain.QuestionPoll, Options: []string{"Red", "Blue"}})
	p := env.login(t, "E1", "Alice", "Dana")

	res, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "Red"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Answer.IsCorrect != nil || res.Participant.QuestionsAnswered != 0 {
		t.Fatalf("poll answer should not be graded: %+v / %+v", res.Answer, res.Participant)
	}
	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "Blue"}); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate on second poll answer, got %v", err)
	}
}

func TestSubmitAnswerRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "2 + 2?", Type: domain.QuestionMCQ, Options: []string{"3", "4"}, CorrectAnswer: ptr("4"), Points: 10})
	p := env.login(t, "E1", "Alice", "Dana")

	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "4"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "3"})
	if !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	got, _ := env.service.Participant(ctx, p.ID)
	if got.Points != 10 || got.QuestionsAnswered != 1 {
		t.Fatalf("duplicate must not change stats, got %+v", got)
	}
}

func TestSubmitAnswerConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "2 + 2?", Type: domain.QuestionMCQ, Options: []string{"3", "4"}, CorrectAnswer: ptr("4"), Points: 10})
	p := env.login(t, "E1", "Alice", "Dana")

	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "4"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrDuplicateSubmission):
				dup.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 1 || dup.Load() != 19 {
		t.Fatalf("expected 1 success and 19 duplicates, got %d/%d", ok.Load(), dup.Load())
	}
	got, _ := env.service.Participant(ctx, p.ID)
	if got.Points != 10 || got.QuestionsAnswered != 1 {
		t.Fatalf("unexpected stats after race %+v", got)
	}
}

func TestSubmitAnswerValidationAndLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.login(t, "E1", "Alice", "Dana")

	_, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: "q1"})
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: "ghost", QuestionID: "q1", Answer: "x"}); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant not found, got %v", err)
	}
	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: "missing", Answer: "x"}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestSubmitAnswerRollsBackWhenStatsFail(t *testing.T) {
	store := memory.NewStore()
	failing := &failingParticipants{Store: store}
	d := &inlineDispatcher{}
	service := app.NewQuizService(app.Deps{
		Questions:    store,
		Participants: failing,
		Answers:      store,
		Badges:       store,
		Session:      memory.NewSessionStore(),
		Labels:       store,
		Dispatcher:   d,
		Logger:       logging.Discard(),
	})
	d.handler = service.Evaluator()
	ctx := context.Background()
	admin := domain.WithAdmin(ctx)

	q, err := service.CreateQuestion(admin, app.QuestionInput{Text: "2 + 2?", Type: domain.QuestionMCQ, Options: []string{"3", "4"}, CorrectAnswer: ptr("4")})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	p, err := service.Login(ctx, app.LoginInput{EmployeeID: "E1", Name: "Alice", ManagerGroup: "Dana"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	failing.fail.Store(true)
	if _, err := service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "4"}); !errors.Is(err, errStatsDown) {
		t.Fatalf("expected stats failure to propagate, got %v", err)
	}
	if answered, _ := service.HasAnswered(ctx, p.ID, q.ID); answered {
		t.Fatalf("failed submission must not leave an answer behind")
	}

	failing.fail.Store(false)
	if _, err := service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "4"}); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if d.calls.Load() != 1 {
		t.Fatalf("expected one badge job after the successful retry, got %d", d.calls.Load())
	}
}

func TestBadgeFailureDoesNotFailSubmission(t *testing.T) {
	store := memory.NewStore()
	d := &inlineDispatcher{handler: failingHandler{}}
	service := app.NewQuizService(app.Deps{
		Questions: store, Participants: store, Answers: store, Badges: store, Labels: store,
		Session: memory.NewSessionStore(), Dispatcher: d, Logger: logging.Discard(),
	})
	ctx := context.Background()

	q, _ := service.CreateQuestion(domain.WithAdmin(ctx), app.QuestionInput{Text: "Yes?", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("true")})
	p, _ := service.Login(ctx, app.LoginInput{EmployeeID: "E1", Name: "Alice", ManagerGroup: "Dana"})

	res, err := service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "True"})
	if err != nil {
		t.Fatalf("submission should succeed despite badge failure: %v", err)
	}
	if res.Participant.Points != 10 {
		t.Fatalf("expected default 10 points, got %d", res.Participant.Points)
	}
}

func TestLoginIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.login(t, "E1", "Alice", "Dana")
	if err := env.service.Logout(ctx, first.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	second := env.login(t, " E1 ", "Alice", "Dana")
	if second.ID != first.ID || !second.Active {
		t.Fatalf("expected same active participant, got %+v vs %+v", second, first)
	}
	if _, err := env.service.Login(ctx, app.LoginInput{EmployeeID: "E2"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.service.CreateQuestion(ctx, app.QuestionInput{Text: "x", Type: domain.QuestionPoll}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized create, got %v", err)
	}
	if _, err := env.service.StartQuestion(ctx, "q1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized start, got %v", err)
	}
	if _, err := env.service.ClearAll(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized clear, got %v", err)
	}
	if _, err := env.service.CreateLabel(ctx, domain.LabelManager, "Dana"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized label create, got %v", err)
	}
}

func TestQuestionValidationRules(t *testing.T) {
	env := newTestEnv(t)
	admin := domain.WithAdmin(context.Background())

	cases := []struct {
		name string
		in   app.QuestionInput
	}{
		{"mcq needs two options", app.QuestionInput{Text: "x", Type: domain.QuestionMCQ, Options: []string{"a"}, CorrectAnswer: ptr("a")}},
		{"mcq answer must be an option", app.QuestionInput{Text: "x", Type: domain.QuestionMCQ, Options: []string{"a", "b"}, CorrectAnswer: ptr("c")}},
		{"true false answer", app.QuestionInput{Text: "x", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("maybe")}},
		{"poll has no answer", app.QuestionInput{Text: "x", Type: domain.QuestionPoll, CorrectAnswer: ptr("a")}},
		{"unknown type", app.QuestionInput{Text: "x", Type: "Essay"}},
		{"missing text", app.QuestionInput{Type: domain.QuestionWordCloud}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.service.CreateQuestion(admin, tc.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	q, err := env.service.CreateQuestion(admin, app.QuestionInput{Text: "Is Go fun?", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("true")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(q.Options) != 2 || q.Points != 10 || q.Category != "General" {
		t.Fatalf("expected defaults applied, got %+v", q)
	}
}

func TestStartQuestionAndDeleteActive(t *testing.T) {
	env := newTestEnv(t)
	admin := domain.WithAdmin(context.Background())

	q := env.question(t, app.QuestionInput{Text: "Word?", Type: domain.QuestionWordCloud})
	session, err := env.service.StartQuestion(admin, q.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.ActiveQuestion == nil || session.ActiveQuestion.ID != q.ID || session.QuestionStartedAt == nil {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.ActiveQuestion.TimesLaunched != 1 {
		t.Fatalf("expected launch counter 1, got %d", session.ActiveQuestion.TimesLaunched)
	}

	if err := env.service.DeleteQuestion(admin, q.ID); !errors.Is(err, domain.ErrQuestionActive) {
		t.Fatalf("expected active question delete to fail, got %v", err)
	}
	if err := env.service.EndQuestion(admin); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := env.service.DeleteQuestion(admin, q.ID); err != nil {
		t.Fatalf("delete after end: %v", err)
	}
	if _, err := env.service.StartQuestion(admin, q.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearResponsesKeepsParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := domain.WithAdmin(ctx)

	q := env.question(t, app.QuestionInput{Text: "Yes?", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("true")})
	p := env.login(t, "E1", "Alice", "Dana")
	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "true"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	res, err := env.service.ClearResponses(admin)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if res.AnswersDeleted != 1 || res.PointsReset != 1 {
		t.Fatalf("unexpected clear result %+v", res)
	}
	got, err := env.service.Participant(ctx, p.ID)
	if err != nil {
		t.Fatalf("participant should survive: %v", err)
	}
	if got.Points != 0 || got.QuestionsAnswered != 1 || len(got.Badges) == 0 {
		t.Fatalf("expected points reset with counters and badges kept, got %+v", got)
	}
	if _, err := env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "true"}); err != nil {
		t.Fatalf("answering again after clear: %v", err)
	}
}

func TestClearAllRaisesFlagDuringHold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := domain.WithAdmin(ctx)

	q := env.question(t, app.QuestionInput{Text: "Yes?", Type: domain.QuestionTrueFalse, CorrectAnswer: ptr("true")})
	p := env.login(t, "E1", "Alice", "Dana")
	_, _ = env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: p.ID, QuestionID: q.ID, Answer: "true"})

	var held time.Duration
	var observed bool
	env.service.SetSleep(func(ctx context.Context, d time.Duration) error {
		held = d
		s, err := env.service.Session(ctx)
		if err != nil {
			return err
		}
		observed = s.ClearAllTriggered
		return nil
	})

	res, err := env.service.ClearAll(admin)
	if err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if !observed || held < app.MinClearAllHold {
		t.Fatalf("expected flag visible for at least %v, observed=%v held=%v", app.MinClearAllHold, observed, held)
	}
	if res.AnswersDeleted != 1 || res.ParticipantsDeleted != 1 {
		t.Fatalf("unexpected clear result %+v", res)
	}
	session, _ := env.service.Session(ctx)
	if session.ClearAllTriggered {
		t.Fatalf("expected flag lowered after clear")
	}
	if _, err := env.service.Participant(ctx, p.ID); !errors.Is(err, domain.ErrParticipantNotFound) {
		t.Fatalf("expected participant removed, got %v", err)
	}
}

func TestClearAllHoldRaisedToMinimum(t *testing.T) {
	cases := []struct {
		configured time.Duration
		want       time.Duration
	}{
		{configured: 0, want: 3 * time.Second},
		{configured: time.Second, want: app.MinClearAllHold},
		{configured: 5 * time.Second, want: 5 * time.Second},
	}
	for _, tc := range cases {
		store := memory.NewStore()
		service := app.NewQuizService(app.Deps{
			Questions:    store,
			Participants: store,
			Answers:      store,
			Badges:       store,
			Session:      memory.NewSessionStore(),
			Labels:       store,
			Dispatcher:   &inlineDispatcher{},
			Logger:       logging.Discard(),
			ClearAllHold: tc.configured,
		})
		var held time.Duration
		service.SetSleep(func(ctx context.Context, d time.Duration) error {
			held = d
			return nil
		})
		if _, err := service.ClearAll(domain.WithAdmin(context.Background())); err != nil {
			t.Fatalf("clear all: %v", err)
		}
		if held != tc.want {
			t.Fatalf("configured %v: expected hold %v, got %v", tc.configured, tc.want, held)
		}
	}
}

func TestClearAllLowersFlagWhenCancelled(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(domain.WithAdmin(context.Background()))
	env.service.SetSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})

	if _, err := env.service.ClearAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	session, _ := env.service.Session(context.Background())
	if session.ClearAllTriggered {
		t.Fatalf("flag must be lowered even when the hold is interrupted")
	}
}

func TestLabelsAndSeeding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := domain.WithAdmin(ctx)

	categories, err := env.service.Labels(ctx, domain.LabelCategory)
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if len(categories) != len(app.DefaultCategories) {
		t.Fatalf("expected default categories, got %d", len(categories))
	}
	if err := env.service.SeedReferenceData(ctx); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	badges, _ := env.service.ListBadges(ctx)
	if len(badges) != len(app.ReferenceBadges()) {
		t.Fatalf("reseed must not duplicate badges, got %d", len(badges))
	}

	m, err := env.service.CreateLabel(admin, domain.LabelManager, "Dana")
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}
	if _, err := env.service.CreateLabel(admin, domain.LabelManager, "Dana"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	env.login(t, "E1", "Alice", "Dana")
	env.login(t, "E2", "Bob", "Eve")
	team, err := env.service.ParticipantsByManager(ctx, m.ID)
	if err != nil {
		t.Fatalf("team: %v", err)
	}
	if len(team) != 1 || team[0].EmployeeID != "E1" {
		t.Fatalf("unexpected team %+v", team)
	}
}

func TestDashboardAndQuestionStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	q := env.question(t, app.QuestionInput{Text: "2 + 2?", Type: domain.QuestionMCQ, Options: []string{"3", "4"}, CorrectAnswer: ptr("4")})
	a := env.login(t, "E1", "Alice", "Dana")
	b := env.login(t, "E2", "Bob", "Dana")
	_, _ = env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: a.ID, QuestionID: q.ID, Answer: "4", LatencyMs: ms(2000)})
	_, _ = env.service.SubmitAnswer(ctx, app.SubmitInput{ParticipantID: b.ID, QuestionID: q.ID, Answer: "3", LatencyMs: ms(4000)})

	d, err := env.service.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TotalParticipants != 2 || d.TotalAnswers != 2 || d.TotalQuestions != 1 || d.AvgResponseSeconds != 3 || d.AvgAccuracy != 50 {
		t.Fatalf("unexpected dashboard %+v", d)
	}

	st, err := env.service.QuestionStats(ctx, q.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalAnswers != 2 || st.CorrectAnswers != 1 || st.Accuracy != 50 || st.Distribution["4"] != 1 {
		t.Fatalf("unexpected question stats %+v", st)
	}
}

type testEnv struct {
	service *app.QuizService
	store   *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	d := &inlineDispatcher{}
	service := app.NewQuizService(app.Deps{
		Questions:    store,
		QuestionView: memory.NewQuestionCache(store, time.Minute),
		Participants: store,
		Answers:      store,
		Badges:       store,
		Session:      memory.NewSessionStore(),
		Labels:       store,
		Dispatcher:   d,
		Logger:       logging.Discard(),
	})
	d.handler = service.Evaluator()
	if err := service.SeedReferenceData(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &testEnv{service: service, store: store}
}

func (e *testEnv) question(t *testing.T, in app.QuestionInput) domain.Question {
	t.Helper()
	q, err := e.service.CreateQuestion(domain.WithAdmin(context.Background()), in)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func (e *testEnv) login(t *testing.T, employeeID, name, manager string) domain.Participant {
	t.Helper()
	p, err := e.service.Login(context.Background(), app.LoginInput{EmployeeID: employeeID, Name: name, ManagerGroup: manager})
	if err != nil {
		t.Fatalf("login %s: %v", employeeID, err)
	}
	return p
}

// inlineDispatcher runs jobs on the caller's goroutine so tests can assert on
// badge state right after a call returns.
type inlineDispatcher struct {
	handler app.JobHandler
	calls   atomic.Int32
}

func (d *inlineDispatcher) Dispatch(ctx context.Context, job app.BadgeJob) {
	d.calls.Add(1)
	_ = app.RunJob(ctx, d.handler, job)
}

var errStatsDown = errors.New("stats store down")

type failingParticipants struct {
	*memory.Store
	fail atomic.Bool
}

func (f *failingParticipants) IncrementStats(ctx context.Context, id string, delta domain.StatDelta, at time.Time) (domain.Participant, error) {
	if f.fail.Load() {
		return domain.Participant{}, errStatsDown
	}
	return f.Store.IncrementStats(ctx, id, delta, at)
}

type failingHandler struct{}

func (failingHandler) Handle(context.Context, app.BadgeJob) error {
	panic("badge store unavailable")
}

func hasBadgeNamed(views []domain.BadgeView, name string) bool {
	for _, v := range views {
		if v.Name == name {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }

func ms(v int64) *int64 { return &v }
