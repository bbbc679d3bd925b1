package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"quizpulse-service/internal/domain"
)

// DefaultLeaderboardLimit caps leaderboard responses when no limit is given.
const DefaultLeaderboardLimit = 100

// Leaderboard ranks participants from their maintained aggregates, using the
// answer log only for the latency tie-break. The unfiltered points view also
// schedules rank-badge evaluation.
func (s *QuizService) Leaderboard(ctx context.Context, opts RankOptions) ([]domain.RankedEntry, error) {
	switch opts.SortBy {
	case "":
		opts.SortBy = domain.SortByPoints
	case domain.SortByPoints, domain.SortByAccuracy, domain.SortByQuestions:
	default:
		return nil, domain.Invalid("sortBy", "must be one of: points accuracy questions")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLeaderboardLimit
	}

	var (
		participants []domain.Participant
		answers      []domain.Answer
		catalog      []domain.Badge
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participants.ListParticipants(gctx, opts.ManagerGroup)
		return err
	})
	g.Go(func() error {
		var err error
		answers, err = s.answers.ListAnswers(gctx, AnswerFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = s.badges.ListBadges(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	byID := make(map[string]domain.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	ranked := Rank(Standings(participants, TotalsFromAnswers(answers)), opts)

	badges := indexBadges(catalog)
	for i := range ranked {
		ranked[i].Badges = badgeViews(byID[ranked[i].ParticipantID].Badges, badges)
	}

	if opts.ManagerGroup == "" && opts.SortBy == domain.SortByPoints {
		s.dispatcher.Dispatch(ctx, BadgeJob{Kind: JobRanks, Ranked: rankHolders(ranked)})
	}
	return ranked, nil
}

// rankHolders trims entries to what rank-badge evaluation reads.
func rankHolders(ranked []domain.RankedEntry) []domain.RankedEntry {
	out := make([]domain.RankedEntry, len(ranked))
	for i, e := range ranked {
		out[i] = domain.RankedEntry{Rank: e.Rank, ParticipantID: e.ParticipantID, Points: e.Points, QuestionsAnswered: e.QuestionsAnswered}
	}
	return out
}

// Divergence reports a participant whose aggregates disagree with the answer log.
type Divergence struct {
	ParticipantID string `json:"participantId"`
	EmployeeID    string `json:"employeeId"`
	Field         string `json:"field"`
	Aggregate     int    `json:"aggregate"`
	FromAnswers   int    `json:"fromAnswers"`
}

// Verify recomputes every participant's totals from persisted answers and
// reports where the maintained aggregates disagree.
func (s *QuizService) Verify(ctx context.Context) ([]Divergence, error) {
	participants, err := s.participants.ListParticipants(ctx, "")
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListAnswers(ctx, AnswerFilter{})
	if err != nil {
		return nil, err
	}
	totals := TotalsFromAnswers(answers)

	var out []Divergence
	for _, p := range participants {
		t := totals[p.ID]
		if p.Points != t.Points {
			out = append(out, Divergence{ParticipantID: p.ID, EmployeeID: p.EmployeeID, Field: "points", Aggregate: p.Points, FromAnswers: t.Points})
		}
		// Counters survive a responses-only clear, so they may only exceed the log.
		if p.QuestionsAnswered < t.QuestionsAnswered {
			out = append(out, Divergence{ParticipantID: p.ID, EmployeeID: p.EmployeeID, Field: "questionsAnswered", Aggregate: p.QuestionsAnswered, FromAnswers: t.QuestionsAnswered})
		}
		if p.CorrectAnswers < t.CorrectAnswers {
			out = append(out, Divergence{ParticipantID: p.ID, EmployeeID: p.EmployeeID, Field: "correctAnswers", Aggregate: p.CorrectAnswers, FromAnswers: t.CorrectAnswers})
		}
	}
	return out, nil
}
