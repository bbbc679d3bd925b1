package app

import (
	"math"
	"sort"

	"quizpulse-service/internal/domain"
)

// Standing is a participant plus the answer-derived figures ranking needs.
type Standing struct {
	Participant  domain.Participant
	AvgLatencyMs int64
}

// RankOptions selects the view. Alternate sort keys skip the latency tie-break.
type RankOptions struct {
	ManagerGroup string
	SortBy       domain.SortKey
	Limit        int
}

// Rank orders standings and assigns competition ranks: tied rows share a rank
// and the next distinct row gets 1 + the number of rows strictly ahead of it.
func Rank(standings []Standing, opts RankOptions) []domain.RankedEntry {
	rows := make([]Standing, 0, len(standings))
	for _, s := range standings {
		if opts.ManagerGroup != "" && s.Participant.ManagerGroup != opts.ManagerGroup {
			continue
		}
		rows = append(rows, s)
	}

	cmp := comparator(opts.SortBy)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := cmp(rows[i], rows[j]); c != 0 {
			return c < 0
		}
		// Display order only; does not affect rank.
		if rows[i].Participant.Name != rows[j].Participant.Name {
			return rows[i].Participant.Name < rows[j].Participant.Name
		}
		return rows[i].Participant.ID < rows[j].Participant.ID
	})

	entries := make([]domain.RankedEntry, 0, len(rows))
	for i, s := range rows {
		rank := i + 1
		if i > 0 && cmp(rows[i-1], s) == 0 {
			rank = entries[i-1].Rank
		}
		p := s.Participant
		entries = append(entries, domain.RankedEntry{
			Rank:              rank,
			ParticipantID:     p.ID,
			EmployeeID:        p.EmployeeID,
			Name:              p.Name,
			ManagerGroup:      p.ManagerGroup,
			Points:            p.Points,
			QuestionsAnswered: p.QuestionsAnswered,
			CorrectAnswers:    p.CorrectAnswers,
			Accuracy:          p.Accuracy,
			AvgLatencyMs:      s.AvgLatencyMs,
		})
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

// comparator returns a three-way compare where negative means "ranks ahead".
func comparator(key domain.SortKey) func(a, b Standing) int {
	switch key {
	case domain.SortByAccuracy:
		return func(a, b Standing) int {
			if c := desc(a.Participant.Accuracy, b.Participant.Accuracy); c != 0 {
				return c
			}
			return desc(a.Participant.Points, b.Participant.Points)
		}
	case domain.SortByQuestions:
		return func(a, b Standing) int {
			if c := desc(a.Participant.QuestionsAnswered, b.Participant.QuestionsAnswered); c != 0 {
				return c
			}
			return desc(a.Participant.Points, b.Participant.Points)
		}
	default:
		return func(a, b Standing) int {
			if c := desc(a.Participant.Points, b.Participant.Points); c != 0 {
				return c
			}
			switch {
			case a.AvgLatencyMs < b.AvgLatencyMs:
				return -1
			case a.AvgLatencyMs > b.AvgLatencyMs:
				return 1
			}
			return 0
		}
	}
}

func desc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// Totals are per-participant figures recomputed from persisted answers.
type Totals struct {
	Points            int
	QuestionsAnswered int
	CorrectAnswers    int
	AvgLatencyMs      int64
}

// TotalsFromAnswers rebuilds every participant's totals from the answer log.
// Only graded answers count toward points and the answered/correct counters;
// every answer with a positive latency counts toward the average.
func TotalsFromAnswers(answers []domain.Answer) map[string]Totals {
	type acc struct {
		Totals
		latencySum int64
		timed      int64
	}
	byParticipant := make(map[string]*acc)
	for _, a := range answers {
		t, ok := byParticipant[a.ParticipantID]
		if !ok {
			t = &acc{}
			byParticipant[a.ParticipantID] = t
		}
		if a.Graded() {
			t.QuestionsAnswered++
			t.Points += a.PointsEarned
			if *a.IsCorrect {
				t.CorrectAnswers++
			}
		}
		if ms, ok := a.TimedLatency(); ok {
			t.latencySum += ms
			t.timed++
		}
	}

	out := make(map[string]Totals, len(byParticipant))
	for id, t := range byParticipant {
		t.AvgLatencyMs = domain.NoLatency
		if t.timed > 0 {
			t.AvgLatencyMs = int64(math.Round(float64(t.latencySum) / float64(t.timed)))
		}
		out[id] = t.Totals
	}
	return out
}

// Standings joins participants with their answer-derived average latency.
func Standings(participants []domain.Participant, totals map[string]Totals) []Standing {
	out := make([]Standing, 0, len(participants))
	for _, p := range participants {
		avg := domain.NoLatency
		if t, ok := totals[p.ID]; ok {
			avg = t.AvgLatencyMs
		}
		out = append(out, Standing{Participant: p, AvgLatencyMs: avg})
	}
	return out
}
