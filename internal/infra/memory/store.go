package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/domain"
)

// Store keeps every record in process memory behind one lock. It implements the
// question, participant, answer, badge and label stores and is used for demos and tests.
type Store struct {
	mu sync.RWMutex

	questions    map[string]domain.Question
	participants map[string]*domain.Participant
	byEmployee   map[string]string
	answers      map[string]domain.Answer
	answerKeys   map[answerKey]string
	badges       map[string]domain.Badge
	labels       map[string]domain.Label
}

type answerKey struct {
	participantID string
	questionID    string
}

func NewStore() *Store {
	return &Store{
		questions:    make(map[string]domain.Question),
		participants: make(map[string]*domain.Participant),
		byEmployee:   make(map[string]string),
		answers:      make(map[string]domain.Answer),
		answerKeys:   make(map[answerKey]string),
		badges:       make(map[string]domain.Badge),
		labels:       make(map[string]domain.Label),
	}
}

// Questions

func (s *Store) CreateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; ok {
		return domain.ErrConflict
	}
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

// LoadQuestion lets the Store back a QuestionCache.
func (s *Store) LoadQuestion(ctx context.Context, id string) (domain.Question, error) {
	return s.GetQuestion(ctx, id)
}

func (s *Store) ListQuestions(_ context.Context, category string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if category != "" && q.Category != category {
			continue
		}
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) MarkLaunched(_ context.Context, id string, at time.Time) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	q.TimesLaunched++
	q.LastLaunched = &at
	s.questions[id] = q
	return cloneQuestion(q), nil
}

func (s *Store) CountQuestions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions), nil
}

// Participants

func (s *Store) UpsertParticipant(_ context.Context, p domain.Participant) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byEmployee[p.EmployeeID]; ok {
		existing := s.participants[id]
		existing.LastActive = p.LastActive
		existing.Active = true
		return cloneParticipant(*existing), nil
	}
	stored := cloneParticipant(p)
	s.participants[p.ID] = &stored
	s.byEmployee[p.EmployeeID] = p.ID
	return cloneParticipant(stored), nil
}

func (s *Store) GetParticipant(_ context.Context, id string) (domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return cloneParticipant(*p), nil
}

func (s *Store) ListParticipants(_ context.Context, managerGroup string) ([]domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		if managerGroup != "" && p.ManagerGroup != managerGroup {
			continue
		}
		out = append(out, cloneParticipant(*p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *Store) IncrementStats(_ context.Context, id string, delta domain.StatDelta, at time.Time) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	p.QuestionsAnswered++
	p.Points += delta.Points
	if delta.Correct {
		p.CorrectAnswers++
	}
	p.Accuracy = domain.Accuracy(p.CorrectAnswers, p.QuestionsAnswered)
	p.LastActive = at
	return cloneParticipant(*p), nil
}

func (s *Store) ResetPoints(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participants {
		p.Points = 0
	}
	return len(s.participants), nil
}

func (s *Store) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Active = active
	p.LastActive = at
	return nil
}

func (s *Store) AwardBadge(_ context.Context, id, badgeID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return false, domain.ErrParticipantNotFound
	}
	if p.HasBadge(badgeID) {
		return false, nil
	}
	p.Badges = append(p.Badges, domain.EarnedBadge{BadgeID: badgeID, EarnedAt: at})
	return true, nil
}

func (s *Store) DeleteAllParticipants(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.participants)
	s.participants = make(map[string]*domain.Participant)
	s.byEmployee = make(map[string]string)
	return n, nil
}

// Answers

func (s *Store) InsertAnswer(_ context.Context, a domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := answerKey{participantID: a.ParticipantID, questionID: a.QuestionID}
	if _, ok := s.answerKeys[key]; ok {
		return domain.ErrDuplicateSubmission
	}
	s.answerKeys[key] = a.ID
	s.answers[a.ID] = a
	return nil
}

func (s *Store) DeleteAnswer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[id]
	if !ok {
		return nil
	}
	delete(s.answers, id)
	delete(s.answerKeys, answerKey{participantID: a.ParticipantID, questionID: a.QuestionID})
	return nil
}

func (s *Store) HasAnswered(_ context.Context, participantID, questionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.answerKeys[answerKey{participantID: participantID, questionID: questionID}]
	return ok, nil
}

func (s *Store) ListAnswers(_ context.Context, filter app.AnswerFilter) ([]domain.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		if filter.ParticipantID != "" && a.ParticipantID != filter.ParticipantID {
			continue
		}
		if filter.QuestionID != "" && a.QuestionID != filter.QuestionID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteAllAnswers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.answers)
	s.answers = make(map[string]domain.Answer)
	s.answerKeys = make(map[answerKey]string)
	return n, nil
}

// Badges

func (s *Store) ListBadges(_ context.Context) ([]domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Badge, 0, len(s.badges))
	for _, b := range s.badges {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetBadge(_ context.Context, id string) (domain.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.badges[id]
	if !ok {
		return domain.Badge{}, domain.ErrBadgeNotFound
	}
	return b, nil
}

func (s *Store) SeedBadges(_ context.Context, badges []domain.Badge) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make(map[string]struct{}, len(s.badges))
	for _, b := range s.badges {
		names[b.Name] = struct{}{}
	}
	added := 0
	for _, b := range badges {
		if _, ok := names[b.Name]; ok {
			continue
		}
		s.badges[b.ID] = b
		names[b.Name] = struct{}{}
		added++
	}
	return added, nil
}

// Labels

func (s *Store) ListLabels(_ context.Context, kind domain.LabelKind) ([]domain.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Label, 0)
	for _, l := range s.labels {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CreateLabel(_ context.Context, l domain.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTakenLocked(l.Kind, l.Name, "") {
		return domain.ErrConflict
	}
	s.labels[l.ID] = l
	return nil
}

func (s *Store) RenameLabel(_ context.Context, kind domain.LabelKind, id, name string) (domain.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.labels[id]
	if !ok || l.Kind != kind {
		return domain.Label{}, domain.ErrLabelNotFound
	}
	if s.nameTakenLocked(kind, name, id) {
		return domain.Label{}, domain.ErrConflict
	}
	l.Name = name
	s.labels[id] = l
	return l, nil
}

func (s *Store) DeleteLabel(_ context.Context, kind domain.LabelKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.labels[id]
	if !ok || l.Kind != kind {
		return domain.ErrLabelNotFound
	}
	delete(s.labels, id)
	return nil
}

func (s *Store) GetLabel(_ context.Context, kind domain.LabelKind, id string) (domain.Label, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.labels[id]
	if !ok || l.Kind != kind {
		return domain.Label{}, domain.ErrLabelNotFound
	}
	return l, nil
}

func (s *Store) nameTakenLocked(kind domain.LabelKind, name, exceptID string) bool {
	for id, l := range s.labels {
		if id != exceptID && l.Kind == kind && strings.EqualFold(l.Name, name) {
			return true
		}
	}
	return false
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	if q.CorrectAnswer != nil {
		c := *q.CorrectAnswer
		q.CorrectAnswer = &c
	}
	if q.LastLaunched != nil {
		t := *q.LastLaunched
		q.LastLaunched = &t
	}
	return q
}

func cloneParticipant(p domain.Participant) domain.Participant {
	p.Badges = append([]domain.EarnedBadge(nil), p.Badges...)
	return p
}
