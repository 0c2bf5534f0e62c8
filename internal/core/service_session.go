package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionIndex is returned for a card position outside the session.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrUnknownChoice is returned for a letter with no option text.
	ErrUnknownChoice = errors.New("unknown choice")
	// ErrNoQuestions is returned when a subject has nothing to ask.
	ErrNoQuestions = errors.New("no questions for subject")
)

// StartQuiz builds a question list for subject and opens a session on it.
// Order and limit come from opts, falling back to the saved preferences.
func (s *Service) StartQuiz(ctx context.Context, subject string, opts StartOptions) (Session, error) {
	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		return Session{}, err
	}

	order := opts.Order
	if order == "" {
		order = prefs.Order
	}
	limit := quiz.ResolveLimit(opts.Limit, prefs.Limit)

	list := s.BuildList(subject, order, limit)
	if len(list) == 0 {
		return Session{}, fmt.Errorf("%w: %q", ErrNoQuestions, subject)
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.New().String(),
		Subject:   subject,
		Order:     order,
		Limit:     limit,
		Cards:     make([]Card, len(list)),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	for i, q := range list {
		sess.Cards[i] = Card{Index: i, Question: q}
	}

	s.sessMu.Lock()
	s.sessions[sess.ID] = sess
	snapshot := sess.clone()
	s.sessMu.Unlock()

	s.cleanup(sess.ID, s.ttl)

	logging.FromContext(ctx).Info("quiz started",
		"session_id", sess.ID,
		"subject", subject,
		"questions", len(list),
		"order", order,
		"limit", limit,
		"client_ip", ClientIPFromContext(ctx),
	)
	return snapshot, nil
}

// Session returns a snapshot of a running session.
func (s *Service) Session(id string) (Session, error) {
	s.sessMu.RLock()
	defer s.sessMu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess.clone(), nil
}

// Answer records a click on choice letter of card index. A wrong choice puts
// the question on the weak list.
func (s *Service) Answer(ctx context.Context, id string, index int, letter string) (AnswerResult, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))

	s.sessMu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.sessMu.Unlock()
		return AnswerResult{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if index < 0 || index >= len(sess.Cards) {
		s.sessMu.Unlock()
		return AnswerResult{}, fmt.Errorf("%w: %d (have %d)", ErrQuestionIndex, index, len(sess.Cards))
	}

	card := &sess.Cards[index]
	q := card.Question
	text := q.Option(letter)
	if text == "" {
		s.sessMu.Unlock()
		return AnswerResult{}, fmt.Errorf("%w: %q", ErrUnknownChoice, letter)
	}

	correct := quiz.IsCorrect(q, letter, text)
	wasFinished := sess.Finished()
	card.Marks = append(card.Marks, Mark{Letter: letter, Correct: correct})
	if !wasFinished && sess.Finished() {
		s.recordFinished(sess.Accuracy())
	}

	res := AnswerResult{
		Index:       index,
		Letter:      letter,
		Correct:     correct,
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Card:        sess.clone().Cards[index],
	}
	s.sessMu.Unlock()

	if correct {
		return res, nil
	}

	added, err := s.weak.Add(ctx, q)
	if err != nil {
		return res, err
	}
	res.AddedToWeak = added
	if added {
		logging.FromContext(ctx).Info("weak item added",
			"session_id", id,
			"subject", q.Subject,
			"id", q.ID,
		)
	}
	return res, nil
}

// recordFinished stores a finished session's score. Caller holds sessMu.
func (s *Service) recordFinished(accuracy float64) {
	s.finished = append(s.finished, accuracy)
	if over := len(s.finished) - maxStatsHistory; over > 0 {
		s.finished = append(s.finished[:0], s.finished[over:]...)
	}
}

// SessionStats summarizes the accuracy of finished sessions. With no
// finished sessions every field is zero.
func (s *Service) SessionStats() (Stats, error) {
	s.sessMu.RLock()
	data := stats.Float64Data(append([]float64(nil), s.finished...))
	s.sessMu.RUnlock()

	if len(data) == 0 {
		return Stats{}, nil
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Stats{}, fmt.Errorf("mean accuracy: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Stats{}, fmt.Errorf("median accuracy: %w", err)
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return Stats{}, fmt.Errorf("p90 accuracy: %w", err)
	}
	best, err := stats.Max(data)
	if err != nil {
		return Stats{}, fmt.Errorf("best accuracy: %w", err)
	}

	return Stats{
		Sessions: len(data),
		Mean:     mean,
		Median:   median,
		P90:      p90,
		Best:     best,
	}, nil
}

// cleanup drops a session after delay.
func (s *Service) cleanup(id string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.sessMu.Lock()
		delete(s.sessions, id)
		s.sessMu.Unlock()
	})
}
