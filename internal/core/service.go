package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
	"github.com/JonMunkholm/sheetquiz/internal/sheet"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// DefaultSessionTTL is how long a quiz session is kept when none is configured.
const DefaultSessionTTL = 2 * time.Hour

// ReloadTimeout bounds a single feed reload.
var ReloadTimeout = 30 * time.Second

// maxStatsHistory caps how many finished-session scores are kept.
const maxStatsHistory = 1000

// Options configures a Service.
type Options struct {
	SessionTTL time.Duration
	// Rand, when set, is used for random question order. It is guarded by
	// the service so a single seeded source may be shared.
	Rand *rand.Rand
}

// Service is the entry point for all quiz operations.
type Service struct {
	feed  Feed
	weak  *weak.List
	prefs *settings.Settings
	ttl   time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	reloads singleflight.Group

	mu       sync.RWMutex
	records  []sheet.Record
	subjects []string
	counts   map[string]int
	loadedAt time.Time
	lastErr  error

	sessMu   sync.RWMutex
	sessions map[string]*Session
	finished []float64
}

// NewService creates a Service. Nothing is fetched until Reload is called.
func NewService(feed Feed, weakList *weak.List, prefs *settings.Settings, opts Options) (*Service, error) {
	if feed == nil {
		return nil, errors.New("feed is required")
	}
	if weakList == nil || prefs == nil {
		return nil, errors.New("weak list and settings are required")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		feed:     feed,
		weak:     weakList,
		prefs:    prefs,
		ttl:      ttl,
		rng:      opts.Rand,
		counts:   map[string]int{},
		sessions: make(map[string]*Session),
	}, nil
}

// Reload fetches and parses the feed and swaps the record cache. Calls that
// overlap an in-flight reload wait for it and share its result. On failure
// the previous records stay in place.
//
// The shared fetch ignores ctx cancellation and is bounded by ReloadTimeout.
func (s *Service) Reload(ctx context.Context) (int, error) {
	v, err, shared := s.reloads.Do("reload", func() (any, error) {
		return s.reload(context.WithoutCancel(ctx))
	})
	if shared {
		logging.FromContext(ctx).Debug("joined in-flight reload")
	}
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Service) reload(ctx context.Context) (int, error) {
	logger := logging.WithFields(ctx, "source", s.feed.URL())
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, ReloadTimeout)
	defer cancel()

	records, err := s.feed.Fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		kept := len(s.records)
		s.mu.Unlock()

		logger.Error("feed load failed",
			"error", err,
			"kept_records", kept,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return 0, fmt.Errorf("reload: %w", err)
	}

	subjects := quiz.Subjects(records)
	counts := quiz.CountBySubject(records)

	s.mu.Lock()
	s.records = records
	s.subjects = subjects
	s.counts = counts
	s.loadedAt = time.Now()
	s.lastErr = nil
	s.mu.Unlock()

	logger.Info("feed loaded",
		"records", len(records),
		"subjects", len(subjects),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return len(records), nil
}

// Records returns the current record snapshot. The slice must not be modified.
func (s *Service) Records() []sheet.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Subjects returns the collated subject names with their question counts.
func (s *Service) Subjects() []SubjectInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SubjectInfo, len(s.subjects))
	for i, name := range s.subjects {
		out[i] = SubjectInfo{Name: name, Questions: s.counts[name]}
	}
	return out
}

// Status reports what the cache holds and how the last load went.
func (s *Service) Status() Status {
	s.mu.RLock()
	st := Status{
		Source:   s.feed.URL(),
		Loaded:   !s.loadedAt.IsZero(),
		Records:  len(s.records),
		Subjects: len(s.subjects),
		LoadedAt: s.loadedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()

	s.sessMu.RLock()
	st.Sessions = len(s.sessions)
	s.sessMu.RUnlock()

	return st
}

// BuildList runs quiz.BuildList against the current snapshot.
func (s *Service) BuildList(subject string, order quiz.Order, limit int) []quiz.Question {
	records := s.Records()

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return quiz.BuildList(records, subject, order, limit, s.rng)
}
