package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/adherence/narrative"
	"github.com/2beens/adherence/internal/telemetry/metrics"
	"github.com/2beens/adherence/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=service_test

const (
	sourceTracker  = "tracker"
	sourceSample   = "sample"
	sourceEvaluate = "evaluate"

	DefaultMaxRangeDays = 42
)

var (
	ErrMissingUser  = errors.New("missing user id")
	ErrMissingDate  = errors.New("missing date")
	ErrInvalidRange = errors.New("invalid date range")
	ErrRangeTooLong = errors.New("date range too long")
)

type logsRepo interface {
	DayLogs(ctx context.Context, userID string, from, to time.Time) ([]adherence.DayLogs, error)
}

type sampleSource interface {
	DayLogs(from, to time.Time) []adherence.DayLogs
}

type DayResult struct {
	UserID string                 `json:"userId,omitempty"`
	Day    adherence.DayAdherence `json:"day"`
	Report narrative.Report       `json:"report"`
}

type MicrocycleResult struct {
	UserID     string                        `json:"userId"`
	From       time.Time                     `json:"from"`
	To         time.Time                     `json:"to"`
	Microcycle adherence.MicrocycleAdherence `json:"microcycle"`
	Report     narrative.Report              `json:"report"`
	IsSample   bool                          `json:"isSample"`
}

type Option func(*Service)

func WithCache(cache *Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithSampleFallback makes Microcycle answer with the sample dataset
// when the user has fewer than adherence.MinTrendDays days with data.
func WithSampleFallback(sample sampleSource) Option {
	return func(s *Service) {
		s.sample = sample
	}
}

func WithMaxRangeDays(days int) Option {
	return func(s *Service) {
		s.maxRangeDays = days
	}
}

type Service struct {
	repo           logsRepo
	weights        adherence.Weights
	cache          *Cache
	sample         sampleSource
	maxRangeDays   int
	metricsManager *metrics.Manager
}

func NewService(
	repo logsRepo,
	weights adherence.Weights,
	metricsManager *metrics.Manager,
	opts ...Option,
) *Service {
	s := &Service{
		repo:           repo,
		weights:        weights,
		maxRangeDays:   DefaultMaxRangeDays,
		metricsManager: metricsManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Day(ctx context.Context, userID string, date time.Time) (_ *DayResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.adherence.day")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if userID == "" {
		return nil, ErrMissingUser
	}
	if date.IsZero() {
		return nil, ErrMissingDate
	}
	date = adherence.DayOf(date)
	span.SetAttributes(attribute.String("user", userID), attribute.String("date", date.Format(time.DateOnly)))

	logs, err := s.repo.DayLogs(ctx, userID, date, date)
	if err != nil {
		return nil, fmt.Errorf("get day logs: %w", err)
	}

	dayLogs := byDate(logs, date, date)[0]
	day := s.scoreDay(ctx, dayLogs, s.weights, sourceTracker)

	return &DayResult{
		UserID: userID,
		Day:    day,
		Report: narrative.NarrateDay(day),
	}, nil
}

func (s *Service) Microcycle(ctx context.Context, userID string, from, to time.Time) (_ *MicrocycleResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.adherence.microcycle")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if userID == "" {
		return nil, ErrMissingUser
	}
	from, to = adherence.DayOf(from), adherence.DayOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	rangeDays := adherence.DaySpan(from, to)
	if rangeDays > s.maxRangeDays {
		return nil, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, rangeDays, s.maxRangeDays)
	}
	span.SetAttributes(attribute.String("user", userID), attribute.Int("days", rangeDays))
	if s.metricsManager != nil {
		s.metricsManager.HistogramRangeDays.Observe(float64(rangeDays))
	}

	logs, err := s.repo.DayLogs(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get microcycle logs: %w", err)
	}

	microcycle := s.rollup(ctx, byDate(logs, from, to), sourceTracker)
	isSample := false
	if microcycle.DaysWithData() < adherence.MinTrendDays && s.sample != nil {
		log.Debugf("user %s has %d days with data in %s..%s, falling back to sample data",
			userID, microcycle.DaysWithData(), from.Format(time.DateOnly), to.Format(time.DateOnly))
		microcycle = s.rollup(ctx, s.sample.DayLogs(from, to), sourceSample)
		isSample = true
		if s.metricsManager != nil {
			s.metricsManager.CounterSampleFallbacks.Inc()
		}
	}
	span.SetAttributes(attribute.Bool("sample", isSample))

	return &MicrocycleResult{
		UserID:     userID,
		From:       from,
		To:         to,
		Microcycle: microcycle,
		Report:     narrative.NarrateMicrocycle(microcycle),
		IsSample:   isSample,
	}, nil
}

// Evaluate scores caller supplied logs. Nil weights mean the configured ones.
func (s *Service) Evaluate(ctx context.Context, logs adherence.DayLogs, weights *adherence.Weights) (_ *DayResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.adherence.evaluate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if logs.Date.IsZero() {
		return nil, ErrMissingDate
	}
	logs.Date = adherence.DayOf(logs.Date)

	w := s.weights
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, err
		}
		w = *weights
	}

	day := s.scoreDay(ctx, logs, w, sourceEvaluate)
	return &DayResult{
		Day:    day,
		Report: narrative.NarrateDay(day),
	}, nil
}

func (s *Service) rollup(ctx context.Context, logs []adherence.DayLogs, source string) adherence.MicrocycleAdherence {
	days := make([]adherence.DayAdherence, 0, len(logs))
	for _, l := range logs {
		days = append(days, s.scoreDay(ctx, l, s.weights, source))
	}
	return adherence.Rollup(days)
}

func (s *Service) scoreDay(ctx context.Context, logs adherence.DayLogs, w adherence.Weights, source string) adherence.DayAdherence {
	var key string
	if s.cache != nil {
		var err error
		if key, err = CacheKey(logs, w); err != nil {
			log.Errorf("day score cache key: %s", err)
		} else if cached, found := s.cache.Get(ctx, key); found {
			return *cached
		}
	}

	day := adherence.BuildDay(logs, w)
	if s.metricsManager != nil {
		s.metricsManager.CounterDaysScored.WithLabelValues(source).Inc()
		if day.HasData {
			s.metricsManager.HistogramGlobalAccuracy.Observe(day.GlobalAccuracy)
		}
	}

	if s.cache != nil && key != "" {
		s.cache.Set(ctx, key, day)
	}
	return day
}

// byDate returns one DayLogs per date in [from, to], empty where the repo had nothing.
func byDate(logs []adherence.DayLogs, from, to time.Time) []adherence.DayLogs {
	indexed := make(map[time.Time]adherence.DayLogs, len(logs))
	for _, l := range logs {
		indexed[adherence.DayOf(l.Date)] = l
	}

	dates := adherence.DateRange(from, to)
	ordered := make([]adherence.DayLogs, 0, len(dates))
	for _, d := range dates {
		l, ok := indexed[d]
		if !ok {
			l = adherence.DayLogs{}
		}
		l.Date = d
		ordered = append(ordered, l)
	}
	return ordered
}
