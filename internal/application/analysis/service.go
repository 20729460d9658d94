// Package analysis orchestrates the full company analysis: source fetch,
// normalization, scoring, prediction, cliff projection, and alerting.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/medequity/pharmarisk/internal/application/alerting"
	"github.com/medequity/pharmarisk/internal/application/approval"
	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/application/normalize"
	"github.com/medequity/pharmarisk/internal/application/risk"
	"github.com/medequity/pharmarisk/internal/domain/company"
	"github.com/medequity/pharmarisk/internal/domain/patent"
	"github.com/medequity/pharmarisk/internal/domain/regulatory"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/redis"
	"github.com/medequity/pharmarisk/internal/infrastructure/messaging/kafka"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/prometheus"
	"github.com/medequity/pharmarisk/pkg/errors"
	"github.com/medequity/pharmarisk/pkg/types/common"
)

// CompanyProvider resolves ticker reference data.
type CompanyProvider interface {
	GetByTicker(ctx context.Context, ticker string) (company.Company, error)
}

// AlertPublisher pushes generated alerts onto the stream.
type AlertPublisher interface {
	Publish(ctx context.Context, topic string, env kafka.EventEnvelope) error
}

// Dashboard is the combined analysis result for one company.  Impact is nil
// when the company has no revenue data; ImpactNote carries the reason.
type Dashboard struct {
	Company             company.Company       `json:"company"`
	Risk                risk.Assessment       `json:"risk"`
	Approvals           []approval.Prediction `json:"approvals"`
	PendingApplications int                   `json:"pending_applications"`
	AverageProbability  float64               `json:"average_probability"`
	PatentCliff         cliff.Timeline        `json:"patent_cliff"`
	Impact              *cliff.Impact         `json:"impact,omitempty"`
	ImpactNote          string                `json:"impact_note,omitempty"`
	Alerts              []alerting.Alert      `json:"alerts"`
	GeneratedAt         common.Timestamp      `json:"generated_at"`
}

// Service is the analysis application contract the interfaces layer calls.
type Service interface {
	AnalyzeRisk(ctx context.Context, ticker string) (risk.Assessment, error)
	PredictApprovals(ctx context.Context, ticker string) ([]approval.Prediction, error)
	AnalyzePatentCliffs(ctx context.Context, ticker string) (cliff.Timeline, error)
	ProjectImpact(ctx context.Context, ticker string) (cliff.Impact, error)
	GenerateAlerts(ctx context.Context, ticker string) ([]alerting.Alert, error)
	GetDashboard(ctx context.Context, ticker string) (Dashboard, error)
}

// Options carries the service tunables.
type Options struct {
	// ResultTTL bounds dashboard memoization.  Default 1h.
	ResultTTL time.Duration
}

type service struct {
	companies CompanyProvider
	events    EventSource
	patents   normalize.PatentSource

	scorer    *risk.Scorer
	predictor *approval.Predictor
	cliffs    *cliff.Analyzer
	alerts    *alerting.Generator

	cache     redis.Cache
	publisher AlertPublisher
	metrics   *prometheus.Metrics
	logger    logging.Logger

	resultTTL time.Duration
	now       func() time.Time
}

// NewService wires the analysis pipeline.  cache, publisher, and metrics may
// be nil; the corresponding concern is skipped.
func NewService(
	companies CompanyProvider,
	events EventSource,
	patents normalize.PatentSource,
	scorer *risk.Scorer,
	predictor *approval.Predictor,
	cliffs *cliff.Analyzer,
	generator *alerting.Generator,
	cache redis.Cache,
	publisher AlertPublisher,
	metrics *prometheus.Metrics,
	logger logging.Logger,
	opts Options,
) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.ResultTTL == 0 {
		opts.ResultTTL = time.Hour
	}
	return &service{
		companies: companies,
		events:    events,
		patents:   patents,
		scorer:    scorer,
		predictor: predictor,
		cliffs:    cliffs,
		alerts:    generator,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("analysis"),
		resultTTL: opts.ResultTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// inputs is the full normalized input set for one analysis run.
type inputs struct {
	company company.Company
	events  []regulatory.Event
	patents []patent.Patent
	now     time.Time
	hash    string
}

func (s *service) loadInputs(ctx context.Context, ticker string) (inputs, error) {
	now := s.now()

	c, err := s.companies.GetByTicker(ctx, ticker)
	if err != nil {
		return inputs{}, err
	}

	events, err := s.events.FetchEvents(ctx, c.Ticker, now)
	if err != nil {
		return inputs{}, err
	}

	pats, err := s.patents.FetchPatents(ctx, c.Ticker)
	if err != nil {
		return inputs{}, errors.Wrap(err, errors.ErrCodeSourceUnavailable, "fetch patents for %s", c.Ticker)
	}

	in := inputs{company: c, events: events, patents: pats, now: now}
	in.hash = inputHash(in)
	return in, nil
}

// inputHash fingerprints the normalized inputs.  Events and patents are
// hashed in a canonical order so feed ordering does not defeat memoization.
func inputHash(in inputs) string {
	events := make([]regulatory.Event, len(in.events))
	copy(events, in.events)
	for i := range events {
		events[i].ID = "" // regenerated every fetch, not part of identity
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		if events[i].Kind != events[j].Kind {
			return events[i].Kind < events[j].Kind
		}
		return events[i].Descriptor < events[j].Descriptor
	})

	pats := make([]patent.Patent, len(in.patents))
	copy(pats, in.patents)
	sort.Slice(pats, func(i, j int) bool { return pats[i].Number < pats[j].Number })

	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(in.company)
	_ = enc.Encode(events)
	_ = enc.Encode(pats)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *service) observe(op string, err error, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveAnalysis(op, err, time.Since(started))
	}
}

func (s *service) AnalyzeRisk(ctx context.Context, ticker string) (risk.Assessment, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("risk", err, started)
		return risk.Assessment{}, err
	}
	out := s.scorer.Score(in.company.Ticker, in.events, in.now)
	s.observe("risk", nil, started)
	return out, nil
}

func (s *service) PredictApprovals(ctx context.Context, ticker string) ([]approval.Prediction, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("approvals", err, started)
		return nil, err
	}
	out := s.predictor.Predict(in.events, in.now)
	s.observe("approvals", nil, started)
	return out, nil
}

func (s *service) AnalyzePatentCliffs(ctx context.Context, ticker string) (cliff.Timeline, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("cliffs", err, started)
		return cliff.Timeline{}, err
	}
	out := s.cliffs.BuildTimeline(in.company.Ticker, in.patents, in.now)
	s.observe("cliffs", nil, started)
	return out, nil
}

func (s *service) ProjectImpact(ctx context.Context, ticker string) (cliff.Impact, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("impact", err, started)
		return cliff.Impact{}, err
	}
	out, err := s.cliffs.ProjectImpact(in.company, in.patents, in.now)
	s.observe("impact", err, started)
	return out, err
}

func (s *service) GenerateAlerts(ctx context.Context, ticker string) ([]alerting.Alert, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("alerts", err, started)
		return nil, err
	}
	tl := s.cliffs.BuildTimeline(in.company.Ticker, in.patents, in.now)
	out := s.alerts.Generate(in.company.Ticker, in.events, tl.MajorCliffs, in.now)
	s.publishAlerts(ctx, in.company.Ticker, out)
	s.observe("alerts", nil, started)
	return out, nil
}

// GetDashboard runs the whole pipeline once over a single input snapshot.
// Results are memoized per (ticker, input fingerprint), so a repeat call
// with unchanged inputs is a cache read; any input change produces a new key
// and a fresh computation.
func (s *service) GetDashboard(ctx context.Context, ticker string) (Dashboard, error) {
	started := time.Now()
	in, err := s.loadInputs(ctx, ticker)
	if err != nil {
		s.observe("dashboard", err, started)
		return Dashboard{}, err
	}

	key := "analysis:dashboard:" + in.company.Ticker + ":" + in.hash
	if s.cache != nil {
		var cached Dashboard
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheAccess("dashboard", true)
			}
			s.observe("dashboard", nil, started)
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheAccess("dashboard", false)
		}
	}

	dash := s.buildDashboard(ctx, in)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dash, s.resultTTL); err != nil {
			s.logger.Warn("dashboard cache write failed",
				logging.String("ticker", in.company.Ticker),
				logging.Err(err))
		}
	}
	s.observe("dashboard", nil, started)
	return dash, nil
}

func (s *service) buildDashboard(ctx context.Context, in inputs) Dashboard {
	timeline := s.cliffs.BuildTimeline(in.company.Ticker, in.patents, in.now)
	dash := Dashboard{
		Company:     in.company,
		Risk:        s.scorer.Score(in.company.Ticker, in.events, in.now),
		Approvals:   s.predictor.Predict(in.events, in.now),
		PatentCliff: timeline,
		Alerts:      s.alerts.Generate(in.company.Ticker, in.events, timeline.MajorCliffs, in.now),
		GeneratedAt: common.Timestamp(in.now),
	}

	dash.PendingApplications = len(dash.Approvals)
	if len(dash.Approvals) > 0 {
		sum := 0.0
		for _, p := range dash.Approvals {
			sum += p.Probability
		}
		dash.AverageProbability = sum / float64(len(dash.Approvals))
	}

	impact, err := s.cliffs.ProjectImpact(in.company, in.patents, in.now)
	switch {
	case err == nil:
		dash.Impact = &impact
	case errors.IsMissingRevenueData(err):
		dash.ImpactNote = errors.DefaultMessageForCode(errors.ErrCodeMissingRevenueData)
	default:
		s.logger.Error("impact projection failed",
			logging.String("ticker", in.company.Ticker),
			logging.Err(err))
		dash.ImpactNote = "impact projection unavailable"
	}

	s.publishAlerts(ctx, in.company.Ticker, dash.Alerts)
	return dash
}

// publishAlerts streams alerts best-effort; a broker outage degrades to a
// log line rather than failing the analysis.
func (s *service) publishAlerts(ctx context.Context, ticker string, alerts []alerting.Alert) {
	if s.publisher == nil {
		return
	}
	for _, a := range alerts {
		env, err := kafka.NewEnvelope("alert.generated", ticker, a)
		if err != nil {
			s.logger.Error("alert envelope encode failed", logging.Err(err))
			continue
		}
		if err := s.publisher.Publish(ctx, kafka.TopicAlertGenerated, env); err != nil {
			s.logger.Error("alert publish failed",
				logging.String("ticker", ticker),
				logging.Err(err))
			continue
		}
		if s.metrics != nil {
			s.metrics.AlertsGenerated.WithLabelValues(string(a.Type), string(a.Urgency)).Inc()
		}
	}
}
