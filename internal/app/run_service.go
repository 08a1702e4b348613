package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"state_notifier/internal/domain/homeassistant"
	"state_notifier/internal/domain/rule"
	"state_notifier/internal/domain/run"
	"state_notifier/internal/domain/webhook"
	idb "state_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Outcome captures the result of the delivery attempt within a run. Delivery
// failure is carried as data, not as an error: it is reported through the
// summary and the logs, and the run still exits cleanly.
type Outcome struct {
	Destination string
	Success     bool
	ErrorDetail string
	Timestamp   time.Time
}

// SummaryTarget is the optional secondary destination for run outcome reports.
type SummaryTarget struct {
	WebhookURL string
	TargetID   string
}

// Runner executes one gated notification run.
type Runner interface {
	// Execute performs the run: ledger gate, state fetch, rule resolution,
	// delivery, ledger commit, summary. A non-empty stateOverride skips the
	// Home Assistant fetch. A returned error is fatal for the run.
	Execute(ctx context.Context, stateOverride string) error
}

// RunService implements the Runner interface.
type RunService struct {
	runRepo  run.Repository
	source   homeassistant.Source
	client   webhook.Client
	rules    rule.Table
	entityID string
	summary  *SummaryTarget // nil when no summary destination is configured
	logger   *logrus.Logger
	now      func() time.Time
}

func NewRunService(
	rr run.Repository,
	src homeassistant.Source,
	wc webhook.Client,
	rules rule.Table,
	entityID string,
	summary *SummaryTarget,
	logger *logrus.Logger,
) *RunService {
	return &RunService{
		runRepo:  rr,
		source:   src,
		client:   wc,
		rules:    rules,
		entityID: entityID,
		summary:  summary,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute performs one gated notification run.
//
// Fatal errors (ledger unavailable, state fetch failure, no matching rule)
// abort immediately: no marker write, no summary, non-nil return. A failed
// delivery is not fatal: the marker is not written so a later invocation the
// same day can retry, the summary still goes out, and Execute returns nil.
func (s *RunService) Execute(ctx context.Context, stateOverride string) error {
	today := run.Date(s.now())

	existing, err := s.runRepo.GetByDate(ctx, today)
	if err != nil && err != idb.ErrRunNotFound {
		return fmt.Errorf("run ledger unavailable: %w", err)
	}
	if existing != nil {
		s.logger.Infof("Run already recorded for %s. Skipping re-execution.", today)
		return nil
	}

	state := stateOverride
	if state == "" {
		state, err = s.source.EntityState(ctx, s.entityID)
		if err != nil {
			return fmt.Errorf("failed to fetch entity state: %w", err)
		}
		s.logger.Infof("Entity state identified as %q", state)
	} else {
		state = strings.ToLower(state)
		s.logger.Infof("Entity state manually set to %q. Skipping entity discovery.", state)
	}

	matched, err := s.rules.Resolve(state)
	if err != nil {
		return fmt.Errorf("no delivery rule for state %q: %w", state, err)
	}
	s.logger.Debugf("State %q resolved to destination %s", state, matched.WebhookURL)

	outcome := s.deliver(ctx, matched)

	if outcome.Success {
		rec := &run.Run{
			RunDate:     today,
			State:       state,
			Destination: matched.WebhookURL,
			Delivered:   true,
		}
		if err := s.runRepo.Record(ctx, rec); err != nil {
			return fmt.Errorf("failed to record run for %s: %w", today, err)
		}
		s.logger.Debugf("Run recorded for %s (ledger ID %d)", today, rec.ID)
	}

	s.sendSummary(ctx, state, matched, outcome)
	return nil
}

// deliver sends the primary notification and converts the result into an
// Outcome. It never returns an error.
func (s *RunService) deliver(ctx context.Context, r rule.Rule) Outcome {
	outcome := Outcome{Destination: r.WebhookURL, Timestamp: s.now()}
	if err := s.client.Send(ctx, r.WebhookURL, r.Message, r.TargetID); err != nil {
		outcome.ErrorDetail = err.Error()
		return outcome
	}
	outcome.Success = true
	return outcome
}

// sendSummary logs the run outcome and, when a summary destination is
// configured, delivers the report there. Summary delivery is best-effort: its
// own failure is logged and never escalated.
func (s *RunService) sendSummary(ctx context.Context, state string, r rule.Rule, o Outcome) {
	text := buildSummary(state, r, o)
	if o.Success {
		s.logger.Info(text)
	} else {
		s.logger.Warn(text)
	}

	if s.summary == nil {
		return
	}
	if err := s.client.Send(ctx, s.summary.WebhookURL, text, s.summary.TargetID); err != nil {
		s.logger.Warnf("Failed to deliver run summary: %v", err)
	}
}

// buildSummary renders the run outcome as a human-readable report line.
func buildSummary(state string, r rule.Rule, o Outcome) string {
	var b strings.Builder
	if o.Success {
		fmt.Fprintf(&b, "Successfully sent %q", r.Message)
	} else {
		fmt.Fprintf(&b, "Failed to send %q", r.Message)
	}
	if r.TargetID != "" {
		fmt.Fprintf(&b, " to %s", r.TargetID)
	}
	fmt.Fprintf(&b, " for state %q via %s", state, o.Destination)
	if o.ErrorDetail != "" {
		fmt.Fprintf(&b, ": %s", o.ErrorDetail)
	}
	return b.String()
}
