package service

import (
	"context"
	"errors"
	"time"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(ctx context.Context, report domain.Report) error
}

type PollerOptions struct {
	Filter   matchmaking.LobbyListFilter
	Interval time.Duration // zero runs a single cycle
	Timeout  time.Duration
	Diff     DiffFunc
}

// Poller owns the baseline snapshot. It is driven by a single goroutine.
type Poller struct {
	bridge   *matchmaking.Bridge
	fetcher  *SnapshotFetcher
	reporter Reporter
	opts     PollerOptions
	logger   zerolog.Logger

	baseline    domain.Snapshot
	hasBaseline bool
}

func NewPoller(bridge *matchmaking.Bridge, fetcher *SnapshotFetcher, reporter Reporter, opts PollerOptions, logger zerolog.Logger) *Poller {
	if opts.Diff == nil {
		opts.Diff = LiteralDiff
	}
	return &Poller{
		bridge:   bridge,
		fetcher:  fetcher,
		reporter: reporter,
		opts:     opts,
		logger:   logger.With().Str("component", "poller").Logger(),
	}
}

// Run performs one cycle when the interval is zero, otherwise it polls until
// ctx is cancelled. Cancellation is not an error.
func (p *Poller) Run(ctx context.Context) error {
	if p.opts.Interval <= 0 {
		_, err := p.cycle(ctx, true)
		return ignoreCancel(err)
	}

	p.logger.Info().Dur("interval", p.opts.Interval).Msg("polling started")
	for {
		if _, err := p.cycle(ctx, false); err != nil {
			return ignoreCancel(err)
		}

		p.logger.Debug().Str("state", "sleeping").Msg("waiting for next cycle")
		timer := time.NewTimer(p.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info().Msg("polling stopped")
			return nil
		case <-timer.C:
		}
	}
}

// Cycle runs one fetch-compare-report pass and returns what was reported.
func (p *Poller) Cycle(ctx context.Context) (domain.Snapshot, error) {
	return p.cycle(ctx, false)
}

func (p *Poller) Baseline() (domain.Snapshot, bool) {
	return p.baseline, p.hasBaseline
}

func (p *Poller) cycle(ctx context.Context, alwaysReport bool) (domain.Snapshot, error) {
	cycleID := uuid.NewString()
	logger := p.logger.With().Str("cycle_id", cycleID).Logger()

	logger.Debug().Str("state", "fetching").Msg("requesting lobbies")
	current, err := p.fetch(ctx, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("state", "comparing").Int("current", len(current)).Msg("comparing snapshots")
	reported := p.opts.Diff(p.baseline, p.hasBaseline, current)

	if len(reported) == 0 && !alwaysReport {
		logger.Debug().Msg("nothing new to report")
		return reported, nil
	}

	logger.Debug().Str("state", "reporting").Int("reported", len(reported)).Msg("reporting lobbies")
	err = p.reporter.Report(ctx, domain.Report{
		CycleID:    cycleID,
		ReportedAt: time.Now(),
		Lobbies:    reported,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to report lobbies")
	}

	if len(reported) > 0 {
		p.baseline = reported
		p.hasBaseline = true
	}
	return reported, nil
}

// fetch turns timeouts and failed requests into an empty snapshot so the
// cycle carries on.
func (p *Poller) fetch(ctx context.Context, logger zerolog.Logger) (domain.Snapshot, error) {
	pending, err := p.bridge.Request(p.opts.Filter)
	if err != nil {
		return nil, err
	}

	ids, err := pending.Await(ctx, p.opts.Timeout)
	switch {
	case errors.Is(err, matchmaking.ErrRequestTimeout):
		logger.Warn().Dur("timeout", p.opts.Timeout).Msg("request timed out")
		return domain.Snapshot{}, nil
	case errors.Is(err, matchmaking.ErrRequestFailed):
		logger.Warn().Err(err).Msg("lobby list request failed")
		return domain.Snapshot{}, nil
	case err != nil:
		return nil, err
	}

	return p.fetcher.Fetch(ctx, ids)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
