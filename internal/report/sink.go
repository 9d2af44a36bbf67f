package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Sink interface {
	Name() string
	Report(ctx context.Context, report domain.Report) error
}

// Multi fans a report out to every sink. A failing sink does not stop the
// others; all failures are joined into the returned error.
type Multi struct {
	sinks  []Sink
	logger zerolog.Logger
}

func NewMulti(logger zerolog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, logger: logger.With().Str("component", "report").Logger()}
}

func (m *Multi) Sinks() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.Name()
	}
	return names
}

func (m *Multi) Report(ctx context.Context, report domain.Report) error {
	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	for _, sink := range m.sinks {
		g.Go(func() error {
			sinkCtx, cancel := context.WithTimeout(ctx, constants.SinkTimeout)
			defer cancel()

			if err := sink.Report(sinkCtx, report); err != nil {
				m.logger.Warn().Err(err).Str("sink", sink.Name()).Str("cycle_id", report.CycleID).Msg("sink failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}
