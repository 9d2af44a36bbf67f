package matchmaking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lobbywatch/internal/domain"

	"github.com/rs/zerolog"
)

type listResult struct {
	ids []domain.LobbyID
	err error
}

// Bridge turns the callback-based lobby list operation into a blocking,
// time-bounded receive. Only one request may be outstanding at a time.
type Bridge struct {
	lister Lister
	logger zerolog.Logger

	mu          sync.Mutex
	outstanding *Pending
}

func NewBridge(lister Lister, logger zerolog.Logger) *Bridge {
	return &Bridge{
		lister: lister,
		logger: logger.With().Str("component", "request_bridge").Logger(),
	}
}

// Pending is the single-use receive side of one lobby list request.
type Pending struct {
	bridge   *Bridge
	results  chan listResult
	issuedAt time.Time
}

func (b *Bridge) Request(filter LobbyListFilter) (*Pending, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.outstanding != nil {
		return nil, ErrRequestInFlight
	}

	// buffered so a completion that arrives after Await gave up never blocks
	// the callback driver
	p := &Pending{
		bridge:   b,
		results:  make(chan listResult, 1),
		issuedAt: time.Now(),
	}
	b.outstanding = p

	b.logger.Debug().Int("filters", len(filter.String)).Msg("requesting lobby list")
	b.lister.SetLobbyListFilter(filter).RequestLobbyList(func(ids []domain.LobbyID, err error) {
		select {
		case p.results <- listResult{ids: ids, err: err}:
		default:
			b.logger.Warn().Msg("duplicate lobby list completion dropped")
		}
	})

	return p, nil
}

// Await blocks until the completion arrives, timeout elapses or ctx is done.
func (p *Pending) Await(ctx context.Context, timeout time.Duration) ([]domain.LobbyID, error) {
	defer p.bridge.release(p)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-p.results:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRequestFailed, res.err)
		}
		p.bridge.logger.Debug().
			Int("lobbies", len(res.ids)).
			Dur("elapsed", time.Since(p.issuedAt)).
			Msg("lobby list received")
		return res.ids, nil
	case <-timer.C:
		return nil, ErrRequestTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Bridge) release(p *Pending) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.outstanding == p {
		b.outstanding = nil
	}
}
