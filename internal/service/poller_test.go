package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"
	"lobbywatch/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu      sync.Mutex
	reports []domain.Report
	err     error
}

func (r *recordingReporter) Report(_ context.Context, report domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

func (r *recordingReporter) Reports() []domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Report, len(r.reports))
	copy(out, r.reports)
	return out
}

func newTestPoller(t *testing.T, fake *testutils.FakeMatchmaking, opts PollerOptions) (*Poller, *recordingReporter) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	driver := matchmaking.NewDriver(fake, time.Millisecond, testutils.Logger())
	go driver.Run(ctx)

	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}

	reporter := &recordingReporter{}
	poller := NewPoller(
		matchmaking.NewBridge(fake, testutils.Logger()),
		NewSnapshotFetcher(fake, testutils.Logger()),
		reporter,
		opts,
		testutils.Logger(),
	)
	return poller, reporter
}

func named(id domain.LobbyID, name string) testutils.FakeLobby {
	return testutils.FakeLobby{ID: id, Data: map[string]string{"name": name}, MemberLimit: testutils.Uint(4)}
}

func TestPoller_SingleShotEndToEnd(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(testutils.FakeLobby{
		ID:          1001,
		Data:        map[string]string{"name": "Server A", "version": "0143", "password": "0"},
		MemberLimit: testutils.Uint(8),
		MemberCount: 3,
	})
	filter := BuildLobbyFilter(domain.FilterCriteria{RequireNoPassword: true})
	poller, reporter := newTestPoller(t, fake, PollerOptions{Filter: filter})

	require.NoError(t, poller.Run(context.Background()))

	reports := reporter.Reports()
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Lobbies, 1)

	row := reports[0].Lobbies[0]
	assert.Equal(t, "Server A", row.Name)
	assert.Equal(t, "0143", row.Version)
	assert.False(t, row.HasPassword)
	assert.Equal(t, "3/8", row.Players())
	assert.Equal(t, domain.LobbyID(1001), row.ID)
	assert.NotEmpty(t, reports[0].CycleID)

	assert.Equal(t, []matchmaking.LobbyListFilter{filter}, fake.Filters())
}

func TestPoller_TimeoutYieldsEmptySnapshot(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	fake.Silence(true)
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: time.Second, Timeout: 20 * time.Millisecond})

	reported, err := poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reported)
	assert.Empty(t, reporter.Reports())

	_, has := poller.Baseline()
	assert.False(t, has)
}

func TestPoller_SingleShotTimeoutStillReports(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	fake.Silence(true)
	poller, reporter := newTestPoller(t, fake, PollerOptions{Timeout: 20 * time.Millisecond})

	require.NoError(t, poller.Run(context.Background()))

	reports := reporter.Reports()
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Lobbies)
}

func TestPoller_RequestFailureIsRecoverable(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	fake.FailWith(errors.New("service unavailable"))
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: time.Second})

	reported, err := poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reported)
	assert.Empty(t, reporter.Reports())

	fake.FailWith(nil)
	reported, err = poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, reported, 1)
}

func TestPoller_LiteralDiffAcrossCycles(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: time.Second})

	reported, err := poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, reported, 1)

	// same single lobby: nothing new, baseline kept
	reported, err = poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reported)
	baseline, has := poller.Baseline()
	assert.True(t, has)
	assert.Len(t, baseline, 1)

	fake.SetLobbies(named(1, "A"), named(2, "B"))
	reported, err = poller.Cycle(context.Background())
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "B", reported[0].Name)

	// baseline is now [B]; A differs from it and is reported again
	reported, err = poller.Cycle(context.Background())
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "A", reported[0].Name)

	assert.Len(t, reporter.Reports(), 3)
}

func TestPoller_MembershipDiffSuppressesKnownNames(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"), named(2, "B"))
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: time.Second, Diff: MembershipDiff})

	_, err := poller.Cycle(context.Background())
	require.NoError(t, err)

	reported, err := poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reported)
	assert.Len(t, reporter.Reports(), 1)
}

func TestPoller_ReportFailureDoesNotAbortCycle(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: time.Second})
	reporter.err = errors.New("sink down")

	reported, err := poller.Cycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, reported, 1)

	_, has := poller.Baseline()
	assert.True(t, has)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	fake := testutils.NewFakeMatchmaking(named(1, "A"))
	poller, reporter := newTestPoller(t, fake, PollerOptions{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return len(reporter.Reports()) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
