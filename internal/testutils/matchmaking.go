package testutils

import (
	"sync"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"
)

type FakeLobby struct {
	ID          domain.LobbyID
	Data        map[string]string
	MemberLimit *uint
	MemberCount uint
}

// FakeMatchmaking mimics a callback-driven matchmaking client. List requests
// only complete when RunCallbacks is called.
type FakeMatchmaking struct {
	mu           sync.Mutex
	lobbies      []FakeLobby
	failure      error
	silent       bool
	filters      []matchmaking.LobbyListFilter
	queued       []func()
	callbackRuns int
}

var _ matchmaking.Client = (*FakeMatchmaking)(nil)

func NewFakeMatchmaking(lobbies ...FakeLobby) *FakeMatchmaking {
	return &FakeMatchmaking{lobbies: lobbies}
}

func Uint(v uint) *uint {
	return &v
}

func (f *FakeMatchmaking) SetLobbies(lobbies ...FakeLobby) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lobbies = lobbies
}

// FailWith makes subsequent list requests complete with err.
func (f *FakeMatchmaking) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failure = err
}

// Silence makes subsequent list requests never complete.
func (f *FakeMatchmaking) Silence(silent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silent = silent
}

func (f *FakeMatchmaking) Filters() []matchmaking.LobbyListFilter {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]matchmaking.LobbyListFilter, len(f.filters))
	copy(out, f.filters)
	return out
}

func (f *FakeMatchmaking) CallbackRuns() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callbackRuns
}

func (f *FakeMatchmaking) Queued() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queued)
}

func (f *FakeMatchmaking) SetLobbyListFilter(filter matchmaking.LobbyListFilter) matchmaking.LobbyListRequester {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return fakeRequest{fake: f}
}

type fakeRequest struct {
	fake *FakeMatchmaking
}

func (r fakeRequest) RequestLobbyList(onComplete matchmaking.LobbyListCallback) {
	f := r.fake
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.silent {
		return
	}

	if f.failure != nil {
		err := f.failure
		f.queued = append(f.queued, func() { onComplete(nil, err) })
		return
	}

	ids := make([]domain.LobbyID, len(f.lobbies))
	for i, l := range f.lobbies {
		ids[i] = l.ID
	}
	f.queued = append(f.queued, func() { onComplete(ids, nil) })
}

func (f *FakeMatchmaking) RunCallbacks() {
	f.mu.Lock()
	queued := f.queued
	f.queued = nil
	f.callbackRuns++
	f.mu.Unlock()

	for _, cb := range queued {
		cb()
	}
}

func (f *FakeMatchmaking) find(id domain.LobbyID) (FakeLobby, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lobbies {
		if l.ID == id {
			return l, true
		}
	}
	return FakeLobby{}, false
}

func (f *FakeMatchmaking) LobbyData(id domain.LobbyID, key string) (string, bool) {
	l, ok := f.find(id)
	if !ok {
		return "", false
	}
	v, ok := l.Data[key]
	return v, ok
}

func (f *FakeMatchmaking) LobbyMemberLimit(id domain.LobbyID) (uint, bool) {
	l, ok := f.find(id)
	if !ok || l.MemberLimit == nil {
		return 0, false
	}
	return *l.MemberLimit, true
}

func (f *FakeMatchmaking) LobbyMemberCount(id domain.LobbyID) uint {
	l, _ := f.find(id)
	return l.MemberCount
}
