package matchmaking

import (
	"errors"
	"lobbywatch/internal/domain"
)

var (
	ErrClientInit      = errors.New("matchmaking client failed to initialize")
	ErrRequestTimeout  = errors.New("lobby list request timed out")
	ErrRequestFailed   = errors.New("lobby list request failed")
	ErrRequestInFlight = errors.New("a lobby list request is already outstanding")
)

type StringFilterKind int

const (
	Include StringFilterKind = iota
	Exclude
)

func (k StringFilterKind) String() string {
	switch k {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// StringFilter is one string-equality predicate on a lobby metadata key.
type StringFilter struct {
	Key   string
	Value string
	Kind  StringFilterKind
}

type LobbyListFilter struct {
	String []StringFilter
}

type LobbyListCallback func(ids []domain.LobbyID, err error)

type LobbyListRequester interface {
	RequestLobbyList(onComplete LobbyListCallback)
}

type Lister interface {
	SetLobbyListFilter(filter LobbyListFilter) LobbyListRequester
}

// MetadataReader reads lobby metadata synchronously. The bool results report
// whether the value was present.
type MetadataReader interface {
	LobbyData(id domain.LobbyID, key string) (string, bool)
	LobbyMemberLimit(id domain.LobbyID) (uint, bool)
	LobbyMemberCount(id domain.LobbyID) uint
}

type CallbackRunner interface {
	RunCallbacks()
}

// Client is the full capability set of the external matchmaking service.
// Implementations guard their own state; callers add no locking.
type Client interface {
	Lister
	MetadataReader
	CallbackRunner
}
