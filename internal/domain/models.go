package domain

import (
	"strconv"
	"time"
)

type FilterCriteria struct {
	NamePattern        string
	RequireNoPassword  bool
	RequireBaseVersion bool
}

// LobbyID is the opaque handle the matchmaking service assigns to a lobby.
type LobbyID uint64

func (id LobbyID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

type Lobby struct {
	Name           string
	Version        string
	HasPassword    bool
	MaxPlayers     uint
	CurrentPlayers uint
	ID             LobbyID
}

// Players renders the occupancy as "current/max".
func (l Lobby) Players() string {
	return strconv.FormatUint(uint64(l.CurrentPlayers), 10) + "/" + strconv.FormatUint(uint64(l.MaxPlayers), 10)
}

// Snapshot keeps the order the matchmaking service returned the ids in.
type Snapshot []Lobby

type Report struct {
	CycleID    string
	ReportedAt time.Time
	Lobbies    Snapshot
}

type Sighting struct {
	ID             string // nanoid
	CycleID        string
	LobbyID        LobbyID
	Name           string
	Version        string
	HasPassword    bool
	CurrentPlayers uint
	MaxPlayers     uint
	ReportedAt     time.Time
}
