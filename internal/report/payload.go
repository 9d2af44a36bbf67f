package report

import (
	"time"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/hoicolor"
)

type LobbyPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Version        string `json:"version"`
	HasPassword    bool   `json:"has_password"`
	Players        string `json:"players"`
	CurrentPlayers uint   `json:"current_players"`
	MaxPlayers     uint   `json:"max_players"`
}

type ReportPayload struct {
	CycleID    string         `json:"cycle_id"`
	ReportedAt time.Time      `json:"reported_at"`
	Lobbies    []LobbyPayload `json:"lobbies"`
}

func NewReportPayload(r domain.Report) ReportPayload {
	lobbies := make([]LobbyPayload, len(r.Lobbies))
	for i, l := range r.Lobbies {
		lobbies[i] = LobbyPayload{
			ID:             l.ID.String(),
			Name:           l.Name,
			DisplayName:    hoicolor.Strip(l.Name),
			Version:        l.Version,
			HasPassword:    l.HasPassword,
			Players:        l.Players(),
			CurrentPlayers: l.CurrentPlayers,
			MaxPlayers:     l.MaxPlayers,
		}
	}
	return ReportPayload{
		CycleID:    r.CycleID,
		ReportedAt: r.ReportedAt,
		Lobbies:    lobbies,
	}
}
