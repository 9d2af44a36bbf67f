package report

import (
	"context"

	"lobbywatch/internal/domain"
	"lobbywatch/internal/repository"
)

// History appends every reported lobby to the sighting log. It is write-only
// from the poller's point of view.
type History struct {
	repo *repository.SightingRepository
}

func NewHistory(repo *repository.SightingRepository) *History {
	return &History{repo: repo}
}

func (h *History) Name() string { return "history" }

func (h *History) Report(ctx context.Context, report domain.Report) error {
	sightings := make([]domain.Sighting, len(report.Lobbies))
	for i, l := range report.Lobbies {
		sightings[i] = domain.Sighting{
			CycleID:        report.CycleID,
			LobbyID:        l.ID,
			Name:           l.Name,
			Version:        l.Version,
			HasPassword:    l.HasPassword,
			CurrentPlayers: l.CurrentPlayers,
			MaxPlayers:     l.MaxPlayers,
			ReportedAt:     report.ReportedAt,
		}
	}
	return h.repo.InsertBatch(ctx, sightings)
}
