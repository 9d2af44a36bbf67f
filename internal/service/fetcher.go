package service

import (
	"context"
	"fmt"

	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SnapshotFetcher struct {
	reader      matchmaking.MetadataReader
	concurrency int
	logger      zerolog.Logger
}

func NewSnapshotFetcher(reader matchmaking.MetadataReader, logger zerolog.Logger) *SnapshotFetcher {
	return &SnapshotFetcher{
		reader:      reader,
		concurrency: constants.FetchConcurrency,
		logger:      logger.With().Str("component", "snapshot_fetcher").Logger(),
	}
}

// Fetch resolves every id into a lobby summary. The result has the same order
// as ids; missing metadata falls back to defaults and never drops a lobby.
func (f *SnapshotFetcher) Fetch(ctx context.Context, ids []domain.LobbyID) (domain.Snapshot, error) {
	lobbies := make(domain.Snapshot, len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			lobbies[i] = f.resolve(id)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve lobbies: %w", err)
	}

	f.logger.Debug().Int("lobbies", len(lobbies)).Msg("snapshot resolved")
	return lobbies, nil
}

func (f *SnapshotFetcher) resolve(id domain.LobbyID) domain.Lobby {
	name, _ := f.reader.LobbyData(id, constants.KeyName)
	version, _ := f.reader.LobbyData(id, constants.KeyVersion)
	password, _ := f.reader.LobbyData(id, constants.KeyPassword)

	maxPlayers, ok := f.reader.LobbyMemberLimit(id)
	if !ok {
		f.logger.Debug().Stringer("lobby_id", id).Msg("member limit missing, using default")
		maxPlayers = constants.DefaultMaxPlayers
	}

	return domain.Lobby{
		Name:           name,
		Version:        version,
		HasPassword:    password == "1",
		MaxPlayers:     maxPlayers,
		CurrentPlayers: f.reader.LobbyMemberCount(id),
		ID:             id,
	}
}
