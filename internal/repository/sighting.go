package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SightingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSightingRepository(sqlDB *sql.DB, logger zerolog.Logger) *SightingRepository {
	return &SightingRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const insertSighting = `
INSERT INTO sightings (id, cycle_id, lobby_id, name, version, has_password, current_players, max_players, reported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *SightingRepository) InsertBatch(ctx context.Context, sightings []domain.Sighting) error {
	if len(sightings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSighting)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < len(sightings); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(sightings))

		for _, s := range sightings[i:end] {
			id := s.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}

			_, err := stmt.ExecContext(ctx,
				id,
				s.CycleID,
				int64(s.LobbyID),
				s.Name,
				s.Version,
				s.HasPassword,
				int64(s.CurrentPlayers),
				int64(s.MaxPlayers),
				s.ReportedAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert sighting of lobby %s: %w", s.LobbyID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sightings: %w", err)
	}

	r.logger.Debug().Int("count", len(sightings)).Msg("sightings stored")
	return nil
}

const recentSightings = `
SELECT id, cycle_id, lobby_id, name, version, has_password, current_players, max_players, reported_at
FROM sightings
ORDER BY reported_at DESC, rowid DESC
LIMIT ?`

func (r *SightingRepository) Recent(ctx context.Context, limit int) ([]domain.Sighting, error) {
	rows, err := r.db.QueryContext(ctx, recentSightings, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Sighting, 0, limit)
	for rows.Next() {
		var (
			s              domain.Sighting
			lobbyID        int64
			currentPlayers int64
			maxPlayers     int64
			reportedAt     time.Time
		)
		if err := rows.Scan(&s.ID, &s.CycleID, &lobbyID, &s.Name, &s.Version, &s.HasPassword, &currentPlayers, &maxPlayers, &reportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		s.LobbyID = domain.LobbyID(lobbyID)
		s.CurrentPlayers = uint(currentPlayers)
		s.MaxPlayers = uint(maxPlayers)
		s.ReportedAt = reportedAt
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sightings: %w", err)
	}

	return result, nil
}

func (r *SightingRepository) CountByLobby(ctx context.Context, id domain.LobbyID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sightings WHERE lobby_id = ?`, int64(id)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sightings: %w", err)
	}
	return count, nil
}
