package service

import (
	"lobbywatch/internal/constants"
	"lobbywatch/internal/domain"
	"lobbywatch/internal/matchmaking"
)

func BuildLobbyFilter(c domain.FilterCriteria) matchmaking.LobbyListFilter {
	var filters []matchmaking.StringFilter

	if c.NamePattern != "" {
		filters = append(filters, matchmaking.StringFilter{Key: constants.KeyName, Value: c.NamePattern, Kind: matchmaking.Include})
	}

	if c.RequireNoPassword {
		filters = append(filters, matchmaking.StringFilter{Key: constants.KeyPassword, Value: "0", Kind: matchmaking.Include})
	}

	if c.RequireBaseVersion {
		filters = append(filters, matchmaking.StringFilter{Key: constants.KeyVersion, Value: constants.VanillaChecksum, Kind: matchmaking.Include})
	}

	return matchmaking.LobbyListFilter{String: filters}
}
